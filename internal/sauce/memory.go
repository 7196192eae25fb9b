package sauce

import (
	"context"
	"math/rand"
	"sync"

	"github.com/AmiralBl3ndic/Vinaigrette/internal/game"
)

// MemoryStore is the in-process PuzzleSource used when no database is
// configured, and by tests.
type MemoryStore struct {
	banThreshold int

	mu      sync.Mutex
	sauces  []*game.Puzzle
	reports map[string]int
	banned  map[string]bool
}

func NewMemoryStore(banThreshold int) *MemoryStore {
	return &MemoryStore{
		banThreshold: banThreshold,
		reports:      make(map[string]int),
		banned:       make(map[string]bool),
	}
}

func (m *MemoryStore) Add(p *game.Puzzle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sauces = append(m.sauces, p)
}

func (m *MemoryStore) CreateQuote(_ context.Context, quote, answer string) (string, error) {
	p, err := NewQuote(quote, answer)
	if err != nil {
		return "", err
	}
	m.Add(p)
	return p.ID, nil
}

func (m *MemoryStore) CreateImage(_ context.Context, imageURL, answer string) (string, error) {
	p, err := NewImage(imageURL, answer)
	if err != nil {
		return "", err
	}
	m.Add(p)
	return p.ID, nil
}

func (m *MemoryStore) GetRandom(_ context.Context) (*game.Puzzle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	available := make([]*game.Puzzle, 0, len(m.sauces))
	for _, p := range m.sauces {
		if !m.banned[p.ID] {
			available = append(available, p)
		}
	}
	if len(available) == 0 {
		return nil, game.ErrNoSauce
	}
	return available[rand.Intn(len(available))], nil
}

func (m *MemoryStore) Report(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports[id]++
	if m.reports[id] >= m.banThreshold {
		m.banned[id] = true
	}
	return nil
}

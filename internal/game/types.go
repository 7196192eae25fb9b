package game

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	ErrNameTaken      = errors.New("Room name is already in use")
	ErrRoomNotFound   = errors.New("Room not found")
	ErrRoomNotJoined  = errors.New("Room not joined")
	ErrAlreadyStarted = errors.New("A game already started in that room")
	ErrNoSauce        = errors.New("no sauce available")
	ErrUsernameNotSet = errors.New("Username not set")
	ErrAlreadyInRoom  = errors.New("Already in a room")
)

type RoomState string

const (
	StateLobby         RoomState = "Lobby"
	StateRoundActive   RoomState = "RoundActive"
	StateRoundSettling RoomState = "RoundSettling"
	StateFinished      RoomState = "Finished"
)

type PuzzleType string

const (
	PuzzleImage PuzzleType = "image"
	PuzzleQuote PuzzleType = "quote"
)

// Puzzle is a single sauce to guess. Answer holds the normalized canonical
// form used for grading; OriginalAnswer is what gets revealed at round end.
type Puzzle struct {
	ID             string
	Type           PuzzleType
	ImageURL       string
	Quote          string
	Answer         string
	OriginalAnswer string
}

// Prompt is the public payload sent to clients. It never carries the answer.
func (p *Puzzle) Prompt() map[string]any {
	if p.Type == PuzzleImage {
		return map[string]any{"type": string(PuzzleImage), "imageUrl": p.ImageURL}
	}
	return map[string]any{"type": string(PuzzleQuote), "quote": p.Quote}
}

// PuzzleSource supplies sauces to rooms. GetRandom returns ErrNoSauce when the
// source is exhausted. Report is fire-and-forget from the room's perspective.
type PuzzleSource interface {
	GetRandom(ctx context.Context) (*Puzzle, error)
	Report(ctx context.Context, id string) error
}

// Emitter is the outbound half of a client connection. socketio.Conn
// satisfies it directly.
type Emitter interface {
	Emit(event string, args ...any)
}

// ScoreboardEntry mirrors join order when sent as part of a scoreboard
// snapshot. Found reflects the current round only.
type ScoreboardEntry struct {
	Player string `json:"player"`
	Score  int    `json:"score"`
	Found  bool   `json:"found"`
}

// Session is one connected player. The router owns it; a room only references
// it while the player is a member. Score and answer state are guarded by the
// owning room's lock, identity fields by the session's own.
type Session struct {
	ID   string
	Conn Emitter

	mu       sync.Mutex
	username string
	room     *Room

	score      int
	answered   bool
	answeredAt time.Time
}

func NewSession(id string, conn Emitter) *Session {
	return &Session{ID: id, Conn: conn}
}

func (s *Session) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username
}

func (s *Session) SetUsername(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.username = name
}

func (s *Session) Room() *Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room
}

func (s *Session) setRoom(r *Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.room = r
}

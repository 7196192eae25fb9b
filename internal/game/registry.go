package game

import "sync"

// Registry is the process-wide directory of active rooms. It only does
// bookkeeping: directory broadcasts after Create/Remove are the router's job.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
	names []string // insertion order, drives the lobby room list
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

func (g *Registry) IsNameAvailable(name string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, taken := g.rooms[name]
	return !taken
}

func (g *Registry) Create(name string, source PuzzleSource, cfg Config) (*Room, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, taken := g.rooms[name]; taken {
		return nil, ErrNameTaken
	}
	room := NewRoom(name, source, cfg)
	g.rooms[name] = room
	g.names = append(g.names, name)
	return room, nil
}

func (g *Registry) Find(name string) (*Room, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	room, ok := g.rooms[name]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

func (g *Registry) Remove(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.rooms[name]; !ok {
		return
	}
	delete(g.rooms, name)
	for i, n := range g.names {
		if n == name {
			g.names = append(g.names[:i], g.names[i+1:]...)
			break
		}
	}
}

func (g *Registry) ListNames() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]string, len(g.names))
	copy(out, g.names)
	return out
}

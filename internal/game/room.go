package game

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const startingRoundPoints = 5

// Config carries the game parameters a room is created with.
type Config struct {
	WinningScore         int
	RoundDurationSeconds int
	RoundPause           time.Duration
	CloseThreshold       int
	ResultsFile          string // when set, finished games are appended there

	// tickPeriod is a test hook; production rooms always tick once a second.
	tickPeriod time.Duration
}

func (c Config) withDefaults() Config {
	if c.WinningScore <= 0 {
		c.WinningScore = 100
	}
	if c.RoundDurationSeconds <= 0 {
		c.RoundDurationSeconds = 25
	}
	if c.RoundPause <= 0 {
		c.RoundPause = 4 * time.Second
	}
	if c.CloseThreshold <= 0 {
		c.CloseThreshold = 2
	}
	if c.tickPeriod <= 0 {
		c.tickPeriod = time.Second
	}
	return c
}

// Room runs one game: a scoreboard, a round timer and a sequence of sauces
// pulled from its PuzzleSource. All state transitions serialize on mu; timer
// callbacks and socket handlers both go through it, so the expiry path and
// the early-termination path can never both end the same round.
type Room struct {
	Name string

	cfg    Config
	source PuzzleSource

	mu        sync.Mutex
	state     RoomState
	sessions  []*Session // join order
	points    int
	puzzle    *Puzzle
	remaining int
	timer     *RoundTimer
	pause     *time.Timer
	reported  bool
	closing   bool
}

func NewRoom(name string, source PuzzleSource, cfg Config) *Room {
	return &Room{
		Name:   name,
		cfg:    cfg.withDefaults(),
		source: source,
		state:  StateLobby,
		points: startingRoundPoints,
	}
}

func (r *Room) State() RoomState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Scoreboard returns the current snapshot in join order.
func (r *Room) Scoreboard() []ScoreboardEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scoreboardLocked()
}

// Join admits a session, mid-round included: a late joiner starts at zero,
// immediately receives the current puzzle and the elapsed timer value.
func (r *Room) Join(s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closing {
		return ErrRoomNotFound
	}
	s.score = 0
	s.answered = false
	s.answeredAt = time.Time{}
	r.sessions = append(r.sessions, s)
	s.setRoom(r)
	if r.state == StateRoundActive && r.puzzle != nil {
		s.Conn.Emit("new_round_puzzle", r.puzzle.Prompt())
		s.Conn.Emit("timer_update", map[string]any{"remainingSeconds": r.remaining})
	}
	r.broadcastScoreboardLocked()
	return nil
}

// Leave removes a session. The returned bool reports whether the room is now
// empty; the caller is responsible for dropping an empty room from the
// registry and broadcasting the updated directory.
func (r *Room) Leave(s *Session) (empty bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := -1
	for i, member := range r.sessions {
		if member == s {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, ErrRoomNotJoined
	}
	r.sessions = append(r.sessions[:idx], r.sessions[idx+1:]...)
	s.setRoom(nil)
	if len(r.sessions) == 0 {
		r.closing = true
		if r.timer != nil {
			r.timer.Cancel()
			r.timer = nil
		}
		if r.pause != nil {
			r.pause.Stop()
			r.pause = nil
		}
		return true, nil
	}
	r.broadcastScoreboardLocked()
	return false, nil
}

// Start begins a game: scores reset, first round launched. Calling it while a
// game is running reports ErrAlreadyStarted.
func (r *Room) Start() error {
	r.mu.Lock()
	if r.closing {
		r.mu.Unlock()
		return ErrRoomNotFound
	}
	if r.state != StateLobby && r.state != StateFinished {
		r.mu.Unlock()
		return ErrAlreadyStarted
	}
	r.state = StateRoundActive
	for _, s := range r.sessions {
		s.score = 0
		s.answered = false
		s.answeredAt = time.Time{}
	}
	r.broadcastLocked("game_start")
	r.broadcastScoreboardLocked()
	r.mu.Unlock()

	go r.beginRound()
	return nil
}

// beginRound pulls the next sauce and arms the round timer. Pulling is the
// round loop's only suspension point, so it happens outside the lock.
func (r *Room) beginRound() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	puzzle, err := r.source.GetRandom(ctx)
	cancel()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closing {
		return
	}
	if err != nil || puzzle == nil {
		if err != nil && !errors.Is(err, ErrNoSauce) {
			log.Error().Err(err).Str("room", r.Name).Msg("puzzle source failed, ending game")
		}
		r.state = StateFinished
		r.broadcastLocked("no_sauces_available")
		r.broadcastLocked("game_end")
		return
	}

	r.puzzle = puzzle
	r.points = startingRoundPoints
	r.reported = false
	r.remaining = r.cfg.RoundDurationSeconds
	for _, s := range r.sessions {
		s.answered = false
		s.answeredAt = time.Time{}
	}
	r.state = StateRoundActive
	r.broadcastLocked("new_round_puzzle", puzzle.Prompt())

	r.timer = newRoundTimer(r.cfg.RoundDurationSeconds, r.cfg.tickPeriod, r.handleTick, r.handleExpiry)
	r.timer.Start()
}

func (r *Room) handleTick(remaining int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRoundActive {
		return
	}
	r.remaining = remaining
	r.broadcastLocked("timer_update", map[string]any{"remainingSeconds": remaining})
	if len(r.sessions) > 0 && r.allAnsweredLocked() {
		r.endRoundLocked()
	}
}

func (r *Room) handleExpiry() {
	r.mu.Lock()
	defer r.mu.Unlock()
	// the round may already have ended early on the same tick
	if r.state != StateRoundActive {
		return
	}
	r.endRoundLocked()
}

// endRoundLocked runs the round-end sequence exactly once per round: the
// state check in both timer callbacks guarantees a single entry.
func (r *Room) endRoundLocked() {
	r.state = StateRoundSettling
	if r.timer != nil {
		r.timer.Cancel()
		r.timer = nil
	}
	r.broadcastLocked("round_end")
	r.broadcastLocked("right_answer", map[string]any{"answer": r.puzzle.OriginalAnswer})

	winner := r.winnerLocked()
	if winner == nil {
		r.pause = time.AfterFunc(r.cfg.RoundPause, func() {
			r.mu.Lock()
			if r.closing || r.state != StateRoundSettling {
				r.mu.Unlock()
				return
			}
			r.mu.Unlock()
			r.beginRound()
		})
		return
	}

	username, score := winner.Username(), winner.score
	r.pause = time.AfterFunc(r.cfg.RoundPause, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.closing || r.state != StateRoundSettling {
			return
		}
		r.broadcastLocked("player_won", map[string]any{"username": username, "score": score})
		r.broadcastLocked("game_end")
		r.state = StateFinished
		if r.cfg.ResultsFile != "" {
			entries := r.scoreboardLocked()
			go func() {
				if err := appendResult(r.cfg.ResultsFile, r.Name, username, score, entries); err != nil {
					log.Error().Err(err).Str("room", r.Name).Msg("failed to export game result")
				}
			}()
		}
	})
}

// winnerLocked picks the winner once somebody crossed the winning score:
// highest score wins, ties broken by the earliest correct answer of the
// deciding round.
func (r *Room) winnerLocked() *Session {
	var best *Session
	for _, s := range r.sessions {
		if s.score < r.cfg.WinningScore {
			continue
		}
		if best == nil || s.score > best.score ||
			(s.score == best.score && s.answeredAt.Before(best.answeredAt)) {
			best = s
		}
	}
	return best
}

// SubmitAnswer grades an answer against the current puzzle. Submissions from
// players who already answered correctly this round are ignored. The
// answering player's own acknowledgment is queued before the scoreboard
// broadcast that reflects it.
func (r *Room) SubmitAnswer(s *Session, answer string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRoundActive || r.puzzle == nil || !r.isMemberLocked(s) {
		return
	}
	if s.answered {
		return
	}
	switch Grade(answer, r.puzzle.Answer, r.cfg.CloseThreshold) {
	case Correct:
		s.answered = true
		s.answeredAt = time.Now()
		s.score += r.points
		r.points = nextRoundPoints(r.points)
		s.Conn.Emit("good_answer")
		r.broadcastScoreboardLocked()
	case Close:
		s.Conn.Emit("answer_is_close")
	default:
		s.Conn.Emit("wrong_answer")
	}
}

// ReportCurrentPuzzle forwards a report to the puzzle source without blocking
// the round loop. A puzzle is reported at most once per round.
func (r *Room) ReportCurrentPuzzle(s *Session) {
	r.mu.Lock()
	if r.state != StateRoundActive || r.puzzle == nil || !r.isMemberLocked(s) || r.reported {
		r.mu.Unlock()
		return
	}
	r.reported = true
	id := r.puzzle.ID
	r.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := r.source.Report(ctx, id); err != nil {
			log.Error().Err(err).Str("room", r.Name).Str("sauce", id).Msg("sauce report failed")
		}
	}()
}

// Chat relays a message to every member of the room.
func (r *Room) Chat(s *Session, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.isMemberLocked(s) {
		return
	}
	r.broadcastLocked("chat", map[string]any{"username": s.Username(), "message": message})
}

func (r *Room) isMemberLocked(s *Session) bool {
	for _, member := range r.sessions {
		if member == s {
			return true
		}
	}
	return false
}

func (r *Room) allAnsweredLocked() bool {
	for _, s := range r.sessions {
		if !s.answered {
			return false
		}
	}
	return true
}

func (r *Room) scoreboardLocked() []ScoreboardEntry {
	active := r.state == StateRoundActive
	entries := make([]ScoreboardEntry, 0, len(r.sessions))
	for _, s := range r.sessions {
		entries = append(entries, ScoreboardEntry{
			Player: s.Username(),
			Score:  s.score,
			Found:  active && s.answered,
		})
	}
	return entries
}

func (r *Room) broadcastScoreboardLocked() {
	r.broadcastLocked("scoreboard_update", map[string]any{"scoreboard": r.scoreboardLocked()})
}

func (r *Room) broadcastLocked(event string, args ...any) {
	for _, s := range r.sessions {
		s.Conn.Emit(event, args...)
	}
}

// nextRoundPoints steps the reward for the next correct answer down the fixed
// 5, 3, 2, 1 sequence. It only moves on correct answers and never goes below 1.
func nextRoundPoints(points int) int {
	switch points {
	case startingRoundPoints:
		return 3
	case 3:
		return 2
	default:
		return 1
	}
}

package engine

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
)

// seedStream is the second PCG seed word, fixed so a single user-visible seed
// fully determines the event sequence.
const seedStream = 0x9e3779b97f4a7c15

// Metrics holds cumulative counters for one session. SimulatedMs is virtual
// time: the sum of emitted delays, independent of wall-clock pacing.
type Metrics struct {
	TypedChars   int         `json:"typed_chars"`
	Typos        int         `json:"typos"`
	Corrections  int         `json:"corrections"`
	Deletes      int         `json:"deletes"`
	Events       int         `json:"events"`
	SimulatedMs  int64       `json:"simulated_ms"`
	BurstLengths map[int]int `json:"burst_lengths,omitempty"`
}

func (m Metrics) clone() Metrics {
	out := m
	out.BurstLengths = make(map[int]int, len(m.BurstLengths))
	for length, count := range m.BurstLengths {
		out.BurstLengths[length] = count
	}
	return out
}

// Snapshot captures a paused session for exact resume. It never carries the
// payload text; Restore receives the same text from the caller.
type Snapshot struct {
	Position          int     `json:"position"`
	Rhythm            float64 `json:"rhythm"`
	StreakProbability float64 `json:"streak_probability"`
	BufferTyped       string  `json:"buffer_typed,omitempty"`
	BufferIntended    string  `json:"buffer_intended,omitempty"`
	PrevChar          string  `json:"prev_char,omitempty"`
	Seed              uint64  `json:"seed"`
	Metrics           Metrics `json:"metrics"`
	RandState         []byte  `json:"rand_state"`
}

// Session drives one typing run over one payload. All methods are safe for
// concurrent use, but events are produced as a single ordered sequence.
type Session struct {
	mu  sync.Mutex
	cfg Config

	text []rune
	seed uint64
	src  *rand.PCG
	rnd  *rand.Rand

	state      State
	pos        int
	rhythm     float64
	streakProb float64

	// Open typo streak: wrong characters as emitted and the characters that
	// were intended, index-aligned. Drained by the correction burst.
	bufTyped    []rune
	bufIntended []rune

	prev    rune
	hasPrev bool

	// pending holds queued actions not yet pulled; burstRemaining counts the
	// leading entries that belong to an atomic correction burst.
	pending        []Action
	burstRemaining int

	pauseRequested  bool
	cancelRequested bool

	metrics Metrics
}

// NewSession creates a session with a randomly chosen seed.
func NewSession(text string, cfg Config) (*Session, error) {
	return NewSessionSeeded(text, cfg, rand.Uint64())
}

// NewSessionSeeded creates a session whose event sequence is fully determined
// by the seed. The configuration is validated up front and copied; it is
// never mutated during the run.
func NewSessionSeeded(text string, cfg Config, seed uint64) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg.Adjacency = copyAdjacency(cfg.Adjacency)
	src := rand.NewPCG(seed, seedStream)
	return &Session{
		cfg:        cfg,
		text:       []rune(text),
		seed:       seed,
		src:        src,
		rnd:        rand.New(src),
		state:      StateIdle,
		rhythm:     1.0,
		streakProb: cfg.TypoProbability,
		metrics:    Metrics{BurstLengths: map[int]int{}},
	}, nil
}

// Restore rebuilds a session from a snapshot taken by Snapshot. The caller
// supplies the same payload text and configuration; the restored session is
// paused and produces exactly the events the original would have produced.
func Restore(text string, cfg Config, snap Snapshot) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg.Adjacency = copyAdjacency(cfg.Adjacency)
	runes := []rune(text)
	if snap.Position < 0 || snap.Position > len(runes) {
		return nil, fmt.Errorf("snapshot position %d out of range for %d characters", snap.Position, len(runes))
	}
	typed := []rune(snap.BufferTyped)
	intended := []rune(snap.BufferIntended)
	if len(typed) != len(intended) {
		return nil, fmt.Errorf("snapshot buffer mismatch: %d typed vs %d intended", len(typed), len(intended))
	}
	src := rand.NewPCG(0, 0)
	if err := src.UnmarshalBinary(snap.RandState); err != nil {
		return nil, fmt.Errorf("failed to restore random state: %w", err)
	}
	metrics := snap.Metrics
	if metrics.BurstLengths == nil {
		metrics.BurstLengths = map[int]int{}
	}
	s := &Session{
		cfg:         cfg,
		text:        runes,
		seed:        snap.Seed,
		src:         src,
		rnd:         rand.New(src),
		state:       StatePaused,
		pos:         snap.Position,
		rhythm:      snap.Rhythm,
		streakProb:  snap.StreakProbability,
		bufTyped:    typed,
		bufIntended: intended,
		metrics:     metrics,
	}
	if snap.PrevChar != "" {
		s.prev = []rune(snap.PrevChar)[0]
		s.hasPrev = true
	}
	return s, nil
}

// Next returns the next action in the sequence. ok is false once no action is
// available; the caller distinguishes completion, cancellation, and pause via
// State. A paused session resumes producing after Resume.
func (s *Session) Next() (Action, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateIdle:
		s.state = StateRunning
	case StateRunning:
	default:
		return Action{}, false
	}

	// Cancellation is honored as soon as no burst is partially emitted;
	// anything else still queued is dropped.
	if s.cancelRequested && s.burstRemaining == 0 {
		s.terminate()
		return Action{}, false
	}

	if len(s.pending) == 0 {
		if s.pauseRequested {
			s.pauseRequested = false
			s.state = StatePaused
			return Action{}, false
		}
		s.step()
		if s.state != StateRunning && len(s.pending) == 0 {
			return Action{}, false
		}
	}
	if len(s.pending) == 0 {
		return Action{}, false
	}

	act := s.pending[0]
	s.pending = s.pending[1:]
	if s.burstRemaining > 0 {
		s.burstRemaining--
	}
	switch act.Kind {
	case ActionType:
		s.metrics.TypedChars++
	case ActionDelete:
		s.metrics.Deletes++
	}
	s.metrics.Events++
	s.metrics.SimulatedMs += int64(act.DelayMs)
	return act, true
}

// step consumes one input position (or flushes the final streak) into the
// pending queue. Called with the lock held, state Running, queue empty.
func (s *Session) step() {
	if s.pos >= len(s.text) {
		if len(s.bufTyped) > 0 {
			s.queueCorrection()
			return
		}
		s.state = StateCompleted
		return
	}

	ch := s.text[s.pos]
	isTypo, nextProb := decideTypo(s.rnd, ch, s.streakProb, s.cfg)
	s.streakProb = nextProb

	if isTypo {
		wrong := substituteTypo(s.rnd, ch, s.cfg.Adjacency)
		s.rhythm = advanceRhythm(s.rnd, s.rhythm)
		s.pending = append(s.pending, Action{Kind: ActionType, Char: wrong, DelayMs: s.charDelay(wrong)})
		s.bufTyped = append(s.bufTyped, wrong)
		s.bufIntended = append(s.bufIntended, ch)
		s.setPrev(wrong)
		s.pos++
		s.metrics.Typos++
		return
	}

	if len(s.bufTyped) > 0 {
		s.queueCorrection()
	}
	s.rhythm = advanceRhythm(s.rnd, s.rhythm)
	s.pending = append(s.pending, Action{Kind: ActionType, Char: ch, DelayMs: s.charDelay(ch)})
	s.setPrev(ch)
	s.pos++
}

// queueCorrection turns the open typo streak into one atomic burst: a fixed
// pause, one delete per buffered character at the mechanical delete modifier,
// then the intended characters retyped through the full delay pipeline.
// Rhythm does not advance during the replay; each position already advanced
// it when the wrong character was emitted.
func (s *Session) queueCorrection() {
	n := len(s.bufTyped)
	burst := make([]Action, 0, 2*n+1)
	burst = append(burst, Action{Kind: ActionPause, DelayMs: s.cfg.CorrectionPauseMs})
	for range s.bufTyped {
		base := baseDelay(s.rnd, s.cfg.MinDelayMs, s.cfg.MaxDelayMs)
		burst = append(burst, Action{Kind: ActionDelete, DelayMs: int(math.Round(base * s.cfg.Modifiers.Delete))})
	}
	// The pause breaks typing flow: no repeat discount on the first retype.
	s.hasPrev = false
	for _, intended := range s.bufIntended {
		burst = append(burst, Action{Kind: ActionType, Char: intended, DelayMs: s.charDelay(intended)})
		s.setPrev(intended)
	}
	s.pending = append(s.pending, burst...)
	s.burstRemaining = len(burst)
	s.metrics.Corrections++
	s.metrics.BurstLengths[n]++
	s.bufTyped = s.bufTyped[:0]
	s.bufIntended = s.bufIntended[:0]
}

func (s *Session) charDelay(ch rune) int {
	base := baseDelay(s.rnd, s.cfg.MinDelayMs, s.cfg.MaxDelayMs)
	mod := modifierFor(s.cfg.Modifiers, ch, s.prev, s.hasPrev)
	return int(math.Round(base * mod * s.rhythm))
}

func (s *Session) setPrev(ch rune) {
	s.prev = ch
	s.hasPrev = true
}

func (s *Session) terminate() {
	s.cancelRequested = false
	s.pauseRequested = false
	s.pending = nil
	s.burstRemaining = 0
	s.bufTyped = nil
	s.bufIntended = nil
	s.state = StateCanceled
}

// Pause requests a pause at the next character boundary. A correction burst
// in flight finishes first; the session then reports StatePaused from Next.
func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRunning && s.state != StateIdle {
		return fmt.Errorf("cannot pause a %s session", s.state)
	}
	s.pauseRequested = true
	return nil
}

// Resume continues a paused session.
func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePaused {
		return fmt.Errorf("cannot resume a %s session", s.state)
	}
	s.state = StateRunning
	return nil
}

// Cancel terminates the session. An unflushed typo buffer is discarded. When
// a correction burst has been partially pulled, the remaining burst actions
// stay available so the burst is never split; the terminal state lands once
// they are drained.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateCompleted, StateCanceled:
		return
	}
	if s.burstRemaining > 0 {
		s.cancelRequested = true
		return
	}
	s.terminate()
}

// Snapshot captures a paused session. The snapshot plus the original text and
// configuration reproduce the exact remaining event sequence.
func (s *Session) Snapshot() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePaused {
		return Snapshot{}, fmt.Errorf("snapshot requires a paused session, state is %s", s.state)
	}
	randState, err := s.src.MarshalBinary()
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to capture random state: %w", err)
	}
	snap := Snapshot{
		Position:          s.pos,
		Rhythm:            s.rhythm,
		StreakProbability: s.streakProb,
		BufferTyped:       string(s.bufTyped),
		BufferIntended:    string(s.bufIntended),
		Seed:              s.seed,
		Metrics:           s.metrics.clone(),
		RandState:         randState,
	}
	if s.hasPrev {
		snap.PrevChar = string(s.prev)
	}
	return snap, nil
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Position returns the number of input characters consumed so far.
func (s *Session) Position() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos
}

// Len returns the payload length in characters.
func (s *Session) Len() int {
	return len(s.text)
}

// Seed returns the seed the session was created with.
func (s *Session) Seed() uint64 {
	return s.seed
}

// Metrics returns a copy of the cumulative counters.
func (s *Session) Metrics() Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metrics.clone()
}

func copyAdjacency(in map[rune][]rune) map[rune][]rune {
	out := make(map[rune][]rune, len(in))
	for key, neighbors := range in {
		row := make([]rune, len(neighbors))
		copy(row, neighbors)
		out[key] = row
	}
	return out
}

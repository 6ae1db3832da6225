// Package tui provides the Bubble Tea playback interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/ghosttype/ghosttype/internal/engine"
	"github.com/ghosttype/ghosttype/internal/model"
	"github.com/ghosttype/ghosttype/internal/stats"
	"github.com/ghosttype/ghosttype/internal/store"
)

type countdownMsg struct{}

type actionMsg struct{}

// Model implements the Bubble Tea playback UI. The session is advanced one
// action per tick, so all session access stays on the program goroutine.
type Model struct {
	sess   *engine.Session
	cfg    engine.Config
	store  *store.Store
	source string

	target []rune
	typed  []typedCell

	countdown int
	noDelay   bool

	width  int
	height int

	next    engine.Action
	hasNext bool

	startedAt time.Time
	endedAt   time.Time
	recorded  bool
}

var (
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cursorStyle    = pendingStyle.Copy().Underline(true)
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs a playback model. A nil store disables run recording.
func NewModel(sess *engine.Session, cfg engine.Config, text string, st *store.Store, source string, countdown int, noDelay bool) *Model {
	return &Model{
		sess:      sess,
		cfg:       cfg,
		store:     st,
		source:    source,
		target:    []rune(text),
		countdown: countdown,
		noDelay:   noDelay,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.countdown > 0 {
		return tickSecond()
	}
	m.startedAt = time.Now()
	return m.pull()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case countdownMsg:
		m.countdown--
		if m.countdown > 0 {
			return m, tickSecond()
		}
		m.startedAt = time.Now()
		return m, m.pull()
	case actionMsg:
		if m.hasNext {
			m.apply(m.next)
			m.hasNext = false
		}
		return m, m.pull()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.cancel()
			return m, tea.Quit
		case " ":
			return m, m.togglePause()
		default:
			return m, nil
		}
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if len(m.target) == 0 {
		return ""
	}
	var content string
	if m.countdown > 0 {
		content = pendingStyle.Render(fmt.Sprintf("starting in %d...", m.countdown))
		if m.width == 0 || m.height == 0 {
			return content
		}
	} else {
		cursorIndex := -1
		if len(m.typed) < len(m.target) {
			cursorIndex = len(m.typed)
		}
		styledRunes := buildStyledRunes(m.target, m.typed, cursorIndex)
		if m.width == 0 || m.height == 0 {
			return renderStyledRunes(styledRunes)
		}
		contentWidth := int(float64(m.width) * 0.70)
		if contentWidth < 1 {
			contentWidth = 1
		}
		wrapped := wrapStyledRunes(styledRunes, contentWidth)
		content = lipgloss.NewStyle().Width(contentWidth).Render(wrapped)
	}
	footer := m.renderFooter()
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

// Canceled reports whether the run ended by user cancel.
func (m *Model) Canceled() bool {
	return m.sess.State() == engine.StateCanceled
}

// Metrics returns the session counters.
func (m *Model) Metrics() engine.Metrics {
	return m.sess.Metrics()
}

// WallMs returns the elapsed wall-clock time of the run.
func (m *Model) WallMs() int64 {
	if m.startedAt.IsZero() {
		return 0
	}
	if !m.endedAt.IsZero() {
		return m.endedAt.Sub(m.startedAt).Milliseconds()
	}
	return time.Since(m.startedAt).Milliseconds()
}

func tickSecond() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return countdownMsg{}
	})
}

// pull takes the next action from the session and schedules its tick. It
// returns nil when the session paused, and quits on a terminal state.
func (m *Model) pull() tea.Cmd {
	act, ok := m.sess.Next()
	if !ok {
		switch m.sess.State() {
		case engine.StateCompleted:
			m.finishRun()
			return tea.Quit
		case engine.StateCanceled:
			m.endedAt = time.Now()
			return tea.Quit
		default:
			return nil
		}
	}
	m.next = act
	m.hasNext = true
	if m.noDelay {
		return func() tea.Msg { return actionMsg{} }
	}
	return tea.Tick(time.Duration(act.DelayMs)*time.Millisecond, func(time.Time) tea.Msg {
		return actionMsg{}
	})
}

func (m *Model) apply(act engine.Action) {
	switch act.Kind {
	case engine.ActionType:
		i := len(m.typed)
		wrong := i >= len(m.target) || act.Char != m.target[i]
		m.typed = append(m.typed, typedCell{r: act.Char, wrong: wrong})
	case engine.ActionDelete:
		if n := len(m.typed); n > 0 {
			m.typed = m.typed[:n-1]
		}
	case engine.ActionPause:
		// Correction pause, no visual change.
	}
}

func (m *Model) togglePause() tea.Cmd {
	if m.countdown > 0 {
		return nil
	}
	switch m.sess.State() {
	case engine.StatePaused:
		if err := m.sess.Resume(); err != nil {
			logErrf("failed to resume: %v\n", err)
			return nil
		}
		return m.pull()
	case engine.StateRunning, engine.StateIdle:
		if err := m.sess.Pause(); err != nil {
			logErrf("failed to pause: %v\n", err)
		}
		return nil
	default:
		return nil
	}
}

// cancel stops the session and drains the remaining correction burst so the
// session always lands in a terminal state.
func (m *Model) cancel() {
	m.sess.Cancel()
	for {
		if _, ok := m.sess.Next(); !ok {
			break
		}
	}
	m.hasNext = false
	if m.endedAt.IsZero() {
		m.endedAt = time.Now()
	}
}

func (m *Model) finishRun() {
	if m.recorded {
		return
	}
	m.recorded = true
	m.endedAt = time.Now()
	if m.store == nil {
		return
	}
	met := m.sess.Metrics()
	rec := model.RunRecord{
		ID:           uuid.NewString(),
		StartedAt:    m.startedAt,
		EndedAt:      m.endedAt,
		Source:       m.source,
		Chars:        m.sess.Len(),
		Events:       met.Events,
		Typos:        met.Typos,
		Corrections:  met.Corrections,
		Deletes:      met.Deletes,
		SimulatedMs:  met.SimulatedMs,
		WallMs:       m.endedAt.Sub(m.startedAt).Milliseconds(),
		Seed:         m.sess.Seed(),
		MinDelayMs:   m.cfg.MinDelayMs,
		MaxDelayMs:   m.cfg.MaxDelayMs,
		TypoRate:     stats.TypoRate(met.Typos, m.sess.Len()),
		BurstLengths: met.BurstLengths,
	}
	if err := m.store.InsertRun(context.Background(), rec); err != nil {
		logErrf("failed to save run: %v\n", err)
	}
}

func (m *Model) renderFooter() string {
	if m.countdown > 0 {
		return footerStyle.Render(fmt.Sprintf("starting in %d  ·  q cancels", m.countdown))
	}
	met := m.sess.Metrics()
	progress := 0
	if n := m.sess.Len(); n > 0 {
		progress = m.sess.Position() * 100 / n
	}
	wpm, _, _ := stats.RunMetrics(m.sess.Position(), met.Events, met.SimulatedMs)
	segments := []string{
		stateLabel(m.sess.State()),
		fmt.Sprintf("%d%%", progress),
		fmt.Sprintf("%.1f WPM", wpm),
		fmt.Sprintf("%d typos · %d bursts", met.Typos, met.Corrections),
	}
	if m.sess.State() == engine.StatePaused {
		segments = append(segments, "space resumes · q cancels")
	} else {
		segments = append(segments, "space pauses · q cancels")
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func stateLabel(st engine.State) string {
	switch st {
	case engine.StateIdle:
		return "Ready"
	case engine.StateRunning:
		return "Typing"
	case engine.StatePaused:
		return "Paused"
	case engine.StateCompleted:
		return "Done"
	case engine.StateCanceled:
		return "Canceled"
	default:
		return st.String()
	}
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

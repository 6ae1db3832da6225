package tui

import (
	"context"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ghosttype/ghosttype/internal/engine"
	"github.com/ghosttype/ghosttype/internal/model"
	"github.com/ghosttype/ghosttype/internal/store"
)

func newTestModel(t *testing.T, text string) *Model {
	t.Helper()
	cfg := engine.DefaultConfig()
	cfg.TypoProbability = 0
	sess, err := engine.NewSessionSeeded(text, cfg, 7)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	return NewModel(sess, cfg, text, nil, "text", 0, true)
}

// runPlayback drives the update loop synchronously until the program quits.
func runPlayback(t *testing.T, m *Model) {
	t.Helper()
	cmd := m.Init()
	for steps := 0; cmd != nil; steps++ {
		if steps > 10000 {
			t.Fatal("playback did not terminate")
		}
		msg := cmd()
		if _, ok := msg.(tea.QuitMsg); ok {
			return
		}
		_, cmd = m.Update(msg)
	}
}

func typedString(m *Model) string {
	out := make([]rune, 0, len(m.typed))
	for _, cell := range m.typed {
		out = append(out, cell.r)
	}
	return string(out)
}

func TestPlaybackTypesWholeText(t *testing.T) {
	const text = "go build ./..."
	m := newTestModel(t, text)
	runPlayback(t, m)

	if got := typedString(m); got != text {
		t.Fatalf("typed %q, want %q", got, text)
	}
	if m.Canceled() {
		t.Fatal("completed run reported as canceled")
	}
	if got := m.Metrics().Events; got != len([]rune(text)) {
		t.Fatalf("events = %d, want %d", got, len([]rune(text)))
	}
	if m.WallMs() < 0 {
		t.Fatalf("wall time = %d, want >= 0", m.WallMs())
	}
}

func TestPlaybackCorrectsTypos(t *testing.T) {
	const text = "correct me"
	cfg := engine.DefaultConfig()
	cfg.TypoProbability = 1
	cfg.StreakProbability = 0.5
	sess, err := engine.NewSessionSeeded(text, cfg, 99)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	m := NewModel(sess, cfg, text, nil, "text", 0, true)
	runPlayback(t, m)

	if got := typedString(m); got != text {
		t.Fatalf("typed %q, want %q", got, text)
	}
	for i, cell := range m.typed {
		if cell.wrong {
			t.Fatalf("cell %d still marked wrong after completion", i)
		}
	}
	if m.Metrics().Typos == 0 {
		t.Fatal("expected typos at certain probability")
	}
}

func TestApplyTracksBufferShape(t *testing.T) {
	m := newTestModel(t, "ab")
	m.apply(engine.Action{Kind: engine.ActionType, Char: 'a'})
	m.apply(engine.Action{Kind: engine.ActionType, Char: 'x'})
	if len(m.typed) != 2 || m.typed[1].r != 'x' || !m.typed[1].wrong {
		t.Fatalf("typed = %v, want wrong x at index 1", m.typed)
	}
	m.apply(engine.Action{Kind: engine.ActionPause})
	m.apply(engine.Action{Kind: engine.ActionDelete})
	m.apply(engine.Action{Kind: engine.ActionDelete})
	if len(m.typed) != 0 {
		t.Fatalf("typed length = %d after deletes, want 0", len(m.typed))
	}
	m.apply(engine.Action{Kind: engine.ActionDelete})
	if len(m.typed) != 0 {
		t.Fatal("delete on empty buffer should be a no-op")
	}
}

func TestSpaceTogglesPause(t *testing.T) {
	m := newTestModel(t, "abc")
	cmd := m.Init()
	if cmd == nil {
		t.Fatal("expected an initial command")
	}

	if _, pauseCmd := m.Update(tea.KeyMsg{Type: tea.KeySpace}); pauseCmd != nil {
		t.Fatal("pause request should not schedule a command")
	}
	if _, next := m.Update(cmd()); next != nil {
		t.Fatal("expected the loop to stop once paused")
	}
	if got := m.sess.State(); got != engine.StatePaused {
		t.Fatalf("state = %v, want paused", got)
	}
	if len(m.typed) != 1 {
		t.Fatalf("typed length = %d, want the in-flight action applied", len(m.typed))
	}

	_, resumeCmd := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	if resumeCmd == nil {
		t.Fatal("expected resume to reschedule the loop")
	}
	if got := m.sess.State(); got != engine.StateRunning {
		t.Fatalf("state = %v, want running", got)
	}
}

func TestQuitKeyCancels(t *testing.T) {
	m := newTestModel(t, "abcdef")
	if cmd := m.Init(); cmd == nil {
		t.Fatal("expected an initial command")
	}

	_, quitCmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if quitCmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := quitCmd().(tea.QuitMsg); !ok {
		t.Fatal("expected a quit message")
	}
	if !m.Canceled() {
		t.Fatal("expected the session to be canceled")
	}
	if m.recorded {
		t.Fatal("canceled runs must not be recorded")
	}
}

func TestCompletionRecordsRun(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	const text = "record this run"
	cfg := engine.DefaultConfig()
	cfg.TypoProbability = 0
	sess, err := engine.NewSessionSeeded(text, cfg, 42)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	m := NewModel(sess, cfg, text, st, "sample", 0, true)
	runPlayback(t, m)

	runs, err := st.ListRuns(context.Background(), model.RunFilter{})
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("recorded %d runs, want 1", len(runs))
	}
	rec := runs[0]
	if rec.Source != "sample" {
		t.Errorf("source = %q, want %q", rec.Source, "sample")
	}
	if rec.Chars != len([]rune(text)) {
		t.Errorf("chars = %d, want %d", rec.Chars, len([]rune(text)))
	}
	if rec.Seed != 42 {
		t.Errorf("seed = %d, want 42", rec.Seed)
	}
	if rec.Events == 0 || rec.SimulatedMs == 0 {
		t.Errorf("expected non-zero events and simulated time, got %d/%d", rec.Events, rec.SimulatedMs)
	}
}

func TestViewShowsCursorAndFooter(t *testing.T) {
	m := newTestModel(t, "view me")
	m.width = 60
	m.height = 12
	out := m.View()
	if out == "" {
		t.Fatal("expected view output")
	}
	if !containsAll(out, []string{"Ready", "0%"}) {
		t.Fatalf("view missing footer: %s", out)
	}
}

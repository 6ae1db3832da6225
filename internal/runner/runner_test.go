package runner

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/ghosttype/ghosttype/internal/engine"
	"github.com/ghosttype/ghosttype/internal/sink"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newSession(t *testing.T, text string, typoProb float64, seed uint64) *engine.Session {
	t.Helper()
	cfg := engine.DefaultConfig()
	cfg.TypoProbability = typoProb
	sess, err := engine.NewSessionSeeded(text, cfg, seed)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	return sess
}

func TestRunNoDelayCompletes(t *testing.T) {
	sess := newSession(t, "hello world", 0, 1)
	var buf bytes.Buffer
	res, err := Run(context.Background(), sess, sink.Terminal(&buf), Options{NoDelay: true})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if res.Canceled {
		t.Error("run reported canceled")
	}
	if buf.String() != "hello world" {
		t.Errorf("terminal output %q", buf.String())
	}
	if res.Metrics.Events != len("hello world") {
		t.Errorf("events = %d, want %d", res.Metrics.Events, len("hello world"))
	}
	if sess.State() != engine.StateCompleted {
		t.Errorf("state = %s", sess.State())
	}
}

func TestRunScriptSinkEventCount(t *testing.T) {
	sess := newSession(t, "The quick brown fox jumps over the lazy dog.", 0.4, 11)
	var buf bytes.Buffer
	res, err := Run(context.Background(), sess, sink.Script(&buf), Options{NoDelay: true})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != res.Metrics.Events {
		t.Errorf("script has %d lines, metrics counted %d events", len(lines), res.Metrics.Events)
	}
	if res.Metrics.Typos == 0 {
		t.Error("expected typos at 40% probability")
	}
}

func TestRunHonorsContextCancel(t *testing.T) {
	text := strings.Repeat("the quick brown fox jumps over the lazy dog ", 200)
	sess := newSession(t, text, 0, 5)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	res, err := Run(ctx, sess, sink.Discard(), Options{})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !res.Canceled {
		t.Error("run should report canceled")
	}
	if sess.State() != engine.StateCanceled {
		t.Errorf("state = %s", sess.State())
	}
	if res.Metrics.Events >= len([]rune(text)) {
		t.Errorf("emitted %d events, payload is %d chars", res.Metrics.Events, len([]rune(text)))
	}
}

func TestRunCancelDuringCountdown(t *testing.T) {
	sess := newSession(t, "abc", 0, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var progress bytes.Buffer
	res, err := Run(ctx, sess, sink.Discard(), Options{Countdown: 3, Progress: &progress})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !res.Canceled {
		t.Error("run should report canceled")
	}
	if res.Metrics.Events != 0 {
		t.Errorf("emitted %d events before typing started", res.Metrics.Events)
	}
}

func TestRunWritesProgress(t *testing.T) {
	sess := newSession(t, "hello", 0, 3)
	var progress bytes.Buffer
	if _, err := Run(context.Background(), sess, sink.Discard(), Options{NoDelay: true, Progress: &progress}); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(progress.String(), "5/5 (100%)") {
		t.Errorf("progress output %q missing final position", progress.String())
	}
}

package tui

import (
	"strings"
	"testing"
)

func TestRenderFooterBeforeStart(t *testing.T) {
	m := newTestModel(t, "abcd")
	out := m.renderFooter()
	if out == "" {
		t.Fatalf("expected footer output")
	}
	if !containsAll(out, []string{"Ready", "0%", "0.0 WPM", "0 typos", "space pauses"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func TestRenderFooterCountdown(t *testing.T) {
	m := newTestModel(t, "abcd")
	m.countdown = 2
	out := m.renderFooter()
	if !containsAll(out, []string{"starting in 2", "q cancels"}) {
		t.Fatalf("footer missing countdown: %s", out)
	}
}

func TestRenderFooterAfterCompletion(t *testing.T) {
	m := newTestModel(t, "abcd")
	runPlayback(t, m)
	out := m.renderFooter()
	if !containsAll(out, []string{"Done", "100%"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func TestRenderFooterWhilePaused(t *testing.T) {
	m := newTestModel(t, "abcd")
	cmd := m.Init()
	if cmd == nil {
		t.Fatal("expected an initial command")
	}
	if err := m.sess.Pause(); err != nil {
		t.Fatalf("failed to request pause: %v", err)
	}
	// Deliver the in-flight action; the pause lands on the next pull.
	if _, next := m.Update(cmd()); next != nil {
		t.Fatal("expected no command while paused")
	}
	out := m.renderFooter()
	if !containsAll(out, []string{"Paused", "space resumes"}) {
		t.Fatalf("footer missing pause segments: %s", out)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}

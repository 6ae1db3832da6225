package sink

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/ghosttype/ghosttype/internal/engine"
)

// Terminal renders actions as raw terminal output: typed characters are
// written as-is, deletes erase the previous character with backspace
// sequences. Pause actions produce no output.
func Terminal(w io.Writer) Sink {
	return &terminalSink{w: w}
}

type terminalSink struct {
	w     io.Writer
	typed []rune
}

func (s *terminalSink) Emit(act engine.Action) error {
	switch act.Kind {
	case engine.ActionType:
		s.typed = append(s.typed, act.Char)
		_, err := io.WriteString(s.w, string(act.Char))
		return err
	case engine.ActionDelete:
		if len(s.typed) == 0 {
			return nil
		}
		last := s.typed[len(s.typed)-1]
		s.typed = s.typed[:len(s.typed)-1]
		// Wide runes occupy two cells; erase every cell the rune covered.
		cells := runewidth.RuneWidth(last)
		if cells < 1 {
			cells = 1
		}
		eraser := strings.Repeat("\b", cells) + strings.Repeat(" ", cells) + strings.Repeat("\b", cells)
		_, err := io.WriteString(s.w, eraser)
		return err
	}
	return nil
}

func (s *terminalSink) Close() error {
	return nil
}

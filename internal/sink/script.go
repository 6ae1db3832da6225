package sink

import (
	"bufio"
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/ghosttype/ghosttype/internal/engine"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// scriptEvent is one line of the replayable event log.
type scriptEvent struct {
	Kind    string `json:"kind"`
	Char    string `json:"char,omitempty"`
	DelayMs int    `json:"delay_ms"`
}

// Script writes one JSON object per action, newline-delimited, so a run can
// be replayed or inspected offline. Close flushes the buffer.
func Script(w io.Writer) Sink {
	buf := bufio.NewWriter(w)
	return &scriptSink{buf: buf, enc: json.NewEncoder(buf)}
}

type scriptSink struct {
	buf *bufio.Writer
	enc *jsoniter.Encoder
}

func (s *scriptSink) Emit(act engine.Action) error {
	ev := scriptEvent{Kind: act.Kind.String(), DelayMs: act.DelayMs}
	if act.Kind == engine.ActionType {
		ev.Char = string(act.Char)
	}
	return s.enc.Encode(ev)
}

func (s *scriptSink) Close() error {
	return s.buf.Flush()
}

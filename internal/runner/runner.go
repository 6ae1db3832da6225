// Package runner drives a typing session against a sink in wall-clock time.
package runner

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/ghosttype/ghosttype/internal/engine"
	"github.com/ghosttype/ghosttype/internal/sink"
)

// Options control pacing and reporting for one run.
type Options struct {
	// NoDelay emits the whole sequence without sleeping.
	NoDelay bool

	// Countdown waits the given number of seconds before typing starts,
	// announcing each second on Progress.
	Countdown int

	// Progress receives countdown and live position output; nil disables it.
	Progress io.Writer

	// Log receives per-action debug entries; nil disables logging.
	Log *zap.Logger
}

// Result summarizes one finished run.
type Result struct {
	Metrics  engine.Metrics
	WallMs   int64
	Canceled bool
}

// Run pulls the session to a terminal state, pacing each action by its delay
// and forwarding it to the sink. Cancelling the context cancels the session;
// an in-flight correction burst is still drained, without pacing, so the sink
// never sees a split burst.
func Run(ctx context.Context, sess *engine.Session, out sink.Sink, opts Options) (Result, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	for i := opts.Countdown; i > 0; i-- {
		if opts.Progress != nil {
			fmt.Fprintf(opts.Progress, "\rstarting in %d... ", i)
		}
		select {
		case <-ctx.Done():
			if opts.Progress != nil {
				fmt.Fprintln(opts.Progress)
			}
			sess.Cancel()
			return Result{Metrics: sess.Metrics(), Canceled: true}, nil
		case <-time.After(time.Second):
		}
	}
	if opts.Countdown > 0 && opts.Progress != nil {
		fmt.Fprint(opts.Progress, "\r                  \r")
	}

	start := time.Now()
	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	total := sess.Len()
	canceled := false
	for {
		act, ok := sess.Next()
		if !ok {
			break
		}
		if !canceled {
			select {
			case <-ctx.Done():
				sess.Cancel()
				canceled = true
			default:
			}
		}
		if !canceled && !opts.NoDelay && act.DelayMs > 0 {
			timer.Reset(time.Duration(act.DelayMs) * time.Millisecond)
			select {
			case <-ctx.Done():
				if !timer.Stop() {
					<-timer.C
				}
				sess.Cancel()
				canceled = true
			case <-timer.C:
			}
		}
		if err := out.Emit(act); err != nil {
			sess.Cancel()
			return Result{}, fmt.Errorf("failed to write action: %w", err)
		}
		log.Debug("action",
			zap.String("kind", act.Kind.String()),
			zap.String("char", charField(act)),
			zap.Int("delay_ms", act.DelayMs),
			zap.Int("position", sess.Position()),
		)
		if opts.Progress != nil && total > 0 {
			pos := sess.Position()
			fmt.Fprintf(opts.Progress, "\r%d/%d (%d%%)", pos, total, pos*100/total)
		}
	}
	if opts.Progress != nil && total > 0 {
		fmt.Fprintln(opts.Progress)
	}

	return Result{
		Metrics:  sess.Metrics(),
		WallMs:   time.Since(start).Milliseconds(),
		Canceled: sess.State() == engine.StateCanceled,
	}, nil
}

func charField(act engine.Action) string {
	if act.Kind == engine.ActionType {
		return string(act.Char)
	}
	return ""
}

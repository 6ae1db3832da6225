// Package watch emits a file's contents whenever it settles after a change.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Payload is one debounced, deduplicated snapshot of the watched file.
type Payload struct {
	Text string
	Hash uint64
}

// Watcher watches a single file and delivers settled snapshots. Rapid write
// bursts are debounced; saves that leave the content byte-identical are
// dropped by hash.
type Watcher struct {
	path     string
	debounce time.Duration
	log      *zap.Logger

	fsw      *fsnotify.Watcher
	payloads chan Payload
	errs     chan error
	done     chan struct{}
	wg       sync.WaitGroup

	lastHash uint64
}

// New creates a watcher for path.
func New(path string, debounce time.Duration, log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	// Watch the parent directory: editors replace files on save, which
	// silently drops a watch registered on the file itself.
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		if cerr := fsw.Close(); cerr != nil {
			// Best-effort close.
			_ = cerr
		}
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{
		path:     abs,
		debounce: debounce,
		log:      log,
		fsw:      fsw,
		payloads: make(chan Payload, 1),
		errs:     make(chan error, 1),
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching. The current file contents, if non-empty, are
// emitted first so a fresh watch types the existing file.
func (w *Watcher) Start() {
	w.wg.Add(1)
	go w.loop()
}

// Payloads returns the channel of settled file snapshots.
func (w *Watcher) Payloads() <-chan Payload {
	return w.payloads
}

// Errors returns the channel of watch errors.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Stop ends the watch and releases the underlying file watcher.
func (w *Watcher) Stop() {
	close(w.done)
	w.wg.Wait()
	if err := w.fsw.Close(); err != nil {
		// Best-effort close.
		_ = err
	}
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	debounce := time.NewTimer(0)
	if !debounce.Stop() {
		<-debounce.C
	}
	defer debounce.Stop()

	w.emit()

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			w.log.Debug("file event", zap.String("op", ev.Op.String()))
			if !debounce.Stop() {
				select {
				case <-debounce.C:
				default:
				}
			}
			debounce.Reset(w.debounce)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		case <-debounce.C:
			w.emit()
		}
	}
}

func (w *Watcher) emit() {
	data, err := os.ReadFile(w.path)
	if err != nil {
		if os.IsNotExist(err) {
			w.lastHash = 0
			return
		}
		select {
		case w.errs <- fmt.Errorf("failed to read %s: %w", w.path, err):
		default:
		}
		return
	}
	if len(data) == 0 {
		// An emptied file resets dedup so the same content retypes after
		// a truncate.
		w.lastHash = 0
		w.log.Debug("skipping empty payload")
		return
	}
	hash := xxhash.Sum64(data)
	if hash == w.lastHash {
		w.log.Debug("payload unchanged", zap.Uint64("hash", hash))
		return
	}
	w.lastHash = hash
	select {
	case w.payloads <- Payload{Text: string(data), Hash: hash}:
		w.log.Debug("payload ready", zap.Int("bytes", len(data)), zap.Uint64("hash", hash))
	case <-w.done:
	}
}

// Package watch reports debounced changes to individual files.
//
// Directories containing the files are watched rather than the files
// themselves, so editors that save by writing a new file and renaming it
// over the old one are still seen.
package watch

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/tokens/internal/logging"
)

// Common errors returned by watcher operations.
var (
	ErrWatcherClosed   = errors.New("watcher is closed")
	ErrAlreadyWatching = errors.New("path is already being watched")
)

// Default configuration values.
const (
	DefaultDebounce   = 100 * time.Millisecond
	DefaultBufferSize = 16
)

// Op represents the type of file system operation.
type Op uint32

const (
	// OpCreate indicates a file was created.
	OpCreate Op = 1 << iota
	// OpWrite indicates a file was written to.
	OpWrite
	// OpRemove indicates a file was removed.
	OpRemove
	// OpRename indicates a file was renamed.
	OpRename
)

var opNames = []struct {
	op   Op
	name string
}{
	{OpCreate, "CREATE"},
	{OpWrite, "WRITE"},
	{OpRemove, "REMOVE"},
	{OpRename, "RENAME"},
}

// String returns the names of the set operations joined by "|".
func (op Op) String() string {
	var names []string
	rest := op
	for _, n := range opNames {
		if op.Has(n.op) {
			names = append(names, n.name)
			rest &^= n.op
		}
	}
	if rest != 0 || len(names) == 0 {
		names = append(names, fmt.Sprintf("Op(%d)", uint32(rest)))
	}
	return strings.Join(names, "|")
}

// Has returns true if the operation includes the given op.
func (op Op) Has(o Op) bool {
	return op&o == o
}

// Event represents a debounced change to a watched file.
type Event struct {
	// Path is the absolute path of the file.
	Path string

	// Op combines every operation seen during the debounce window.
	Op Op

	// Timestamp is when the last operation occurred.
	Timestamp time.Time
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long a file must stay quiet before its event is
// delivered.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// WithBufferSize sets the size of the event and error channels.
func WithBufferSize(n int) Option {
	return func(w *Watcher) {
		if n > 0 {
			w.bufSize = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *logging.Logger) Option {
	return func(w *Watcher) {
		w.log = log
	}
}

// Watcher delivers debounced change events for a set of files.
type Watcher struct {
	mu sync.Mutex

	watcher *fsnotify.Watcher
	delay   time.Duration
	bufSize int
	log     *logging.Logger

	files map[string]bool // absolute file paths
	dirs  map[string]bool // directories registered with fsnotify

	pending map[string]*pendingEvent

	events chan Event
	errors chan error

	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
	firing   sync.WaitGroup // fireEvent calls past the closed check
}

// pendingEvent tracks an event waiting out its debounce window.
type pendingEvent struct {
	event Event
	timer *time.Timer
}

// New creates a watcher with no files.
func New(opts ...Option) (*Watcher, error) {
	w := &Watcher{
		delay:   DefaultDebounce,
		bufSize: DefaultBufferSize,
		log:     logging.NullLogger,
		files:   make(map[string]bool),
		dirs:    make(map[string]bool),
		pending: make(map[string]*pendingEvent),
		closeCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	w.watcher = fsw
	w.events = make(chan Event, w.bufSize)
	w.errors = make(chan error, w.bufSize)

	w.closedWg.Add(1)
	go w.processLoop()

	return w, nil
}

// Add starts watching a file.
func (w *Watcher) Add(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if w.files[absPath] {
		return ErrAlreadyWatching
	}

	dir := filepath.Dir(absPath)
	if !w.dirs[dir] {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		w.dirs[dir] = true
	}

	w.files[absPath] = true
	w.log.Debug("watching %s", absPath)
	return nil
}

// Events returns the debounced event channel.
// The channel is closed by Close.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the error channel.
// The channel is closed by Close.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher. Pending events are discarded.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)

	for path, p := range w.pending {
		p.timer.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	err := w.watcher.Close()
	w.closedWg.Wait()
	w.firing.Wait()

	close(w.events)
	close(w.errors)
	return err
}

// processLoop handles incoming fsnotify events.
func (w *Watcher) processLoop() {
	defer w.closedWg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case fsEvent, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(fsEvent)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
				w.log.Warn("dropping watcher error: %v", err)
			}
		}
	}
}

// handleFSEvent starts or extends the debounce window for a watched file.
func (w *Watcher) handleFSEvent(fsEvent fsnotify.Event) {
	op := convertOp(fsEvent.Op)
	if op == 0 {
		return
	}

	path := filepath.Clean(fsEvent.Name)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || !w.files[path] {
		return
	}

	now := time.Now()
	if p, exists := w.pending[path]; exists {
		p.event.Op |= op
		p.event.Timestamp = now
		p.timer.Reset(w.delay)
		return
	}

	p := &pendingEvent{event: Event{Path: path, Op: op, Timestamp: now}}
	p.timer = time.AfterFunc(w.delay, func() {
		w.fireEvent(path)
	})
	w.pending[path] = p
}

// fireEvent sends a pending event and removes it from the map.
func (w *Watcher) fireEvent(path string) {
	w.mu.Lock()
	p, exists := w.pending[path]
	if !exists || w.closed {
		w.mu.Unlock()
		return
	}
	delete(w.pending, path)
	event := p.event
	w.firing.Add(1)
	w.mu.Unlock()
	defer w.firing.Done()

	select {
	case w.events <- event:
	case <-w.closeCh:
	}
}

// convertOp converts fsnotify.Op to Op. Chmod alone is not a change.
func convertOp(fsOp fsnotify.Op) Op {
	var op Op
	if fsOp.Has(fsnotify.Create) {
		op |= OpCreate
	}
	if fsOp.Has(fsnotify.Write) {
		op |= OpWrite
	}
	if fsOp.Has(fsnotify.Remove) {
		op |= OpRemove
	}
	if fsOp.Has(fsnotify.Rename) {
		op |= OpRename
	}
	return op
}

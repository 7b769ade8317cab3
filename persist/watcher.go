package persist

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/grovetools/presets/logging"
	"github.com/grovetools/presets/pkg/fsys"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce collapses the burst of events an editor save produces.
const DefaultDebounce = 200 * time.Millisecond

// Change reports that one of the gateway's files was changed by someone
// else.
type Change struct {
	Path    string
	File    string // PresetsFile or SettingsFile
	Removed bool
}

// Watcher watches the gateway directory and reports external changes to
// the preset and settings files. Writes made through the gateway itself are
// recognised by content and skipped.
type Watcher struct {
	watcher  *fsnotify.Watcher
	gateway  *Gateway
	debounce time.Duration
	logger   *logrus.Entry

	changes chan Change
	fired   chan string

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewWatcher starts watching g.Dir(), creating it if needed. A debounce of
// zero or less uses DefaultDebounce.
func NewWatcher(g *Gateway, debounce time.Duration) (*Watcher, error) {
	if err := g.fs.MkdirAll(g.dir); err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(g.dir); err != nil {
		watcher.Close()
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		watcher:  watcher,
		gateway:  g,
		debounce: debounce,
		logger:   logging.NewLogger("watcher"),
		changes:  make(chan Change, 8),
		fired:    make(chan string, 8),
		timers:   make(map[string]*time.Timer),
	}, nil
}

// Changes delivers external changes. It is closed when Start returns.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Start processes file events until ctx is cancelled or the watcher is
// closed.
func (w *Watcher) Start(ctx context.Context) {
	defer close(w.changes)
	defer w.stopTimers()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.logger.Debugf("fsnotify event: %s op=%v", event.Name, event.Op)
			if !w.relevant(event) {
				continue
			}
			w.schedule(filepath.Clean(event.Name))
		case path := <-w.fired:
			if change, ok := w.inspect(path); ok {
				select {
				case w.changes <- change:
				case <-ctx.Done():
					w.watcher.Close()
					return
				}
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Errorf("Watcher error: %v", err)
		case <-ctx.Done():
			w.watcher.Close()
			return
		}
	}
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	base := filepath.Base(event.Name)
	return base == PresetsFile || base == SettingsFile
}

// schedule (re)starts the debounce timer for path. Timers only hand the
// path back to the Start goroutine.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		select {
		case w.fired <- path:
		default:
		}
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}

// inspect turns a settled path into a Change unless the content is what
// the gateway itself last wrote.
func (w *Watcher) inspect(path string) (Change, bool) {
	w.mu.Lock()
	delete(w.timers, path)
	w.mu.Unlock()

	change := Change{Path: path, File: filepath.Base(path)}
	data, err := w.gateway.fs.ReadFile(path)
	if err != nil {
		if !fsys.IsNotExist(err) {
			w.logger.WithError(err).Warnf("Failed to read changed file %s", path)
			return Change{}, false
		}
		change.Removed = true
		w.logger.Infof("File removed: %s", change.File)
		return change, true
	}
	if w.gateway.IsOwnWrite(path, data) {
		w.logger.Debugf("Ignoring own write: %s", change.File)
		return Change{}, false
	}
	w.logger.Infof("File changed externally: %s", change.File)
	return change, true
}

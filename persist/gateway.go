// Package persist reads and writes the application's files: the preset
// store, the editor settings and the publish target.
package persist

import (
	"crypto/sha256"
	"path/filepath"
	"sync"

	"github.com/grovetools/presets/errors"
	"github.com/grovetools/presets/jsondoc"
	"github.com/grovetools/presets/logging"
	"github.com/grovetools/presets/pkg/fsys"
	"github.com/grovetools/presets/preset"
	"github.com/grovetools/presets/state"
	"github.com/grovetools/presets/util/pathutil"
	"github.com/sirupsen/logrus"
)

const (
	// PresetsFile holds the whole preset store as one JSON object.
	PresetsFile = "app_config.json"
	// SettingsFile holds the editor settings record.
	SettingsFile = "editor_settings.json"
)

// Gateway owns the application directory. Loads are fail-soft; saves and
// publishes report coded errors.
type Gateway struct {
	dir    string
	fs     fsys.FileSystem
	logger *logrus.Entry

	mu      sync.Mutex
	written map[string][sha256.Size]byte
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithFileSystem swaps the file system, mainly for tests.
func WithFileSystem(fs fsys.FileSystem) Option {
	return func(g *Gateway) { g.fs = fs }
}

// WithLogger sets the logger used for warnings.
func WithLogger(logger *logrus.Entry) Option {
	return func(g *Gateway) { g.logger = logger }
}

// NewGateway returns a gateway for the application directory dir.
func NewGateway(dir string, opts ...Option) *Gateway {
	g := &Gateway{
		dir:     dir,
		written: make(map[string][sha256.Size]byte),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.fs == nil {
		g.fs = fsys.NewOS()
	}
	if g.logger == nil {
		g.logger = logging.NewLogger("persist")
	}
	return g
}

// Dir returns the application directory.
func (g *Gateway) Dir() string { return g.dir }

// PresetsPath returns the path of the preset store file.
func (g *Gateway) PresetsPath() string { return filepath.Join(g.dir, PresetsFile) }

// SettingsPath returns the path of the settings file.
func (g *Gateway) SettingsPath() string { return filepath.Join(g.dir, SettingsFile) }

// LoadPresets reads the preset store. It always returns a usable store: a
// missing file yields an empty store and no warning, while an unreadable or
// malformed file yields an empty store plus the problem as a warning.
func (g *Gateway) LoadPresets() (*preset.Store, error) {
	path := g.PresetsPath()
	data, err := g.fs.ReadFile(path)
	if err != nil {
		if fsys.IsNotExist(err) {
			g.logger.WithField("path", path).Debug("No preset file yet, starting empty")
			return preset.New(), nil
		}
		return preset.New(), g.warn(errors.ReadFailed(path, err))
	}

	doc, err := jsondoc.ParseBytes(data)
	if err != nil {
		return preset.New(), g.warn(errors.InvalidJSON(err).WithDetail("path", path))
	}
	store, err := preset.FromDocument(doc)
	if err != nil {
		if pe, ok := errors.As(err); ok {
			pe.WithDetail("path", path)
		}
		return preset.New(), g.warn(err)
	}

	g.remember(path, data)
	g.logger.WithFields(logrus.Fields{"path": path, "count": store.Len()}).Debug("Loaded presets")
	return store, nil
}

// SavePresets writes the whole store, creating the directory if needed.
func (g *Gateway) SavePresets(store *preset.Store) error {
	return g.writeOwned(g.PresetsPath(), store.Document().Pretty())
}

// LoadSettings reads the settings record with the same fail-soft contract
// as LoadPresets.
func (g *Gateway) LoadSettings() (*state.Settings, error) {
	path := g.SettingsPath()
	data, err := g.fs.ReadFile(path)
	if err != nil {
		if fsys.IsNotExist(err) {
			return state.Default(), nil
		}
		return state.Default(), g.warn(errors.ReadFailed(path, err))
	}
	st, err := state.Decode(data)
	if err != nil {
		return state.Default(), g.warn(errors.InvalidJSON(err).WithDetail("path", path))
	}
	g.remember(path, data)
	return st, nil
}

// SaveSettings writes the settings record, creating the directory if needed.
func (g *Gateway) SaveSettings(st *state.Settings) error {
	data, err := state.Encode(st)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to encode settings")
	}
	return g.writeOwned(g.SettingsPath(), data)
}

// PublishToTarget overwrites path with doc as pretty JSON. The target's
// directory must already exist, and the gateway's own files are refused.
func (g *Gateway) PublishToTarget(path string, doc jsondoc.Value) error {
	return g.writeExternal(path, doc)
}

// ExportAll writes the whole store as one JSON object to path, under the
// same rules as PublishToTarget.
func (g *Gateway) ExportAll(path string, store *preset.Store) error {
	return g.writeExternal(path, store.Document())
}

// ReadDocument reads and parses any JSON file, e.g. for imports.
func (g *Gateway) ReadDocument(path string) (jsondoc.Value, error) {
	data, err := g.fs.ReadFile(path)
	if err != nil {
		return jsondoc.Value{}, errors.ReadFailed(path, err)
	}
	doc, err := jsondoc.ParseBytes(data)
	if err != nil {
		return jsondoc.Value{}, errors.InvalidJSON(err).WithDetail("path", path)
	}
	return doc, nil
}

// IsOwnWrite reports whether data is exactly what the gateway last read
// from or wrote to path. The watcher uses it to skip its own echoes.
func (g *Gateway) IsOwnWrite(path string, data []byte) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	sum, ok := g.written[filepath.Clean(path)]
	return ok && sum == sha256.Sum256(data)
}

func (g *Gateway) writeOwned(path string, data []byte) error {
	if err := g.fs.MkdirAll(g.dir); err != nil {
		return errors.WriteFailed(path, err)
	}
	if err := g.fs.WriteFile(path, data); err != nil {
		return errors.WriteFailed(path, err)
	}
	g.remember(path, data)
	g.logger.WithField("path", path).Debug("Saved")
	return nil
}

func (g *Gateway) writeExternal(path string, doc jsondoc.Value) error {
	if path == "" {
		return errors.TargetWrite(path, errors.NoTarget())
	}
	for _, own := range []string{g.PresetsPath(), g.SettingsPath()} {
		if same, _ := pathutil.SamePath(path, own); same {
			return errors.TargetWrite(path, errors.New(errors.ErrCodeInternal, "refusing to overwrite the application's own file"))
		}
	}
	if err := g.fs.WriteFile(path, doc.Pretty()); err != nil {
		return errors.TargetWrite(path, err)
	}
	g.logger.WithField("path", path).Info("Wrote JSON file")
	return nil
}

func (g *Gateway) remember(path string, data []byte) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.written[filepath.Clean(path)] = sha256.Sum256(data)
}

func (g *Gateway) warn(err error) error {
	g.logger.WithError(err).Warn("Falling back to defaults")
	return err
}

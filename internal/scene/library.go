// Package scene is the presentation collaborator: a model catalog and a
// graph of placed nodes that renderers walk each frame.
package scene

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/tomz197/streetrunner/internal/physics"
)

//go:embed models.yaml
var defaultCatalog []byte

// ErrUnknownModel is returned when a name is not in the catalog.
var ErrUnknownModel = errors.New("scene: unknown model")

// Representation tells which form a model took when it was cloned.
type Representation int

const (
	// Pending: the catalog had not loaded yet; the node shows a placeholder
	// until Graph.Resolve upgrades it.
	Pending Representation = iota
	// Fallback: the model is unknown or failed to load; a placeholder box.
	Fallback
	// Loaded: the catalog entry.
	Loaded
)

func (r Representation) String() string {
	switch r {
	case Pending:
		return "pending"
	case Fallback:
		return "fallback"
	case Loaded:
		return "loaded"
	}
	return "unknown"
}

// Model is an immutable presentable shape.
type Model struct {
	Name  string
	Rep   Representation
	Glyph rune
	Size  physics.Vec3
	Style string
}

// placeholder is the primitive box used for pending and fallback models.
func placeholder(name string, rep Representation) Model {
	return Model{
		Name:  name,
		Rep:   rep,
		Glyph: '■',
		Size:  physics.Vec3{X: 1, Y: 1, Z: 1},
		Style: "fallback",
	}
}

type catalogEntry struct {
	Glyph string    `yaml:"glyph"`
	Size  []float64 `yaml:"size"`
	Style string    `yaml:"style"`
}

type catalogFile struct {
	Models map[string]catalogEntry `yaml:"models"`
}

// Library is a named model catalog. Safe for concurrent use.
type Library struct {
	mu     sync.RWMutex
	models map[string]Model
	loaded bool
	log    *log.Logger
}

// NewLibrary returns an empty library; models cloned before Load are Pending.
func NewLibrary(logger *log.Logger) *Library {
	if logger == nil {
		logger = log.Default()
	}
	return &Library{models: make(map[string]Model), log: logger}
}

// NewDefaultLibrary returns a library loaded from the embedded catalog.
func NewDefaultLibrary(logger *log.Logger) (*Library, error) {
	lib := NewLibrary(logger)
	if err := lib.LoadBytes(defaultCatalog); err != nil {
		return lib, err
	}
	return lib, nil
}

// Load reads a YAML catalog and marks the library loaded. On error the
// library is still marked loaded so clones fall back instead of staying
// pending forever.
func (l *Library) Load(r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		l.markLoaded(nil)
		return fmt.Errorf("read catalog: %w", err)
	}
	return l.LoadBytes(b)
}

func (l *Library) LoadBytes(b []byte) error {
	var file catalogFile
	if err := yaml.Unmarshal(b, &file); err != nil {
		l.markLoaded(nil)
		return fmt.Errorf("parse catalog: %w", err)
	}

	models := make(map[string]Model, len(file.Models))
	for name, e := range file.Models {
		m, err := e.model(name)
		if err != nil {
			l.log.Warn("skipping model", "name", name, "err", err)
			continue
		}
		models[name] = m
	}
	l.markLoaded(models)
	return nil
}

func (e catalogEntry) model(name string) (Model, error) {
	glyphs := []rune(e.Glyph)
	if len(glyphs) != 1 {
		return Model{}, fmt.Errorf("glyph %q must be a single character", e.Glyph)
	}
	if len(e.Size) != 3 {
		return Model{}, fmt.Errorf("size needs 3 components, got %d", len(e.Size))
	}
	return Model{
		Name:  name,
		Rep:   Loaded,
		Glyph: glyphs[0],
		Size:  physics.Vec3{X: e.Size[0], Y: e.Size[1], Z: e.Size[2]},
		Style: e.Style,
	}, nil
}

func (l *Library) markLoaded(models map[string]Model) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for name, m := range models {
		l.models[name] = m
	}
	l.loaded = true
}

// Loaded reports whether a catalog load has completed.
func (l *Library) Loaded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loaded
}

// Preload checks that every name resolves. Unknown names are reported
// together; they still clone as fallbacks.
func (l *Library) Preload(names ...string) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var errs []error
	for _, name := range names {
		if _, ok := l.models[name]; !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrUnknownModel, name))
		}
	}
	return errors.Join(errs...)
}

// Clone returns the model for name. Never fails: before load it is Pending,
// unknown names are Fallback.
func (l *Library) Clone(name string) Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.loaded {
		return placeholder(name, Pending)
	}
	m, ok := l.models[name]
	if !ok {
		return placeholder(name, Fallback)
	}
	return m
}

// Package prefs persists the few values that outlive a process: the mute
// flag and the best score.
package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

const (
	KeyMuted     = "streetrunner.muted"
	KeyBestScore = "streetrunner.best_score"
)

// ErrNotFound is returned by Store.Get for an absent key.
var ErrNotFound = errors.New("prefs: key not found")

// Store is a string key/value store.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// MemoryStore keeps values in memory. The zero value is ready to use.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

func (m *MemoryStore) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[key] = value
	return nil
}

// FileStore keeps values in a flat YAML mapping on disk.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) read() (map[string]string, error) {
	b, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read prefs: %w", err)
	}
	values := map[string]string{}
	if err := yaml.Unmarshal(b, &values); err != nil {
		return nil, fmt.Errorf("parse prefs %s: %w", f.path, err)
	}
	return values, nil
}

func (f *FileStore) Get(key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.read()
	if err != nil {
		return "", err
	}
	v, ok := values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Set rewrites the whole file. A corrupt file is replaced.
func (f *FileStore) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.read()
	if err != nil {
		values = map[string]string{}
	}
	values[key] = value
	b, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode prefs: %w", err)
	}
	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create prefs dir: %w", err)
		}
	}
	if err := os.WriteFile(f.path, b, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

// Directory hands out one FileStore per user name under a shared directory.
// Sessions of the same user share a store so their writes do not interleave.
type Directory struct {
	dir string

	mu     sync.Mutex
	stores map[string]*FileStore
}

func NewDirectory(dir string) *Directory {
	return &Directory{dir: dir, stores: make(map[string]*FileStore)}
}

// For returns the store of user, creating it on first use.
func (d *Directory) For(user string) *FileStore {
	name := fileName(user)
	d.mu.Lock()
	defer d.mu.Unlock()
	if s, ok := d.stores[name]; ok {
		return s
	}
	s := NewFileStore(filepath.Join(d.dir, name+".yaml"))
	d.stores[name] = s
	return s
}

// fileName maps a user name to a safe base name. Anything outside
// [A-Za-z0-9._-] becomes '_'.
func fileName(user string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-', r == '_', r == '.':
			return r
		}
		return '_'
	}, user)
	if strings.Trim(name, ".") == "" {
		return "anonymous"
	}
	return name
}

// Prefs reads and writes typed values, falling back to defaults on any
// storage failure.
type Prefs struct {
	store Store
	log   *log.Logger
}

func New(store Store, logger *log.Logger) *Prefs {
	if store == nil {
		store = &MemoryStore{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Prefs{store: store, log: logger}
}

// LoadMuted returns the stored mute flag, false when absent or unreadable.
func (p *Prefs) LoadMuted() bool {
	v, err := p.store.Get(KeyMuted)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			p.log.Warn("load mute preference", "err", err)
		}
		return false
	}
	muted, err := strconv.ParseBool(v)
	if err != nil {
		p.log.Warn("corrupt mute preference", "value", v)
		return false
	}
	return muted
}

func (p *Prefs) SaveMuted(muted bool) {
	if err := p.store.Set(KeyMuted, strconv.FormatBool(muted)); err != nil {
		p.log.Warn("save mute preference", "err", err)
	}
}

// LoadBestScore returns the stored best score, 0 when absent or unreadable.
func (p *Prefs) LoadBestScore() int {
	v, err := p.store.Get(KeyBestScore)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			p.log.Warn("load best score", "err", err)
		}
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		p.log.Warn("corrupt best score", "value", v)
		return 0
	}
	return n
}

// SaveBestScore stores score if it beats the stored value.
func (p *Prefs) SaveBestScore(score int) {
	if score <= p.LoadBestScore() {
		return
	}
	if err := p.store.Set(KeyBestScore, strconv.Itoa(score)); err != nil {
		p.log.Warn("save best score", "err", err)
	}
}

package prefs

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenStore struct{}

func (brokenStore) Get(string) (string, error) { return "", errors.New("storage unavailable") }
func (brokenStore) Set(string, string) error   { return errors.New("storage unavailable") }

func quiet() *log.Logger { return log.New(io.Discard) }

func TestDefaultsWhenAbsent(t *testing.T) {
	p := New(&MemoryStore{}, quiet())
	assert.False(t, p.LoadMuted())
	assert.Equal(t, 0, p.LoadBestScore())
}

func TestMutedRoundTrip(t *testing.T) {
	p := New(&MemoryStore{}, quiet())
	p.SaveMuted(true)
	assert.True(t, p.LoadMuted())
	p.SaveMuted(false)
	assert.False(t, p.LoadMuted())
}

func TestCorruptValuesFallBack(t *testing.T) {
	store := &MemoryStore{}
	require.NoError(t, store.Set(KeyMuted, "maybe"))
	require.NoError(t, store.Set(KeyBestScore, "-4"))
	p := New(store, quiet())
	assert.False(t, p.LoadMuted())
	assert.Equal(t, 0, p.LoadBestScore())
}

func TestBrokenStorageIsNotFatal(t *testing.T) {
	p := New(brokenStore{}, quiet())
	assert.NotPanics(t, func() {
		p.SaveMuted(true)
		p.SaveBestScore(10)
	})
	assert.False(t, p.LoadMuted())
	assert.Equal(t, 0, p.LoadBestScore())
}

func TestBestScoreOnlyRises(t *testing.T) {
	p := New(&MemoryStore{}, quiet())
	p.SaveBestScore(50)
	p.SaveBestScore(10)
	assert.Equal(t, 50, p.LoadBestScore())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.yaml")
	store := NewFileStore(path)

	_, err := store.Get(KeyMuted)
	assert.ErrorIs(t, err, ErrNotFound)

	p := New(store, quiet())
	p.SaveMuted(true)
	p.SaveBestScore(7)

	reopened := New(NewFileStore(path), quiet())
	assert.True(t, reopened.LoadMuted())
	assert.Equal(t, 7, reopened.LoadBestScore())
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{{{not yaml"), 0o644))

	store := NewFileStore(path)
	_, err := store.Get(KeyMuted)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	p := New(store, quiet())
	assert.False(t, p.LoadMuted())

	p.SaveMuted(true)
	assert.True(t, p.LoadMuted(), "corrupt file is replaced on write")
}

func TestDirectoryKeepsUsersApart(t *testing.T) {
	dir := t.TempDir()
	users := NewDirectory(dir)

	New(users.For("alice"), quiet()).SaveMuted(true)
	assert.False(t, New(users.For("bob"), quiet()).LoadMuted())
	assert.Same(t, users.For("alice"), users.For("alice"))

	reconnect := NewDirectory(dir)
	assert.True(t, New(reconnect.For("alice"), quiet()).LoadMuted(), "mute survives a new connection")
	assert.FileExists(t, filepath.Join(dir, "alice.yaml"))
}

func TestDirectoryFileNames(t *testing.T) {
	assert.Equal(t, "alice", fileName("alice"))
	assert.Equal(t, "_etc_passwd", fileName("/etc/passwd"))
	assert.Equal(t, ".._x", fileName("../x"))
	assert.Equal(t, "anonymous", fileName(""))
	assert.Equal(t, "anonymous", fileName(".."))
}

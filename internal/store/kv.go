// Package store persists AI settings, resumes and tracked jobs in a key-value
// backend. Every operation reads and rewrites a whole blob; there is no
// incremental persistence and the last writer wins.
package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/KaramelBytes/resumekit/internal/utils"
)

// KV is the byte-level storage the Store is built on.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// MemoryKV keeps values in a map. It is safe for concurrent use.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	m.data[key] = append([]byte(nil), value...)
	m.mu.Unlock()
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

// FileKV stores one file per key under Dir. Writes go through a temp file and rename.
type FileKV struct {
	Dir string
}

// NewFileKV creates dir if needed.
func NewFileKV(dir string) (*FileKV, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("file store: empty directory")
	}
	if err := utils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("file store: %w", err)
	}
	return &FileKV{Dir: dir}, nil
}

func (f *FileKV) path(key string) string {
	return filepath.Join(f.Dir, url.QueryEscape(key))
}

func (f *FileKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	b, err := os.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	return b, true, nil
}

func (f *FileKV) Set(_ context.Context, key string, value []byte) error {
	if err := utils.SafeWriteFile(f.path(key), value); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (f *FileKV) Delete(_ context.Context, key string) error {
	if err := os.Remove(f.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

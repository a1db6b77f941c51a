package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	ferrors "git.home.luguber.info/inful/refreshd/internal/foundation/errors"
	"git.home.luguber.info/inful/refreshd/internal/logfields"
)

// FileStore owns the configuration snapshot backed by a YAML file.
//
// Load is a cheap, lock-free snapshot read. Persist and Reload are serialized;
// the in-memory snapshot only changes after the new content is durable, so a
// failed Persist leaves readers on the previous configuration.
type FileStore struct {
	path    string
	current atomic.Pointer[Config]
	mu      sync.Mutex
}

// OpenFileStore loads path and returns a store holding its snapshot.
func OpenFileStore(path string) (*FileStore, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to resolve config path").Build()
	}
	cfg, err := Load(abs)
	if err != nil {
		return nil, err
	}
	s := &FileStore{path: abs}
	s.current.Store(cfg)
	return s, nil
}

// Path returns the absolute path of the backing file.
func (s *FileStore) Path() string { return s.path }

// Load returns the current configuration snapshot. Callers must not mutate it.
func (s *FileStore) Load() *Config {
	return s.current.Load()
}

// Persist durably writes next and then publishes it as the current snapshot.
// The model catalog is derived from the config file and written last; a
// catalog failure is returned after the snapshot has moved on. Calling it with
// an unchanged value rewrites identical content.
func (s *FileStore) Persist(ctx context.Context, next *Config) error {
	if next == nil {
		return ferrors.ValidationError("cannot persist nil configuration").Build()
	}
	if err := ctx.Err(); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryPersist, "persist canceled").Build()
	}
	if err := next.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := Marshal(next)
	if err != nil {
		return err
	}
	catalog := CatalogPath(s.path, next)
	var catalogData []byte
	if catalog != "" {
		if catalogData, err = MarshalCatalog(next); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryPersist, "failed to encode model catalog").Build()
		}
	}

	if err := writeFileAtomic(s.path, data); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryPersist, "failed to write config file").
			NextTick().
			WithContext("path", s.path).
			Build()
	}
	s.current.Store(next)

	if catalog == "" {
		return nil
	}
	if err := writeFileAtomic(catalog, catalogData); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryPersist, "failed to write model catalog").
			NextTick().
			WithContext("path", catalog).
			Build()
	}
	return nil
}

// Reload re-reads the backing file and swaps the snapshot. On error the
// previous snapshot is kept.
func (s *FileStore) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := Load(s.path)
	if err != nil {
		return err
	}
	s.current.Store(cfg)
	slog.Debug("Configuration reloaded", logfields.Path(s.path))
	return nil
}

// writeFileAtomic writes data to a temp file in the target directory and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		// No-op after a successful rename.
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	apperrors "github.com/DRKxR4VEN/tiembanhngot/pkg/errors"
	"github.com/DRKxR4VEN/tiembanhngot/pkg/logging"
)

// FileStore implements Store as a single JSON object on disk. The file is
// re-read on every call so separate CLI invocations share state.
type FileStore struct {
	mu     sync.Mutex
	path   string
	logger *logging.Logger
}

// NewFileStore creates a file-backed store. The file is created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path:   path,
		logger: logging.GetDefault(),
	}
}

// Path returns the backing file.
func (f *FileStore) Path() string {
	return f.path
}

// Get implements Store
func (f *FileStore) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load(ctx)
	if err != nil {
		return "", false, err
	}
	value, ok := values[key]
	return value, ok, nil
}

// Set implements Store
func (f *FileStore) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.loadForWrite(ctx)
	if err != nil {
		return err
	}
	values[key] = value
	return f.save(ctx, values)
}

// Delete implements Store
func (f *FileStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.loadForWrite(ctx)
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return f.save(ctx, values)
}

// Stats implements Store
func (f *FileStore) Stats(ctx context.Context) (map[string]interface{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"keys":         len(values),
		"storage_type": "file",
		"path":         f.path,
	}, nil
}

// Close implements Store
func (f *FileStore) Close() error {
	return nil
}

var errCorrupt = errors.New("cache file is corrupted")

func (f *FileStore) load(ctx context.Context) (map[string]string, error) {
	values := make(map[string]string)

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeStorage, "Failed to read cache file").WithDetails(f.path)
	}
	if len(data) == 0 {
		return values, nil
	}

	if err := json.Unmarshal(data, &values); err != nil {
		f.logger.WithField("path", f.path).Error(ctx, "Cache file is corrupted", err)
		return nil, apperrors.Wrap(fmt.Errorf("%w: %w", errCorrupt, err), apperrors.ErrCodeStorage, "Cache file is corrupted").WithDetails(f.path)
	}
	return values, nil
}

// loadForWrite is load for Set and Delete. A corrupt file is moved aside to
// <path>.corrupt and the write starts from an empty store, so one bad file
// does not block every later write.
func (f *FileStore) loadForWrite(ctx context.Context) (map[string]string, error) {
	values, err := f.load(ctx)
	if err == nil || !errors.Is(err, errCorrupt) {
		return values, err
	}

	aside := f.CorruptPath()
	if renameErr := os.Rename(f.path, aside); renameErr != nil {
		return nil, apperrors.Wrap(renameErr, apperrors.ErrCodeStorage, "Failed to move corrupted cache file").WithDetails(f.path)
	}
	f.logger.WithFields(map[string]interface{}{
		"path":  f.path,
		"moved": aside,
	}).Warn(ctx, "Replacing corrupted cache file")
	return make(map[string]string), nil
}

// CorruptPath is where an unreadable cache file is moved before it is replaced.
func (f *FileStore) CorruptPath() string {
	return f.path + ".corrupt"
}

// save writes through a temp file and rename so readers never see a torn file.
func (f *FileStore) save(ctx context.Context, values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeStorage, "Failed to encode cache file")
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeStorage, "Failed to create cache directory").WithDetails(dir)
	}

	tmp, err := os.CreateTemp(dir, ".cache-*.json")
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeStorage, "Failed to write cache file").WithDetails(f.path)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return apperrors.Wrap(err, apperrors.ErrCodeStorage, "Failed to write cache file").WithDetails(f.path)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeStorage, "Failed to write cache file").WithDetails(f.path)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeStorage, "Failed to replace cache file").WithDetails(f.path)
	}

	f.logger.WithFields(map[string]interface{}{
		"path": f.path,
		"keys": len(values),
	}).Debug(ctx, "Cache file written")
	return nil
}

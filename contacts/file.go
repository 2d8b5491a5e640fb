package contacts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/trustguard/trustguard/metrics/dbmetrics"
)

// FileStore - keeps the contact book as a JSON array in a single file. Saves go through a temporary file in the
// same directory which is then renamed over the target, so the file is always either the old or the new book.
type FileStore struct {
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("contacts path not set")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Join(errors.New("failed to create contacts directory"), err)
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Close() error {
	// no-op
	return nil
}

func (s *FileStore) Load(ctx context.Context) ([]*Contact, error) {
	t := dbmetrics.StartStoreTimer("file", "Load")
	defer t.ObserveDuration()

	if err := ctx.Err(); err != nil {
		return nil, &StorageError{Op: "load", Err: err}
	}

	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return make([]*Contact, 0), nil
		}
		return nil, &StorageError{Op: "load", Err: err}
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return make([]*Contact, 0), nil
	}

	contacts := make([]*Contact, 0)
	if err = json.Unmarshal(b, &contacts); err != nil {
		return nil, &StorageError{Op: "load", Err: err}
	}
	if err = validateCollection(contacts); err != nil {
		return nil, &StorageError{Op: "load", Err: err}
	}
	return contacts, nil
}

func (s *FileStore) Save(ctx context.Context, contacts []*Contact) error {
	t := dbmetrics.StartStoreTimer("file", "Save")
	defer t.ObserveDuration()

	if err := ctx.Err(); err != nil {
		return &StorageError{Op: "save", Err: err}
	}
	if contacts == nil {
		contacts = make([]*Contact, 0) // write `[]` rather than `null`
	}
	if err := validateCollection(contacts); err != nil {
		return &StorageError{Op: "save", Err: err}
	}

	b, err := json.MarshalIndent(contacts, "", "  ")
	if err != nil {
		return &StorageError{Op: "save", Err: err}
	}
	b = append(b, '\n')

	if err = writeFileAtomic(s.path, b); err != nil {
		return &StorageError{Op: "save", Err: err}
	}
	return nil
}

func writeFileAtomic(path string, b []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := f.Name()
	cleanup := func(err error) error {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return err
	}

	if err = f.Chmod(0o600); err != nil {
		return cleanup(err)
	}
	if _, err = f.Write(b); err != nil {
		return cleanup(err)
	}
	if err = f.Sync(); err != nil {
		return cleanup(err)
	}
	if err = f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err = os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

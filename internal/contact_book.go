package internal

import (
	"errors"
	"fmt"
	"log"

	"github.com/trustguard/trustguard/config"
	"github.com/trustguard/trustguard/contacts"
)

// OpenContactStore - opens the contact store selected by the config. The caller must Close it.
func OpenContactStore(cnf *config.InstanceConfig) (contacts.Store, error) {
	switch cnf.StorageBackend {
	case config.StorageBackendFile:
		log.Printf("Using contact book file %s", cnf.ContactsPath)
		store, err := contacts.NewFileStore(cnf.ContactsPath)
		if err != nil {
			return nil, errors.Join(errors.New("NewFileStore: failed create"), err)
		}
		return store, nil
	case config.StorageBackendPostgres:
		log.Println("Using contact book database")
		store, err := contacts.NewPostgresStore(&contacts.PostgresStoreConfig{
			Uri:            cnf.Database,
			MaxOpenConns:   cnf.DatabaseMaxOpenConns,
			MaxIdleConns:   cnf.DatabaseMaxIdleConns,
			MigrationsPath: cnf.DatabaseMigrationsDir,
		})
		if err != nil {
			return nil, errors.Join(errors.New("NewPostgresStore: failed create"), err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage backend '%s'", cnf.StorageBackend)
	}
}

// NewSafeWordHasher - a contacts.Hasher using the configured Argon2id parameters.
func NewSafeWordHasher(cnf *config.InstanceConfig) (*contacts.Hasher, error) {
	params := contacts.DefaultParams
	params.MemoryKiB = cnf.SafeWordArgon2MemoryKiB
	params.Iterations = cnf.SafeWordArgon2Iterations
	params.Parallelism = cnf.SafeWordArgon2Parallelism
	return contacts.NewHasher(params)
}

// OpenContactBook - opens the configured store and wraps it in a Book. The caller must Close the returned store.
func OpenContactBook(cnf *config.InstanceConfig) (*contacts.Book, contacts.Store, error) {
	hasher, err := NewSafeWordHasher(cnf)
	if err != nil {
		return nil, nil, err
	}
	store, err := OpenContactStore(cnf)
	if err != nil {
		return nil, nil, err
	}
	book, err := contacts.NewBook(store, hasher)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return book, store, nil
}

package contacts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/DavidHuie/gomigrate"
	_ "github.com/lib/pq"
	"github.com/trustguard/trustguard/metrics/dbmetrics"
)

type PostgresStoreConfig struct {
	Uri          string
	MaxOpenConns int
	MaxIdleConns int
	// File path to the directory containing migrations
	MigrationsPath string
}

// PostgresStore - keeps the contact book in a `contacts` table. The book is replaced inside a single transaction
// on every Save.
type PostgresStore struct {
	db *sql.DB

	contactSelectAll *sql.Stmt
}

func NewPostgresStore(config *PostgresStoreConfig) (*PostgresStore, error) {
	db, err := sql.Open("postgres", config.Uri)
	if err != nil {
		return nil, errors.Join(errors.New("failed to open database"), err)
	}
	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &PostgresStore{
		db: db,
	}
	if err = s.prepare(config.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, errors.Join(fmt.Errorf("failed to run migrations with path '%s'", config.MigrationsPath), err)
	}
	return s, nil
}

func (s *PostgresStore) prepare(migrationsDir string) error {
	// Migrate first
	if migrator, err := gomigrate.NewMigratorWithLogger(s.db, gomigrate.Postgres{}, migrationsDir, log.Default()); err != nil {
		return err
	} else {
		if err = migrator.Migrate(); err != nil {
			return err
		}
	}

	var err error
	if s.contactSelectAll, err = s.db.Prepare("SELECT name, channel, safe_hash FROM contacts ORDER BY position ASC;"); err != nil {
		return err
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) Load(ctx context.Context) ([]*Contact, error) {
	t := dbmetrics.StartStoreTimer("postgres", "Load")
	defer t.ObserveDuration()

	rows, err := s.contactSelectAll.QueryContext(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return make([]*Contact, 0), nil
		}
		return nil, &StorageError{Op: "load", Err: err}
	}
	defer rows.Close()

	contacts := make([]*Contact, 0)
	for rows.Next() {
		c := &Contact{}
		if err = rows.Scan(&c.Name, &c.Channel, &c.SafeHash); err != nil {
			return nil, &StorageError{Op: "load", Err: err}
		}
		contacts = append(contacts, c)
	}
	if err = rows.Err(); err != nil {
		return nil, &StorageError{Op: "load", Err: err}
	}
	if err = validateCollection(contacts); err != nil {
		return nil, &StorageError{Op: "load", Err: err}
	}
	return contacts, nil
}

func (s *PostgresStore) Save(ctx context.Context, contacts []*Contact) error {
	t := dbmetrics.StartStoreTimer("postgres", "Save")
	defer t.ObserveDuration()

	if err := validateCollection(contacts); err != nil {
		return &StorageError{Op: "save", Err: err}
	}

	txn, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &StorageError{Op: "save", Err: err}
	}
	defer txn.Rollback()

	if _, err = txn.ExecContext(ctx, "DELETE FROM contacts;"); err != nil {
		return &StorageError{Op: "save", Err: err}
	}
	for i, c := range contacts {
		if _, err = txn.ExecContext(ctx, "INSERT INTO contacts (position, name, channel, safe_hash) VALUES ($1, $2, $3, $4);", i, c.Name, c.Channel, c.SafeHash); err != nil {
			return &StorageError{Op: "save", Err: err}
		}
	}

	if err = txn.Commit(); err != nil {
		return &StorageError{Op: "save", Err: err}
	}
	return nil
}

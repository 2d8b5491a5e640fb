package test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/trustguard/trustguard/contacts"
)

var SimulatedError = errors.New("simulated error")

// MemoryContactStore - a contacts.Store kept in memory. Contacts are copied on the way in and out, so callers
// can't modify the stored book by accident.
type MemoryContactStore struct {
	t        *testing.T
	lock     sync.Mutex
	contacts []*contacts.Contact

	// When true, the relevant operation fails with a StorageError wrapping SimulatedError.
	FailLoad bool
	FailSave bool
}

func NewMemoryContactStore(t *testing.T) *MemoryContactStore {
	return &MemoryContactStore{
		t:        t,
		contacts: make([]*contacts.Contact, 0),
	}
}

func (m *MemoryContactStore) Close() error {
	// no-op
	return nil
}

func (m *MemoryContactStore) Load(ctx context.Context) ([]*contacts.Contact, error) {
	assert.NotNil(m.t, ctx, "context is required")

	m.lock.Lock()
	defer m.lock.Unlock()

	if m.FailLoad {
		return nil, &contacts.StorageError{Op: "load", Err: SimulatedError}
	}
	return copyContacts(m.contacts), nil
}

func (m *MemoryContactStore) Save(ctx context.Context, list []*contacts.Contact) error {
	assert.NotNil(m.t, ctx, "context is required")

	m.lock.Lock()
	defer m.lock.Unlock()

	if m.FailSave {
		return &contacts.StorageError{Op: "save", Err: SimulatedError}
	}
	m.contacts = copyContacts(list)
	return nil
}

// Put - replaces the stored book without any validation, for tests which need a corrupt record.
func (m *MemoryContactStore) Put(list ...*contacts.Contact) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.contacts = copyContacts(list)
}

func copyContacts(list []*contacts.Contact) []*contacts.Contact {
	ret := make([]*contacts.Contact, 0, len(list))
	for _, c := range list {
		if c == nil {
			continue
		}
		copied := *c
		ret = append(ret, &copied)
	}
	return ret
}

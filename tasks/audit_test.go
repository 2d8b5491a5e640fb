package tasks

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/trustguard/trustguard/contacts"
)

func makeBook(t *testing.T, path string) *contacts.Book {
	store, err := contacts.NewFileStore(path)
	assert.NoError(t, err)
	hasher, err := contacts.NewHasher(contacts.Params{MemoryKiB: 64, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	assert.NoError(t, err)
	book, err := contacts.NewBook(store, hasher)
	assert.NoError(t, err)
	return book
}

func TestAuditContactBook(t *testing.T) {
	t.Parallel()

	book := makeBook(t, filepath.Join(t.TempDir(), "contacts.json"))
	res := AuditContactBook(book)
	assert.Equal(t, &contacts.AuditResult{Contacts: 0, Unreadable: []string{}, Outdated: []string{}}, res)

	_, err := book.Save(context.Background(), "Alex", "alex@example.com", "bluebird")
	assert.NoError(t, err)
	res = AuditContactBook(book)
	assert.Equal(t, 1, res.Contacts)
	assert.Empty(t, res.Unreadable)
	assert.Empty(t, res.Outdated)
}

func TestAuditContactBookCorrupt(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "contacts.json")
	assert.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	book := makeBook(t, path)
	assert.Nil(t, AuditContactBook(book))

	// the audit never rewrites the book
	b, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, "{not json", string(b))
}

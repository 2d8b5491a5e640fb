package contacts

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func makeFileStore(t *testing.T) *FileStore {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "nested", "contacts.json"))
	assert.NoError(t, err)
	assert.NotNil(t, store)
	return store
}

func TestFileStoreEmpty(t *testing.T) {
	t.Parallel()

	store := makeFileStore(t)
	contacts, err := store.Load(context.Background())
	assert.NoError(t, err)
	assert.NotNil(t, contacts)
	assert.Len(t, contacts, 0)

	// a blank file counts as empty too
	assert.NoError(t, os.WriteFile(store.Path(), []byte("  \n"), 0o600))
	contacts, err = store.Load(context.Background())
	assert.NoError(t, err)
	assert.Len(t, contacts, 0)
}

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	h := makeHasher(t)
	store := makeFileStore(t)

	existing, err := store.Load(ctx)
	assert.NoError(t, err)
	contacts, err := h.Upsert(existing, "Alex", "alex@example.com", "bluebird")
	assert.NoError(t, err)
	assert.NoError(t, store.Save(ctx, contacts))

	loaded, err := store.Load(ctx)
	assert.NoError(t, err)
	assert.Len(t, loaded, 1)
	assert.Equal(t, contacts[0], loaded[0]) // all three fields survive exactly
	assert.Equal(t, "Alex", loaded[0].Name)

	ok, err := h.Verify(loaded[0].SafeHash, "bluebird")
	assert.NoError(t, err)
	assert.True(t, ok)
	ok, err = h.Verify(loaded[0].SafeHash, "bluejay")
	assert.NoError(t, err)
	assert.False(t, ok)

	// the plaintext never reaches the disk
	b, err := os.ReadFile(store.Path())
	assert.NoError(t, err)
	assert.NotContains(t, string(b), "bluebird")
	assert.Contains(t, string(b), `"safe_hash"`)
}

func TestFileStoreSequentialUpserts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	h := makeHasher(t)
	store := makeFileStore(t)

	for _, step := range []struct{ channel, safeWord string }{
		{"alex@example.com", "bluebird"},
		{"+1 555 0199", "robin"},
	} {
		existing, err := store.Load(ctx)
		assert.NoError(t, err)
		updated, err := h.Upsert(existing, "Alex", step.channel, step.safeWord)
		assert.NoError(t, err)
		assert.NoError(t, store.Save(ctx, updated))
	}

	loaded, err := store.Load(ctx)
	assert.NoError(t, err)
	assert.Len(t, loaded, 1)
	assert.Equal(t, "+1 555 0199", loaded[0].Channel)
	ok, err := h.Verify(loaded[0].SafeHash, "robin")
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestFileStorePreservesOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := makeFileStore(t)
	contacts := []*Contact{
		{Name: "Sam", Channel: "1", SafeHash: "h1"},
		{Name: "Alex", Channel: "2", SafeHash: "h2"},
		{Name: "Jo", Channel: "3", SafeHash: "h3"},
	}
	assert.NoError(t, store.Save(ctx, contacts))
	loaded, err := store.Load(ctx)
	assert.NoError(t, err)
	assert.Equal(t, []string{"Sam", "Alex", "Jo"}, names(loaded))
}

func TestFileStoreCorrupt(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"not json":       "this is not json",
		"truncated":      `[{"name": "Alex", "channel": "a", "safe_hash": "x"`,
		"wrong shape":    `{"name": "Alex"}`,
		"missing name":   `[{"channel": "a", "safe_hash": "x"}]`,
		"missing hash":   `[{"name": "Alex", "channel": "a"}]`,
		"duplicate name": `[{"name": "Alex", "channel": "a", "safe_hash": "x"}, {"name": "Alex", "channel": "b", "safe_hash": "y"}]`,
		"null record":    `[null]`,
	}
	for name, content := range cases {
		store := makeFileStore(t)
		assert.NoError(t, os.WriteFile(store.Path(), []byte(content), 0o600))

		contacts, err := store.Load(context.Background())
		assert.Nil(t, contacts, name)
		var storageErr *StorageError
		if assert.ErrorAs(t, err, &storageErr, name) {
			assert.Equal(t, "load", storageErr.Op)
		}

		// the corrupt data is left alone for the user to deal with
		b, err := os.ReadFile(store.Path())
		assert.NoError(t, err)
		assert.Equal(t, content, string(b))
	}
}

func TestFileStoreSaveRejectsInvalid(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := makeFileStore(t)
	good := []*Contact{{Name: "Alex", Channel: "a", SafeHash: "x"}}
	assert.NoError(t, store.Save(ctx, good))

	err := store.Save(ctx, []*Contact{{Name: "Sam", Channel: "b", SafeHash: ""}})
	assert.True(t, IsStorageError(err))
	assert.True(t, IsValidationError(err)) // the cause is still reachable

	// last known good state is intact
	loaded, err := store.Load(ctx)
	assert.NoError(t, err)
	assert.Equal(t, good, loaded)
}

func TestFileStoreSaveIsAtomic(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := makeFileStore(t)
	assert.NoError(t, store.Save(ctx, []*Contact{{Name: "Alex", Channel: "a", SafeHash: "x"}}))
	assert.NoError(t, store.Save(ctx, []*Contact{{Name: "Sam", Channel: "b", SafeHash: "y"}}))

	// only the target remains: temporary files are renamed or cleaned up
	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "contacts.json", entries[0].Name())

	info, err := os.Stat(store.Path())
	assert.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStoreSaveEmpty(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := makeFileStore(t)
	assert.NoError(t, store.Save(ctx, nil))
	b, err := os.ReadFile(store.Path())
	assert.NoError(t, err)
	assert.Equal(t, "[]\n", string(b))
}

func TestFileStoreCancelledContext(t *testing.T) {
	t.Parallel()

	store := makeFileStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Load(ctx)
	assert.True(t, IsStorageError(err))
	assert.ErrorIs(t, err, context.Canceled)

	err = store.Save(ctx, nil)
	assert.True(t, IsStorageError(err))
	_, statErr := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestNewFileStoreRequiresPath(t *testing.T) {
	t.Parallel()

	store, err := NewFileStore("")
	assert.Error(t, err)
	assert.Nil(t, store)
}

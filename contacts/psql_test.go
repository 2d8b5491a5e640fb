package contacts

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Runs against a real database only when TG_TEST_DATABASE holds a connection string. The table is replaced.
func makePostgresStore(t *testing.T) *PostgresStore {
	uri := os.Getenv("TG_TEST_DATABASE")
	if uri == "" {
		t.Skip("TG_TEST_DATABASE not set")
	}
	store, err := NewPostgresStore(&PostgresStoreConfig{
		Uri:            uri,
		MaxOpenConns:   2,
		MaxIdleConns:   1,
		MigrationsPath: "../migrations",
	})
	assert.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestPostgresStoreRoundTrip(t *testing.T) {
	store := makePostgresStore(t)
	ctx := context.Background()

	assert.NoError(t, store.Save(ctx, nil))
	loaded, err := store.Load(ctx)
	assert.NoError(t, err)
	assert.Len(t, loaded, 0)

	h := makeHasher(t)
	contacts, err := h.Upsert(nil, "Alex", "alex@example.com", "bluebird")
	assert.NoError(t, err)
	contacts, err = h.Upsert(contacts, "Sam", "sam@example.com", "heron")
	assert.NoError(t, err)
	contacts, err = h.Upsert(contacts, "Alex", "+1 555 0199", "robin")
	assert.NoError(t, err)
	assert.NoError(t, store.Save(ctx, contacts))

	loaded, err = store.Load(ctx)
	assert.NoError(t, err)
	assert.Equal(t, contacts, loaded)
	assert.Equal(t, []string{"Sam", "Alex"}, names(loaded))

	// a rejected save leaves the table alone
	err = store.Save(ctx, []*Contact{{Name: "Jo", Channel: "c", SafeHash: ""}})
	assert.True(t, IsStorageError(err))
	loaded, err = store.Load(ctx)
	assert.NoError(t, err)
	assert.Equal(t, contacts, loaded)

	assert.NoError(t, store.Save(ctx, nil))
}

package credentials

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aperture/internal/adapters/secrets"
	"aperture/pkg/errors"
)

const testMasterKey = "unit-test-master-key-0123456789ab"

func newMemoryBacked(t *testing.T) (*Store, *secrets.MemoryStore) {
	t.Helper()
	backend := secrets.NewMemoryStore()
	return NewStore(backend, testMasterKey), backend
}

func TestStoreAndGetRoundtrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newMemoryBacked(t)

	require.NoError(t, store.StoreAPIKey(ctx, "gemini", "AIza-secret-key"))

	got, err := store.GetAPIKey(ctx, "gemini")
	require.NoError(t, err)
	assert.Equal(t, "AIza-secret-key", got)
	assert.True(t, store.HasAPIKey(ctx, "gemini"))
}

func TestGetNeverStoredReturnsEmptyWithoutError(t *testing.T) {
	ctx := context.Background()
	store, _ := newMemoryBacked(t)

	got, err := store.GetAPIKey(ctx, "openai")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.False(t, store.HasAPIKey(ctx, "openai"))
}

func TestStoreRotatesSaltOnEveryStore(t *testing.T) {
	ctx := context.Background()
	store, backend := newMemoryBacked(t)

	require.NoError(t, store.StoreAPIKey(ctx, "gemini", "first"))
	first, err := backend.Get(ctx, "gemini")
	require.NoError(t, err)

	require.NoError(t, store.StoreAPIKey(ctx, "gemini", "first"))
	second, err := backend.Get(ctx, "gemini")
	require.NoError(t, err)

	assert.NotEqual(t, first.Salt, second.Salt)
	assert.NotEqual(t, first.Secret, second.Secret)

	got, err := store.GetAPIKey(ctx, "gemini")
	require.NoError(t, err)
	assert.Equal(t, "first", got)
}

func TestSecretNotStoredInPlaintext(t *testing.T) {
	ctx := context.Background()
	store, backend := newMemoryBacked(t)

	require.NoError(t, store.StoreAPIKey(ctx, "openai", "sk-plain-secret"))

	rec, err := backend.Get(ctx, "openai")
	require.NoError(t, err)
	assert.NotContains(t, rec.Secret, "sk-plain-secret")
	assert.NotEmpty(t, rec.Salt)
}

func TestClearAPIKeyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store, _ := newMemoryBacked(t)

	require.NoError(t, store.StoreAPIKey(ctx, "gemini", "secret"))
	require.NoError(t, store.ClearAPIKey(ctx, "gemini"))
	require.NoError(t, store.ClearAPIKey(ctx, "gemini"))

	got, err := store.GetAPIKey(ctx, "gemini")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetCorruptCiphertext(t *testing.T) {
	ctx := context.Background()
	store, backend := newMemoryBacked(t)

	require.NoError(t, backend.Put(ctx, "gemini", secrets.Record{Secret: "not base64!!", Salt: "abcd"}))

	_, err := store.GetAPIKey(ctx, "gemini")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCiphertextCorrupt))
}

func TestGetWithWrongMasterKey(t *testing.T) {
	ctx := context.Background()
	backend := secrets.NewMemoryStore()

	writer := NewStore(backend, testMasterKey)
	require.NoError(t, writer.StoreAPIKey(ctx, "gemini", "secret"))

	reader := NewStore(backend, "a-completely-different-master-key")
	_, err := reader.GetAPIKey(ctx, "gemini")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCiphertextCorrupt))
}

func TestRedisBackedRoundtrip(t *testing.T) {
	ctx := context.Background()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewStore(secrets.NewRedisStore(client), testMasterKey)

	require.NoError(t, store.StoreAPIKey(ctx, "openai", "sk-redis-secret"))
	assert.True(t, mr.Exists("aperture:credentials:openai"))

	got, err := store.GetAPIKey(ctx, "openai")
	require.NoError(t, err)
	assert.Equal(t, "sk-redis-secret", got)

	require.NoError(t, store.ClearAPIKey(ctx, "openai"))
	got, err = store.GetAPIKey(ctx, "openai")
	require.NoError(t, err)
	assert.Empty(t, got)
}

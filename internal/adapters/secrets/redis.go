package secrets

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"aperture/pkg/errors"
)

// RedisStore implements Store using Redis
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new Redis-backed secret store
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Put overwrites the credential record for a provider id. Records carry no
// TTL; credentials live until cleared.
func (s *RedisStore) Put(ctx context.Context, providerID string, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal credential record: provider=%s", providerID)
	}

	if err := s.client.Set(ctx, s.key(providerID), data, 0).Err(); err != nil {
		return errors.Wrapf(errors.ErrSecretStoreUnavailable, "failed to save credential record: provider=%s: %v", providerID, err)
	}

	return nil
}

// Get retrieves the credential record for a provider id
func (s *RedisStore) Get(ctx context.Context, providerID string) (Record, error) {
	data, err := s.client.Get(ctx, s.key(providerID)).Result()
	if err == redis.Nil {
		return Record{}, errors.Wrapf(errors.ErrNotFound, "no credential stored for provider=%s", providerID)
	}
	if err != nil {
		return Record{}, errors.Wrapf(errors.ErrSecretStoreUnavailable, "failed to read credential record: provider=%s: %v", providerID, err)
	}

	var rec Record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return Record{}, errors.Wrapf(err, "failed to unmarshal credential record: provider=%s", providerID)
	}

	return rec, nil
}

func (s *RedisStore) key(providerID string) string {
	return fmt.Sprintf("aperture:credentials:%s", providerID)
}

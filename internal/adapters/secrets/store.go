package secrets

import "context"

// Record is one persisted credential: an opaque (encrypted, encoded) secret
// plus the salt it was written under. The orchestration layer never sees the
// raw storage format beyond this pair.
type Record struct {
	Secret string `json:"secret"`
	Salt   string `json:"salt"`
}

// Empty reports whether the record holds no secret.
func (r Record) Empty() bool {
	return r.Secret == ""
}

// Store persists credential records keyed by provider id.
type Store interface {
	// Put overwrites the record for a provider id.
	Put(ctx context.Context, providerID string, rec Record) error

	// Get returns the record for a provider id, or
	// errors.ErrNotFound when nothing was ever stored.
	Get(ctx context.Context, providerID string) (Record, error)
}

package credentials

import (
	"context"
	"encoding/base64"

	"aperture/internal/adapters/secrets"
	"aperture/pkg/crypto"
	"aperture/pkg/errors"
	"aperture/pkg/logger"
)

const saltBytes = 16

// Store owns the credential lifecycle for all providers: one encrypted
// secret per provider id, salted at rest. The secret never lives in this
// layer's memory beyond the call that needs it.
type Store struct {
	backend   secrets.Store
	masterKey string
	log       *logger.Logger
}

// NewStore creates a credential store over a secret backend. masterKey is
// the key material per-salt AES keys are derived from.
func NewStore(backend secrets.Store, masterKey string) *Store {
	return &Store{
		backend:   backend,
		masterKey: masterKey,
		log:       logger.Get().With("component", "credentials"),
	}
}

// StoreAPIKey persists a provider's API key. A fresh salt is generated on
// every store so older ciphertexts cannot be replayed against the new
// record; any prior secret for the provider is overwritten.
func (s *Store) StoreAPIKey(ctx context.Context, providerID, secret string) error {
	salt, err := crypto.NewSalt(saltBytes)
	if err != nil {
		return errors.Wrap(err, "generate salt")
	}

	enc, err := crypto.NewSaltedEncryptor(s.masterKey, salt)
	if err != nil {
		return errors.Wrap(err, "derive credential key")
	}

	ciphertext, err := enc.Encrypt(secret)
	if err != nil {
		return errors.Wrap(err, "encrypt api key")
	}

	rec := secrets.Record{
		Secret: base64.StdEncoding.EncodeToString(ciphertext),
		Salt:   salt,
	}
	if err := s.backend.Put(ctx, providerID, rec); err != nil {
		return err
	}

	s.log.Infow("API key stored", "provider", providerID)
	return nil
}

// ClearAPIKey persists an empty secret and clears the salt. Idempotent.
func (s *Store) ClearAPIKey(ctx context.Context, providerID string) error {
	if err := s.backend.Put(ctx, providerID, secrets.Record{}); err != nil {
		return err
	}

	s.log.Infow("API key cleared", "provider", providerID)
	return nil
}

// GetAPIKey returns the decrypted API key, or "" (not an error) when no key
// was ever stored or the record was cleared. Decryption uses the salt saved
// at store time, never a fresh one.
func (s *Store) GetAPIKey(ctx context.Context, providerID string) (string, error) {
	rec, err := s.backend.Get(ctx, providerID)
	if errors.Is(err, errors.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	if rec.Empty() || rec.Salt == "" {
		return "", nil
	}

	enc, err := s.makeEncryptor(rec.Salt)
	if err != nil {
		return "", err
	}

	ciphertext, err := base64.StdEncoding.DecodeString(rec.Secret)
	if err != nil {
		return "", errors.Wrapf(errors.ErrCiphertextCorrupt, "provider=%s: %v", providerID, err)
	}

	secret, err := enc.Decrypt(ciphertext)
	if err != nil {
		return "", errors.Wrapf(errors.ErrCiphertextCorrupt, "provider=%s: %v", providerID, err)
	}

	return secret, nil
}

// HasAPIKey reports whether a non-empty key is retrievable.
func (s *Store) HasAPIKey(ctx context.Context, providerID string) bool {
	key, err := s.GetAPIKey(ctx, providerID)
	return err == nil && key != ""
}

func (s *Store) makeEncryptor(salt string) (*crypto.Encryptor, error) {
	enc, err := crypto.NewSaltedEncryptor(s.masterKey, salt)
	if err != nil {
		return nil, errors.Wrap(err, "derive credential key")
	}
	return enc, nil
}

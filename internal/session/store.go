package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Adithya91-code/Farmchaingpt/internal/obs"
)

// Storage keys. The token is written under both legacy keys so older
// sessions remain readable by either lookup.
const (
	KeyIdentity    = "current_user"
	KeyToken       = "auth_token"
	KeyLegacyToken = "current_user_token"
)

// Store is the single accessor for the persisted identity and credential.
type Store struct {
	storage Storage
}

func NewStore(storage Storage) *Store {
	return &Store{storage: storage}
}

// Token returns the bearer credential, or "" when none is stored.
func (s *Store) Token(ctx context.Context) (string, error) {
	for _, key := range []string{KeyToken, KeyLegacyToken} {
		v, ok, err := s.storage.Get(ctx, key)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", key, err)
		}
		if ok && v != "" {
			return v, nil
		}
	}
	return "", nil
}

// SetToken persists token under both legacy keys.
func (s *Store) SetToken(ctx context.Context, token string) error {
	for _, key := range []string{KeyToken, KeyLegacyToken} {
		if err := s.storage.Set(ctx, key, token); err != nil {
			return fmt.Errorf("write %s: %w", key, err)
		}
	}
	return nil
}

// ClearToken removes the credential from both keys.
func (s *Store) ClearToken(ctx context.Context) error {
	for _, key := range []string{KeyToken, KeyLegacyToken} {
		if err := s.storage.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}
	return nil
}

// Identity rehydrates the stored identity. A blob that no longer decodes
// is dropped and reported as absent.
func (s *Store) Identity(ctx context.Context) (Identity, bool, error) {
	raw, ok, err := s.storage.Get(ctx, KeyIdentity)
	if err != nil {
		return Identity{}, false, fmt.Errorf("read %s: %w", KeyIdentity, err)
	}
	if !ok || raw == "" {
		return Identity{}, false, nil
	}
	var id Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		obs.LogEvent("warn", "session_identity_discarded", map[string]any{"error": err.Error()})
		if err := s.storage.Delete(ctx, KeyIdentity); err != nil {
			return Identity{}, false, fmt.Errorf("delete %s: %w", KeyIdentity, err)
		}
		return Identity{}, false, nil
	}
	return id, true, nil
}

func (s *Store) SaveIdentity(ctx context.Context, id Identity) error {
	data, err := json.Marshal(id)
	if err != nil {
		return err
	}
	if err := s.storage.Set(ctx, KeyIdentity, string(data)); err != nil {
		return fmt.Errorf("write %s: %w", KeyIdentity, err)
	}
	return nil
}

// Clear destroys the session: identity and both token keys.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.storage.Delete(ctx, KeyIdentity); err != nil {
		return fmt.Errorf("delete %s: %w", KeyIdentity, err)
	}
	return s.ClearToken(ctx)
}

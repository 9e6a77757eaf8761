package activation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"ordercard/internal/domain"
	apperrors "ordercard/internal/errors"
	"ordercard/internal/kvstore"
)

// IdentityKey is where the activated identity lives in the state store.
const IdentityKey = "jewelry-app-user-details"

var ErrUndecodableIdentity = errors.New("stored identity is undecodable")

// IdentityStore persists the identity of an activated install.
type IdentityStore interface {
	// Load returns a NotFoundError when nothing is stored and wraps
	// ErrUndecodableIdentity when the stored value cannot be read back.
	Load(ctx context.Context) (*domain.UserIdentity, error)
	Save(ctx context.Context, identity domain.UserIdentity) error
	Clear(ctx context.Context) error
}

type KVIdentityStore struct {
	kv kvstore.Store
}

func NewIdentityStore(kv kvstore.Store) *KVIdentityStore {
	return &KVIdentityStore{kv: kv}
}

func (s *KVIdentityStore) Load(ctx context.Context) (*domain.UserIdentity, error) {
	raw, err := s.kv.Get(ctx, IdentityKey)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("loading identity: %w", err)
	}

	var identity *domain.UserIdentity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodableIdentity, err)
	}
	if identity == nil {
		return nil, fmt.Errorf("%w: stored value is null", ErrUndecodableIdentity)
	}
	return identity, nil
}

func (s *KVIdentityStore) Save(ctx context.Context, identity domain.UserIdentity) error {
	data, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encoding identity: %w", err)
	}
	return s.kv.Set(ctx, IdentityKey, string(data))
}

func (s *KVIdentityStore) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, IdentityKey)
}

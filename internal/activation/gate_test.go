package activation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ordercard/internal/domain"
	apperrors "ordercard/internal/errors"
	"ordercard/internal/kvstore"
)

const validCode = "FVC-7K9D-23LM-8QWZ"

type mockRedeemer struct {
	RedeemFunc func(ctx context.Context, code string, identity domain.UserIdentity) (*domain.RedemptionResult, error)
	calls      int
}

func (m *mockRedeemer) Redeem(ctx context.Context, code string, identity domain.UserIdentity) (*domain.RedemptionResult, error) {
	m.calls++
	return m.RedeemFunc(ctx, code, identity)
}

func succeeding() *mockRedeemer {
	return &mockRedeemer{
		RedeemFunc: func(ctx context.Context, code string, identity domain.UserIdentity) (*domain.RedemptionResult, error) {
			return &domain.RedemptionResult{Status: domain.RedemptionSuccess, Message: "Activation successful."}, nil
		},
	}
}

type mockStore struct {
	LoadFunc  func(ctx context.Context) (*domain.UserIdentity, error)
	SaveFunc  func(ctx context.Context, identity domain.UserIdentity) error
	ClearFunc func(ctx context.Context) error
}

func (m *mockStore) Load(ctx context.Context) (*domain.UserIdentity, error) {
	return m.LoadFunc(ctx)
}

func (m *mockStore) Save(ctx context.Context, identity domain.UserIdentity) error {
	return m.SaveFunc(ctx, identity)
}

func (m *mockStore) Clear(ctx context.Context) error {
	return m.ClearFunc(ctx)
}

var asha = domain.UserIdentity{Name: "Asha", Company: "Mehta Jewellers", Mobile: "9800000000"}

func newGate(r Redeemer, kv kvstore.Store, opts ...Option) *Gate {
	return NewGate(r, NewIdentityStore(kv), zap.NewNop(), opts...)
}

func TestSubmit_Success(t *testing.T) {
	kv := kvstore.NewMemoryStore()
	r := &mockRedeemer{}
	r.RedeemFunc = func(ctx context.Context, code string, identity domain.UserIdentity) (*domain.RedemptionResult, error) {
		assert.Equal(t, validCode, code)
		assert.Equal(t, asha, identity)
		return &domain.RedemptionResult{Status: domain.RedemptionSuccess}, nil
	}
	g := newGate(r, kv)

	padded := domain.UserIdentity{Name: "  Asha ", Company: "Mehta Jewellers\t", Mobile: " 9800000000"}
	got, err := g.Submit(context.Background(), padded, " fvc-7k9d-23lm-8qwz ")

	require.NoError(t, err)
	assert.Equal(t, asha, *got)
	assert.Equal(t, Activated, g.State())
	assert.Equal(t, 1, r.calls)

	stored, err := NewIdentityStore(kv).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, asha, *stored)
}

func TestSubmit_MissingFieldsNeverCallRegistry(t *testing.T) {
	tests := []struct {
		name     string
		identity domain.UserIdentity
		code     string
	}{
		{"no name", domain.UserIdentity{Company: "c", Mobile: "m"}, validCode},
		{"blank company", domain.UserIdentity{Name: "n", Company: "   ", Mobile: "m"}, validCode},
		{"no mobile", domain.UserIdentity{Name: "n", Company: "c"}, validCode},
		{"no code", asha, "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := succeeding()
			g := newGate(r, kvstore.NewMemoryStore())

			_, err := g.Submit(context.Background(), tt.identity, tt.code)

			re, ok := IsRejectionError(err)
			require.True(t, ok)
			assert.Equal(t, ReasonIncomplete, re.Reason)
			assert.Equal(t, MsgIncomplete, re.Message)
			assert.Zero(t, r.calls)
			assert.Equal(t, Unverified, g.State())
		})
	}
}

func TestSubmit_NotConfigured(t *testing.T) {
	g := NewGate(nil, NewIdentityStore(kvstore.NewMemoryStore()), zap.NewNop())

	_, err := g.Submit(context.Background(), asha, validCode)

	re, ok := IsRejectionError(err)
	require.True(t, ok)
	assert.Equal(t, ReasonNotConfigured, re.Reason)
	assert.Equal(t, MsgNotConfigured, err.Error())
}

func TestSubmit_AcceptsEveryKnownCode(t *testing.T) {
	for code := range knownCodes {
		require.True(t, KnownCode(code))

		r := succeeding()
		g := newGate(r, kvstore.NewMemoryStore())
		_, err := g.Submit(context.Background(), asha, strings.ToLower(code))

		require.NoError(t, err, code)
		assert.Equal(t, 1, r.calls, code)
	}
}

func TestSubmit_UnknownCodeNeverCallsRegistry(t *testing.T) {
	r := succeeding()
	g := newGate(r, kvstore.NewMemoryStore())

	_, err := g.Submit(context.Background(), asha, "FVC-0000-0000-0000")

	re, ok := IsRejectionError(err)
	require.True(t, ok)
	assert.Equal(t, ReasonUnknownCode, re.Reason)
	assert.Equal(t, MsgUnknownCode, re.Message)
	assert.Zero(t, r.calls)
	assert.Same(t, re, g.LastRejection())
}

func TestSubmit_RegistryRefusal(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"message surfaced verbatim", "This activation code has already been used.", "This activation code has already been used."},
		{"empty message falls back", "", MsgRefused},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := kvstore.NewMemoryStore()
			r := &mockRedeemer{
				RedeemFunc: func(ctx context.Context, code string, identity domain.UserIdentity) (*domain.RedemptionResult, error) {
					return &domain.RedemptionResult{Status: domain.RedemptionError, Message: tt.message}, nil
				},
			}
			g := newGate(r, kv)

			_, err := g.Submit(context.Background(), asha, validCode)

			re, ok := IsRejectionError(err)
			require.True(t, ok)
			assert.Equal(t, ReasonRefused, re.Reason)
			assert.Equal(t, tt.want, re.Message)
			assert.Equal(t, Unverified, g.State())
			assert.Nil(t, g.Identity())

			_, err = kv.Get(context.Background(), IdentityKey)
			assert.Error(t, err)
		})
	}
}

func TestSubmit_Timeout(t *testing.T) {
	r := &mockRedeemer{
		RedeemFunc: func(ctx context.Context, code string, identity domain.UserIdentity) (*domain.RedemptionResult, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	g := newGate(r, kvstore.NewMemoryStore(), WithTimeout(20*time.Millisecond))

	_, err := g.Submit(context.Background(), asha, validCode)

	re, ok := IsRejectionError(err)
	require.True(t, ok)
	assert.Equal(t, ReasonTimeout, re.Reason)
	assert.Equal(t, MsgTimeout, re.Message)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSubmit_TransportFailure(t *testing.T) {
	r := &mockRedeemer{
		RedeemFunc: func(ctx context.Context, code string, identity domain.UserIdentity) (*domain.RedemptionResult, error) {
			return nil, errors.New("connection refused")
		},
	}
	g := newGate(r, kvstore.NewMemoryStore())

	_, err := g.Submit(context.Background(), asha, validCode)

	re, ok := IsRejectionError(err)
	require.True(t, ok)
	assert.Equal(t, ReasonUnreachable, re.Reason)
	assert.Equal(t, MsgUnreachable, re.Message)
	assert.Equal(t, 1, r.calls)
}

func TestSubmit_RejectionThenRetrySucceeds(t *testing.T) {
	r := succeeding()
	g := newGate(r, kvstore.NewMemoryStore())

	_, err := g.Submit(context.Background(), asha, "FVC-0000-0000-0000")
	require.Error(t, err)
	require.NotNil(t, g.LastRejection())

	_, err = g.Submit(context.Background(), asha, validCode)
	require.NoError(t, err)
	assert.Nil(t, g.LastRejection())
	assert.True(t, g.Activated())
}

func TestSubmit_PersistFailureStillActivatesSession(t *testing.T) {
	store := &mockStore{
		SaveFunc: func(ctx context.Context, identity domain.UserIdentity) error {
			return errors.New("disk full")
		},
	}
	g := NewGate(succeeding(), store, zap.NewNop())

	_, err := g.Submit(context.Background(), asha, validCode)

	require.NoError(t, err)
	assert.True(t, g.Activated())
}

func TestSubmit_TransitionsAreObservable(t *testing.T) {
	var seen []State
	hook := func(from, to State) { seen = append(seen, to) }

	g := newGate(succeeding(), kvstore.NewMemoryStore(), WithTransitionHook(hook))
	_, err := g.Submit(context.Background(), asha, validCode)
	require.NoError(t, err)
	assert.Equal(t, []State{CheckingFormat, RedeemingRemote, Activated}, seen)

	seen = nil
	g2 := newGate(succeeding(), kvstore.NewMemoryStore(), WithTransitionHook(hook))
	_, err = g2.Submit(context.Background(), asha, "nope")
	require.Error(t, err)
	assert.Equal(t, []State{CheckingFormat, Unverified}, seen)
}

func TestRestore(t *testing.T) {
	ctx := context.Background()

	t.Run("nothing stored", func(t *testing.T) {
		g := newGate(nil, kvstore.NewMemoryStore())
		id, err := g.Restore(ctx)
		require.NoError(t, err)
		assert.Nil(t, id)
		assert.Equal(t, Unverified, g.State())
	})

	t.Run("complete identity", func(t *testing.T) {
		kv := kvstore.NewMemoryStore()
		require.NoError(t, NewIdentityStore(kv).Save(ctx, asha))
		g := newGate(nil, kv)

		id, err := g.Restore(ctx)
		require.NoError(t, err)
		assert.Equal(t, asha, *id)
		assert.True(t, g.Activated())
	})

	t.Run("incomplete identity", func(t *testing.T) {
		kv := kvstore.NewMemoryStore()
		require.NoError(t, kv.Set(ctx, IdentityKey, `{"name":"Asha","company":"","mobile":"1"}`))
		g := newGate(nil, kv)

		id, err := g.Restore(ctx)
		require.NoError(t, err)
		assert.Nil(t, id)
		assert.False(t, g.Activated())
	})

	t.Run("undecodable value is cleared", func(t *testing.T) {
		kv := kvstore.NewMemoryStore()
		require.NoError(t, kv.Set(ctx, IdentityKey, `{not json`))
		g := newGate(nil, kv)

		id, err := g.Restore(ctx)
		require.NoError(t, err)
		assert.Nil(t, id)

		_, err = kv.Get(ctx, IdentityKey)
		assert.Error(t, err)
	})

	t.Run("null value is cleared", func(t *testing.T) {
		kv := kvstore.NewMemoryStore()
		require.NoError(t, kv.Set(ctx, IdentityKey, `null`))
		g := newGate(nil, kv)

		id, err := g.Restore(ctx)
		require.NoError(t, err)
		assert.Nil(t, id)
		assert.False(t, g.Activated())

		_, err = kv.Get(ctx, IdentityKey)
		_, ok := apperrors.IsNotFoundError(err)
		assert.True(t, ok, "key should be removed, got %v", err)
	})

	t.Run("store failure is returned", func(t *testing.T) {
		store := &mockStore{
			LoadFunc: func(ctx context.Context) (*domain.UserIdentity, error) {
				return nil, errors.New("locked")
			},
		}
		g := NewGate(nil, store, zap.NewNop())

		_, err := g.Restore(ctx)
		assert.Error(t, err)
	})
}

func TestDeactivate(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()
	g := newGate(succeeding(), kv)
	_, err := g.Submit(ctx, asha, validCode)
	require.NoError(t, err)

	require.NoError(t, g.Deactivate(ctx))

	assert.Equal(t, Unverified, g.State())
	assert.Nil(t, g.Identity())
	id, err := newGate(nil, kv).Restore(ctx)
	require.NoError(t, err)
	assert.Nil(t, id)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"ordercard/internal/domain"
	apperrors "ordercard/internal/errors"
)

type mockRedemptionRepository struct {
	FindByCodeFunc func(ctx context.Context, code string) (*domain.Redemption, error)
	InsertFunc     func(ctx context.Context, red domain.Redemption) (uint, error)
}

func (m *mockRedemptionRepository) FindByCode(ctx context.Context, code string) (*domain.Redemption, error) {
	return m.FindByCodeFunc(ctx, code)
}

func (m *mockRedemptionRepository) Insert(ctx context.Context, red domain.Redemption) (uint, error) {
	return m.InsertFunc(ctx, red)
}

// memoryRepository behaves like the MySQL table but without the unique
// index, so only the service lock prevents double redemption.
type memoryRepository struct {
	mu   sync.Mutex
	rows []domain.Redemption
}

func (m *memoryRepository) FindByCode(ctx context.Context, code string) (*domain.Redemption, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.Code == code {
			r := r
			return &r, nil
		}
	}
	return nil, apperrors.NewNotFoundError("not found")
}

func (m *memoryRepository) Insert(ctx context.Context, red domain.Redemption) (uint, error) {
	// widen the window between lookup and insert
	time.Sleep(time.Millisecond)
	m.mu.Lock()
	defer m.mu.Unlock()
	red.ID = uint(len(m.rows) + 1)
	m.rows = append(m.rows, red)
	return red.ID, nil
}

var asha = domain.UserIdentity{Name: "Asha", Company: "Mehta Jewellers", Mobile: "9800000000"}

func TestRecord_NewCode(t *testing.T) {
	var inserted domain.Redemption
	repo := &mockRedemptionRepository{
		FindByCodeFunc: func(ctx context.Context, code string) (*domain.Redemption, error) {
			return nil, apperrors.NewNotFoundError("not found")
		},
		InsertFunc: func(ctx context.Context, red domain.Redemption) (uint, error) {
			inserted = red
			return 7, nil
		},
	}
	svc := NewRedemptionService(repo, time.Second, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 3, 7, 10, 0, 0, 0, time.UTC) }

	red, err := svc.Record(context.Background(), "FVC-7K9D-23LM-8QWZ", asha)

	require.NoError(t, err)
	assert.Equal(t, uint(7), red.ID)
	assert.Equal(t, "FVC-7K9D-23LM-8QWZ", inserted.Code)
	assert.Equal(t, "Asha", inserted.Name)
	assert.Equal(t, "Mehta Jewellers", inserted.Company)
	assert.Equal(t, "9800000000", inserted.Mobile)
	assert.Equal(t, time.Date(2024, 3, 7, 10, 0, 0, 0, time.UTC), inserted.RedeemedAt)
}

func TestRecord_ExistingCodeIsConflict(t *testing.T) {
	repo := &mockRedemptionRepository{
		FindByCodeFunc: func(ctx context.Context, code string) (*domain.Redemption, error) {
			return &domain.Redemption{ID: 1, Code: code}, nil
		},
		InsertFunc: func(ctx context.Context, red domain.Redemption) (uint, error) {
			t.Fatal("insert must not be called")
			return 0, nil
		},
	}

	_, err := NewRedemptionService(repo, time.Second, zap.NewNop()).Record(context.Background(), "FVC-7K9D-23LM-8QWZ", asha)

	_, ok := apperrors.IsConflictError(err)
	assert.True(t, ok)
}

func TestRecord_DuplicateKeyOnInsertIsConflict(t *testing.T) {
	repo := &mockRedemptionRepository{
		FindByCodeFunc: func(ctx context.Context, code string) (*domain.Redemption, error) {
			return nil, apperrors.NewNotFoundError("not found")
		},
		InsertFunc: func(ctx context.Context, red domain.Redemption) (uint, error) {
			return 0, apperrors.NewConflictError("duplicate")
		},
	}

	_, err := NewRedemptionService(repo, time.Second, zap.NewNop()).Record(context.Background(), "FVC-7K9D-23LM-8QWZ", asha)

	_, ok := apperrors.IsConflictError(err)
	assert.True(t, ok)
}

func TestRecord_LookupFailure(t *testing.T) {
	dbErr := errors.New("connection reset")
	repo := &mockRedemptionRepository{
		FindByCodeFunc: func(ctx context.Context, code string) (*domain.Redemption, error) {
			return nil, dbErr
		},
	}

	_, err := NewRedemptionService(repo, time.Second, zap.NewNop()).Record(context.Background(), "FVC-7K9D-23LM-8QWZ", asha)

	assert.ErrorIs(t, err, dbErr)
}

func TestRecord_LockWaitIsBounded(t *testing.T) {
	defer goleak.VerifyNone(t)

	entered := make(chan struct{})
	release := make(chan struct{})
	repo := &mockRedemptionRepository{
		FindByCodeFunc: func(ctx context.Context, code string) (*domain.Redemption, error) {
			if code == "SLOW" {
				close(entered)
				<-release
			}
			return nil, apperrors.NewNotFoundError("not found")
		},
		InsertFunc: func(ctx context.Context, red domain.Redemption) (uint, error) {
			return 1, nil
		},
	}
	svc := NewRedemptionService(repo, 30*time.Millisecond, zap.NewNop())

	done := make(chan error, 1)
	go func() {
		_, err := svc.Record(context.Background(), "SLOW", asha)
		done <- err
	}()
	<-entered

	_, err := svc.Record(context.Background(), "FAST", asha)
	ie, ok := apperrors.IsInternalError(err)
	require.True(t, ok, "expected InternalError, got %v", err)
	assert.ErrorIs(t, ie, context.DeadlineExceeded)

	close(release)
	require.NoError(t, <-done)
}

func TestRecord_ConcurrentRedemptionsOfOneCode(t *testing.T) {
	defer goleak.VerifyNone(t)

	repo := &memoryRepository{}
	svc := NewRedemptionService(repo, 5*time.Second, zap.NewNop())

	const callers = 16
	var wg sync.WaitGroup
	results := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := asha
			id.Name = fmt.Sprintf("caller-%d", i)
			_, err := svc.Record(context.Background(), "FVC-7K9D-23LM-8QWZ", id)
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	successes, conflicts := 0, 0
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		if _, ok := apperrors.IsConflictError(err); ok {
			conflicts++
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, callers-1, conflicts)
	assert.Len(t, repo.rows, 1)
}

package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"ordercard/internal/domain"
	apperrors "ordercard/internal/errors"
)

type RedemptionRepository interface {
	FindByCode(ctx context.Context, code string) (*domain.Redemption, error)
	Insert(ctx context.Context, red domain.Redemption) (uint, error)
}

// RedemptionService is the serialization point of the registry: the lookup
// and the insert for one code never interleave with another request's.
type RedemptionService struct {
	repo        RedemptionRepository
	lock        *semaphore.Weighted
	lockTimeout time.Duration
	now         func() time.Time
	logger      *zap.Logger
}

func NewRedemptionService(
	repo RedemptionRepository,
	lockTimeout time.Duration,
	logger *zap.Logger,
) *RedemptionService {
	return &RedemptionService{
		repo:        repo,
		lock:        semaphore.NewWeighted(1),
		lockTimeout: lockTimeout,
		now:         time.Now,
		logger:      logger,
	}
}

// Record consumes code for identity. A code that was already consumed yields
// a ConflictError.
func (s *RedemptionService) Record(ctx context.Context, code string, identity domain.UserIdentity) (*domain.Redemption, error) {
	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	if err := s.lock.Acquire(lockCtx, 1); err != nil {
		s.logger.Error("failed to acquire registry lock", zap.Duration("timeout", s.lockTimeout), zap.Error(err))
		return nil, apperrors.NewInternalError("timed out waiting for registry lock", err)
	}
	defer s.lock.Release(1)

	existing, err := s.repo.FindByCode(ctx, code)
	if err == nil {
		s.logger.Warn("code already redeemed", zap.String("code", code), zap.Uint("redemptionId", existing.ID))
		return nil, apperrors.NewConflictError(fmt.Sprintf("code %s already redeemed", code))
	}
	if _, ok := apperrors.IsNotFoundError(err); !ok {
		s.logger.Error("failed to look up code", zap.String("code", code), zap.Error(err))
		return nil, err
	}

	red := domain.Redemption{
		Code:       code,
		Name:       identity.Name,
		Company:    identity.Company,
		Mobile:     identity.Mobile,
		RedeemedAt: s.now().UTC(),
	}

	id, err := s.repo.Insert(ctx, red)
	if err != nil {
		if _, ok := apperrors.IsConflictError(err); ok {
			s.logger.Warn("code redeemed concurrently by another instance", zap.String("code", code))
		} else {
			s.logger.Error("failed to insert redemption", zap.String("code", code), zap.Error(err))
		}
		return nil, err
	}
	red.ID = id

	s.logger.Info("redemption recorded", zap.String("code", code), zap.Uint("redemptionId", id), zap.String("company", identity.Company))
	return &red, nil
}

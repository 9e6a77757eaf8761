package usecase

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"ordercard/internal/domain"
	apperrors "ordercard/internal/errors"
)

const (
	MsgActivated      = "Activation successful."
	MsgAlreadyUsed    = "This activation code has already been used."
	msgUnexpectedFmt  = "An unexpected server error occurred: "
	msgCodeIsRequired = "code is required"
)

type RedemptionRecorder interface {
	Record(ctx context.Context, code string, identity domain.UserIdentity) (*domain.Redemption, error)
}

type Notifier interface {
	Notify(ctx context.Context, red domain.Redemption) error
}

// RedeemUseCase turns one redeem request into the registry's verdict. Every
// outcome, failures included, is a RedemptionResult; it never returns an
// error, so it can stand in for the client's HTTP redeemer.
type RedeemUseCase struct {
	recorder         RedemptionRecorder
	notifier         Notifier
	logger           *zap.Logger
	maxRetryAttempts int
}

func NewRedeemUseCase(
	recorder RedemptionRecorder,
	notifier Notifier,
	logger *zap.Logger,
	maxRetryAttempts int,
) *RedeemUseCase {
	if maxRetryAttempts < 1 {
		maxRetryAttempts = 1
	}
	return &RedeemUseCase{
		recorder:         recorder,
		notifier:         notifier,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
	}
}

func (uc *RedeemUseCase) Redeem(ctx context.Context, code string, identity domain.UserIdentity) (*domain.RedemptionResult, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	uc.logger.Info("redeem started", zap.String("code", code), zap.String("company", identity.Company))

	if code == "" {
		return failure(msgUnexpectedFmt + msgCodeIsRequired), nil
	}

	red, err := uc.recordWithRetry(ctx, code, identity)
	if err != nil {
		if _, ok := apperrors.IsConflictError(err); ok {
			return failure(MsgAlreadyUsed), nil
		}
		uc.logger.Error("redeem failed", zap.String("code", code), zap.Error(err))
		return failure(msgUnexpectedFmt + err.Error()), nil
	}

	if uc.notifier != nil {
		if err := uc.notifier.Notify(ctx, *red); err != nil {
			uc.logger.Error("failed to send activation notice", zap.String("code", code), zap.Error(err))
		}
	}

	return &domain.RedemptionResult{Status: domain.RedemptionSuccess, Message: MsgActivated}, nil
}

func failure(message string) *domain.RedemptionResult {
	return &domain.RedemptionResult{Status: domain.RedemptionError, Message: message}
}

func (uc *RedeemUseCase) recordWithRetry(ctx context.Context, code string, identity domain.UserIdentity) (*domain.Redemption, error) {
	// Backoff before attempt 2 (100ms), attempt 3 and later (200ms).
	backoffs := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}

	for attempt := 1; attempt <= uc.maxRetryAttempts; attempt++ {
		red, err := uc.recorder.Record(ctx, code, identity)
		if err == nil {
			return red, nil
		}
		if !isDeadlockError(err) {
			return nil, err
		}
		if attempt == uc.maxRetryAttempts {
			break
		}

		base := backoffs[min(attempt-1, len(backoffs)-1)]
		// ±20% jitter
		wait := time.Duration(float64(base) * (0.8 + rand.Float64()*0.4))
		uc.logger.Warn("deadlock detected, retrying", zap.Int("attempt", attempt), zap.Int("maxAttempts", uc.maxRetryAttempts), zap.String("code", code))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}

	return nil, apperrors.NewDeadlockError("max retries exceeded")
}

func isDeadlockError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
	}
	return false
}

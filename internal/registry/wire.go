package registry

import (
	"database/sql"

	"go.uber.org/zap"

	"ordercard/internal/config"
	"ordercard/internal/registry/controller"
	"ordercard/internal/registry/notifier"
	"ordercard/internal/registry/repository"
	"ordercard/internal/registry/service"
	"ordercard/internal/registry/usecase"
)

// NewUseCase assembles the redemption pipeline over db. The result also
// satisfies the client's Redeemer interface.
func NewUseCase(db *sql.DB, cfg *config.Config, logger *zap.Logger) *usecase.RedeemUseCase {
	redemptionRepo := repository.NewMySQLRedemptionRepository(db)

	redemptionSvc := service.NewRedemptionService(
		redemptionRepo,
		cfg.Server.LockTimeout,
		logger,
	)

	return usecase.NewRedeemUseCase(
		redemptionSvc,
		notifier.New(cfg.Notification, logger),
		logger,
		cfg.Server.MaxRetryAttempts,
	)
}

func NewModule(db *sql.DB, cfg *config.Config, logger *zap.Logger) *controller.RedeemController {
	return controller.NewRedeemController(NewUseCase(db, cfg, logger), logger)
}

package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ordercard/internal/domain"
	"ordercard/internal/dto"
)

const maxBodyBytes = 64 << 10

type RedeemUseCase interface {
	Redeem(ctx context.Context, code string, identity domain.UserIdentity) (*domain.RedemptionResult, error)
}

type RedeemController struct {
	useCase RedeemUseCase
	logger  *zap.Logger
}

func NewRedeemController(useCase RedeemUseCase, logger *zap.Logger) *RedeemController {
	return &RedeemController{
		useCase: useCase,
		logger:  logger,
	}
}

// Redeem answers every request with HTTP 200; the body's status field
// carries the verdict. The body is parsed as JSON whatever its content type.
func (c *RedeemController) Redeem(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))
	w.Header().Set("X-Trace-Id", traceID)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		logger.Warn("failed to read body", zap.Error(err))
		c.writeResult(w, unexpected(fmt.Errorf("reading request body: %w", err)))
		return
	}

	var req dto.RedeemRequest
	if err := json.Unmarshal(body, &req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeResult(w, unexpected(fmt.Errorf("invalid request body: %w", err)))
		return
	}

	identity := domain.UserIdentity{
		Name:    req.Name,
		Company: req.Company,
		Mobile:  req.Mobile,
	}

	result, err := c.useCase.Redeem(r.Context(), req.Code, identity)
	if err != nil {
		logger.Error("unexpected error", zap.Error(err))
		c.writeResult(w, unexpected(err))
		return
	}

	logger.Info("redeem handled", zap.String("status", string(result.Status)))
	c.writeResult(w, result)
}

func (c *RedeemController) Health(w http.ResponseWriter, r *http.Request) {
	c.writeJSON(w, http.StatusOK, dto.HealthResponse{Status: "ok"})
}

func unexpected(err error) *domain.RedemptionResult {
	return &domain.RedemptionResult{
		Status:  domain.RedemptionError,
		Message: "An unexpected server error occurred: " + err.Error(),
	}
}

func (c *RedeemController) writeResult(w http.ResponseWriter, result *domain.RedemptionResult) {
	c.writeJSON(w, http.StatusOK, dto.RedeemResponse{
		Status:  string(result.Status),
		Message: result.Message,
	})
}

func (c *RedeemController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}

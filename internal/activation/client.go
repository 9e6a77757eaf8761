package activation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"ordercard/internal/domain"
	"ordercard/internal/dto"
)

// RegistryClient redeems codes against the registry's HTTP endpoint.
type RegistryClient struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewRegistryClient builds a client for url. The caller's context bounds each
// call; client may be nil to use a plain http.Client, which follows redirects.
func NewRegistryClient(url string, client *http.Client, logger *zap.Logger) *RegistryClient {
	if client == nil {
		client = &http.Client{}
	}
	return &RegistryClient{
		url:    url,
		client: client,
		logger: logger,
	}
}

func (c *RegistryClient) Redeem(ctx context.Context, code string, identity domain.UserIdentity) (*domain.RedemptionResult, error) {
	body, err := json.Marshal(dto.RedeemRequest{
		Code:    code,
		Name:    identity.Name,
		Company: identity.Company,
		Mobile:  identity.Mobile,
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	// The registry parses the body as JSON whatever the content type.
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	var res dto.RedeemResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}

	c.logger.Debug("registry responded",
		zap.Int("httpStatus", resp.StatusCode),
		zap.String("status", res.Status),
	)

	return &domain.RedemptionResult{
		Status:  domain.RedemptionStatus(res.Status),
		Message: res.Message,
	}, nil
}

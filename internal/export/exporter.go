// Package export turns an order card into a JPEG and delivers it, either
// through a share hand-off or as a file in the download directory.
package export

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ordercard/internal/card"
	"ordercard/internal/dataurl"
	"ordercard/internal/domain"
	apperrors "ordercard/internal/errors"
)

// Notice is the only thing the user is told when an export fails.
const Notice = "Failed to save or share image. Please try again."

// Error is a rasterization or delivery failure.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return Notice
}

func (e *Error) Unwrap() error {
	return e.Err
}

func IsError(err error) (*Error, bool) {
	var ee *Error
	if errors.As(err, &ee) {
		return ee, true
	}
	return nil, false
}

type Exporter struct {
	rasterizer Rasterizer
	background string
	newNonce   func() string
	logger     *zap.Logger
}

func NewExporter(rasterizer Rasterizer, background string, logger *zap.Logger) *Exporter {
	return &Exporter{
		rasterizer: rasterizer,
		background: background,
		newNonce:   uuid.NewString,
		logger:     logger,
	}
}

// CheckExportable reports whether the card for mode may be exported: the
// party card needs a party name and the workshop card an order-to name.
func CheckExportable(order domain.Order, mode card.ViewMode) error {
	switch mode {
	case card.ModeParty:
		if strings.TrimSpace(order.Party) == "" {
			return apperrors.NewValidationError("party name is required to export the party card",
				apperrors.ValidationDetail{Field: "party", Message: "must not be empty"})
		}
	case card.ModeWorkshop:
		if strings.TrimSpace(order.OrderTo) == "" {
			return apperrors.NewValidationError("order-to name is required to export the workshop card",
				apperrors.ValidationDetail{Field: "orderTo", Message: "must not be empty"})
		}
	default:
		return apperrors.NewValidationError(fmt.Sprintf("the %s card cannot be exported", mode),
			apperrors.ValidationDetail{Field: "mode", Message: "must be party or workshop"})
	}
	return nil
}

// Export renders and rasterizes the card, returning it as a JPEG data URI.
func (e *Exporter) Export(ctx context.Context, order domain.Order, mode card.ViewMode, company string) (string, error) {
	if err := CheckExportable(order, mode); err != nil {
		return "", err
	}

	nonce := e.newNonce()
	logger := e.logger.With(zap.String("exportId", nonce), zap.String("mode", string(mode)))

	c := card.Render(order, mode, company)
	doc, err := card.HTML(c, card.HTMLOptions{Background: e.background, Nonce: nonce})
	if err != nil {
		logger.Error("rendering card document failed", zap.Error(err))
		return "", &Error{Op: "render", Err: err}
	}

	img, err := e.rasterizer.Rasterize(ctx, doc)
	if err != nil {
		logger.Error("rasterizing card failed", zap.Error(err))
		return "", &Error{Op: "rasterize", Err: err}
	}

	logger.Info("card exported", zap.Int("bytes", len(img)))
	return dataurl.EncodeAs("image/jpeg", img), nil
}

// Filename names the exported file after the receiving side of the card.
func Filename(order domain.Order, mode card.ViewMode) string {
	var name string
	switch mode {
	case card.ModeWorkshop:
		name = order.OrderTo
		if name == "" {
			name = "workshop"
		}
	default:
		name = order.Party
		if name == "" {
			name = "party"
		}
	}
	return sanitize(name) + "_order_" + sanitize(order.OrderDate) + ".jpg"
}

// ShareText is the message that accompanies a shared card.
func ShareText(order domain.Order, mode card.ViewMode) string {
	name := order.Party
	if mode == card.ModeWorkshop {
		name = order.OrderTo
	}
	return "Order details for " + name
}

var pathSeparators = strings.NewReplacer("/", "-", "\\", "-")

func sanitize(s string) string {
	return pathSeparators.Replace(s)
}

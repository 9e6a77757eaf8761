package export

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"ordercard/internal/card"
)

// Rasterizer turns a rendered card document into JPEG bytes of the card
// element alone.
type Rasterizer interface {
	Rasterize(ctx context.Context, document []byte) ([]byte, error)
}

// RodRasterizer drives a headless Chromium. Every call gets its own browser
// and incognito page, so nothing is reused between exports.
type RodRasterizer struct {
	bin     string
	quality int
	logger  *zap.Logger
}

// NewRodRasterizer uses the Chromium at bin, or lets rod locate or download
// one when bin is empty.
func NewRodRasterizer(bin string, quality int, logger *zap.Logger) *RodRasterizer {
	return &RodRasterizer{
		bin:     bin,
		quality: quality,
		logger:  logger,
	}
}

func (r *RodRasterizer) Rasterize(ctx context.Context, document []byte) ([]byte, error) {
	l := launcher.New().Context(ctx).Headless(true)
	if r.bin != "" {
		l = l.Bin(r.bin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chrome: %w", err)
	}
	defer l.Kill()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}
	defer func() {
		if err := browser.Close(); err != nil {
			r.logger.Debug("closing browser", zap.Error(err))
		}
	}()

	incognito, err := browser.Incognito()
	if err != nil {
		return nil, fmt.Errorf("incognito context: %w", err)
	}

	page, err := incognito.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             480,
		Height:            900,
		DeviceScaleFactor: 2,
	}).Call(page); err != nil {
		r.logger.Warn("failed to set viewport", zap.Error(err))
	}

	if err := page.SetDocumentContent(string(document)); err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait for document: %w", err)
	}

	el, err := page.Element("#" + card.ElementID)
	if err != nil {
		return nil, fmt.Errorf("find card element: %w", err)
	}

	img, err := el.Screenshot(proto.PageCaptureScreenshotFormatJpeg, r.quality)
	if err != nil {
		return nil, fmt.Errorf("screenshot card: %w", err)
	}

	r.logger.Debug("card rasterized", zap.Int("bytes", len(img)))
	return img, nil
}

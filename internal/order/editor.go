package order

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"ordercard/internal/dataurl"
	"ordercard/internal/domain"
	apperrors "ordercard/internal/errors"
)

const ErrTooManyImages = "You can upload a maximum of 3 images."

// Fields lists the editable field names in form order.
var Fields = []string{
	"party", "orderTo", "design", "size", "factoryDesignNo",
	"goldWt", "goldKt", "goldColour",
	"diaWt", "diaQuality", "goldPrice", "diaPrice",
	"orderDate", "deliveryDate", "comments",
}

// Editor owns the session's single order. It is not safe for concurrent use;
// the interactive editor drives it from one goroutine.
type Editor struct {
	order  domain.Order
	clock  func() time.Time
	logger *zap.Logger
}

func NewEditor(clock func() time.Time, logger *zap.Logger) *Editor {
	if clock == nil {
		clock = time.Now
	}
	return &Editor{
		order:  domain.NewOrder(clock()),
		clock:  clock,
		logger: logger,
	}
}

// Order returns a snapshot; mutating it does not affect the editor.
func (e *Editor) Order() domain.Order {
	return e.order.Clone()
}

// Get returns the current value of a field by wire name.
func (e *Editor) Get(name string) (string, error) {
	p, err := e.field(name)
	if err != nil {
		return "", err
	}
	return *p, nil
}

// SetField assigns value to the field named by its wire name.
func (e *Editor) SetField(name, value string) error {
	switch name {
	case "goldKt":
		k := domain.GoldKarat(value)
		if !k.Valid() {
			return fieldError(name, "gold karat must be one of 9, 14, 18, 20, 22")
		}
		e.order.GoldKt = k
		return nil
	case "goldColour":
		c := domain.GoldColour(value)
		if !c.Valid() {
			return fieldError(name, "gold colour must be one of Yellow, Rose, White, Yellow-White, Rose-White, Yellow-Rose")
		}
		e.order.GoldColour = c
		return nil
	case "diaWt", "goldPrice", "diaPrice":
		if value != "" {
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				return fieldError(name, "must be a number")
			}
		}
	case "orderDate", "deliveryDate":
		if value != "" {
			if _, err := time.Parse(domain.DateLayout, value); err != nil {
				return fieldError(name, "must be a date in YYYY-MM-DD form")
			}
		}
	}

	p, err := e.field(name)
	if err != nil {
		return err
	}
	*p = value
	return nil
}

func (e *Editor) field(name string) (*string, error) {
	o := &e.order
	switch name {
	case "party":
		return &o.Party, nil
	case "orderTo":
		return &o.OrderTo, nil
	case "design":
		return &o.Design, nil
	case "factoryDesignNo":
		return &o.FactoryDesignNo, nil
	case "goldWt":
		return &o.GoldWt, nil
	case "goldKt":
		return (*string)(&o.GoldKt), nil
	case "goldColour":
		return (*string)(&o.GoldColour), nil
	case "diaWt":
		return &o.DiaWt, nil
	case "diaQuality":
		return &o.DiaQuality, nil
	case "goldPrice":
		return &o.GoldPrice, nil
	case "diaPrice":
		return &o.DiaPrice, nil
	case "size":
		return &o.Size, nil
	case "orderDate":
		return &o.OrderDate, nil
	case "deliveryDate":
		return &o.DeliveryDate, nil
	case "comments":
		return &o.Comments, nil
	}
	return nil, fieldError(name, "unknown field")
}

// AddImages appends encoded images. The call is all-or-nothing: when the
// result would exceed domain.MaxImages, nothing is added.
func (e *Editor) AddImages(images ...string) error {
	if len(e.order.Images)+len(images) > domain.MaxImages {
		return apperrors.NewValidationError(ErrTooManyImages, apperrors.ValidationDetail{
			Field:   "images",
			Message: fmt.Sprintf("%d already attached, %d more requested", len(e.order.Images), len(images)),
		})
	}
	for i, img := range images {
		if _, ok := dataurl.Decode(img, ""); !ok || !strings.HasPrefix(img, "data:image/") {
			return apperrors.NewValidationError("invalid image", apperrors.ValidationDetail{
				Field:   fmt.Sprintf("images[%d]", i),
				Message: "must be an inline-encoded image",
			})
		}
	}

	e.order.Images = append(e.order.Images, images...)
	return nil
}

// AddImageFiles reads and encodes the files at paths, then attaches them.
func (e *Editor) AddImageFiles(paths ...string) error {
	if len(e.order.Images)+len(paths) > domain.MaxImages {
		return apperrors.NewValidationError(ErrTooManyImages)
	}

	encoded := make([]string, 0, len(paths))
	for _, p := range paths {
		img, err := dataurl.FromImageFile(p)
		if err != nil {
			return apperrors.NewValidationError(err.Error(), apperrors.ValidationDetail{
				Field:   "images",
				Message: "could not read image",
			})
		}
		encoded = append(encoded, img)
	}
	return e.AddImages(encoded...)
}

func (e *Editor) RemoveImage(index int) error {
	if index < 0 || index >= len(e.order.Images) {
		return apperrors.NewValidationError(fmt.Sprintf("no image at position %d", index+1))
	}
	images := make([]string, 0, len(e.order.Images)-1)
	images = append(images, e.order.Images[:index]...)
	images = append(images, e.order.Images[index+1:]...)
	e.order.Images = images
	return nil
}

// Reset discards the order and starts a fresh default one.
func (e *Editor) Reset() {
	e.order = domain.NewOrder(e.clock())
	if e.logger != nil {
		e.logger.Debug("order reset", zap.String("orderDate", e.order.OrderDate))
	}
}

func fieldError(name, msg string) error {
	return apperrors.NewValidationError(fmt.Sprintf("%s: %s", name, msg), apperrors.ValidationDetail{
		Field:   name,
		Message: msg,
	})
}

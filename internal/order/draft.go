package order

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// Draft is the on-disk form of an order used as command input. Photos are
// file paths, resolved relative to the draft file.
type Draft struct {
	Party           string   `yaml:"party"`
	OrderTo         string   `yaml:"orderTo"`
	Design          string   `yaml:"design"`
	FactoryDesignNo string   `yaml:"factoryDesignNo"`
	GoldWt          string   `yaml:"goldWt"`
	GoldKt          string   `yaml:"goldKt"`
	GoldColour      string   `yaml:"goldColour"`
	DiaWt           string   `yaml:"diaWt"`
	DiaQuality      string   `yaml:"diaQuality"`
	DiaPrice        string   `yaml:"diaPrice"`
	GoldPrice       string   `yaml:"goldPrice"`
	Size            string   `yaml:"size"`
	OrderDate       string   `yaml:"orderDate"`
	DeliveryDate    string   `yaml:"deliveryDate"`
	Comments        string   `yaml:"comments"`
	Photos          []string `yaml:"photos"`
}

func ReadDraft(path string) (*Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading draft: %w", err)
	}

	var d Draft
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing draft: %w", err)
	}

	base := filepath.Dir(path)
	for i, p := range d.Photos {
		if !filepath.IsAbs(p) {
			d.Photos[i] = filepath.Join(base, p)
		}
	}
	return &d, nil
}

// LoadDraft resets the editor and applies the draft at path through the
// normal field rules. Keys left out of the draft keep their defaults.
func (e *Editor) LoadDraft(path string) error {
	d, err := ReadDraft(path)
	if err != nil {
		return err
	}

	e.Reset()
	values := map[string]string{
		"party":           d.Party,
		"orderTo":         d.OrderTo,
		"design":          d.Design,
		"factoryDesignNo": d.FactoryDesignNo,
		"goldWt":          d.GoldWt,
		"goldKt":          d.GoldKt,
		"goldColour":      d.GoldColour,
		"diaWt":           d.DiaWt,
		"diaQuality":      d.DiaQuality,
		"diaPrice":        d.DiaPrice,
		"goldPrice":       d.GoldPrice,
		"size":            d.Size,
		"orderDate":       d.OrderDate,
		"deliveryDate":    d.DeliveryDate,
		"comments":        d.Comments,
	}
	for _, name := range Fields {
		v := values[name]
		if v == "" {
			continue
		}
		if err := e.SetField(name, v); err != nil {
			return fmt.Errorf("draft %s: %w", path, err)
		}
	}

	if len(d.Photos) > 0 {
		if err := e.AddImageFiles(d.Photos...); err != nil {
			return fmt.Errorf("draft %s: %w", path, err)
		}
	}
	return nil
}

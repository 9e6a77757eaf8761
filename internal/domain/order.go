package domain

import "time"

type GoldKarat string

const (
	Karat9  GoldKarat = "9"
	Karat14 GoldKarat = "14"
	Karat18 GoldKarat = "18"
	Karat20 GoldKarat = "20"
	Karat22 GoldKarat = "22"
)

var GoldKarats = []GoldKarat{Karat9, Karat14, Karat18, Karat20, Karat22}

func (k GoldKarat) Valid() bool {
	for _, v := range GoldKarats {
		if k == v {
			return true
		}
	}
	return false
}

type GoldColour string

const (
	ColourYellow      GoldColour = "Yellow"
	ColourRose        GoldColour = "Rose"
	ColourWhite       GoldColour = "White"
	ColourYellowWhite GoldColour = "Yellow-White"
	ColourRoseWhite   GoldColour = "Rose-White"
	ColourYellowRose  GoldColour = "Yellow-Rose"
)

var GoldColours = []GoldColour{
	ColourYellow, ColourRose, ColourWhite,
	ColourYellowWhite, ColourRoseWhite, ColourYellowRose,
}

func (c GoldColour) Valid() bool {
	for _, v := range GoldColours {
		if c == v {
			return true
		}
	}
	return false
}

// MaxImages bounds Order.Images.
const MaxImages = 3

// DateLayout is the ISO calendar date used for orderDate and deliveryDate.
const DateLayout = "2006-01-02"

// Order is one jewelry fabrication request. It has no identity and is never
// persisted; it lives for one editing session.
type Order struct {
	Party           string     `json:"party" yaml:"party"`
	OrderTo         string     `json:"orderTo" yaml:"orderTo"`
	Design          string     `json:"design" yaml:"design"`
	FactoryDesignNo string     `json:"factoryDesignNo" yaml:"factoryDesignNo"`
	GoldWt          string     `json:"goldWt" yaml:"goldWt"`
	GoldKt          GoldKarat  `json:"goldKt" yaml:"goldKt"`
	GoldColour      GoldColour `json:"goldColour" yaml:"goldColour"`
	DiaWt           string     `json:"diaWt" yaml:"diaWt"`
	DiaQuality      string     `json:"diaQuality" yaml:"diaQuality"`
	DiaPrice        string     `json:"diaPrice" yaml:"diaPrice"`
	GoldPrice       string     `json:"goldPrice" yaml:"goldPrice"`
	Size            string     `json:"size" yaml:"size"`
	OrderDate       string     `json:"orderDate" yaml:"orderDate"`
	DeliveryDate    string     `json:"deliveryDate" yaml:"deliveryDate"`
	Comments        string     `json:"comments" yaml:"comments"`
	Images          []string   `json:"images" yaml:"-"`
}

// NewOrder returns the default order for a fresh session started at now.
func NewOrder(now time.Time) Order {
	return Order{
		GoldKt:     Karat14,
		GoldColour: ColourYellow,
		OrderDate:  now.UTC().Format(DateLayout),
		Images:     []string{},
	}
}

// HasFactoryDesignNo reports whether the internal factory number is set,
// which redacts specs from the workshop card.
func (o Order) HasFactoryDesignNo() bool {
	return o.FactoryDesignNo != ""
}

// Clone returns a copy that shares no image slice with o.
func (o Order) Clone() Order {
	c := o
	c.Images = append([]string(nil), o.Images...)
	if c.Images == nil {
		c.Images = []string{}
	}
	return c
}

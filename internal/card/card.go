// Package card projects an order into one of three order cards. Which fields
// a card carries is decided by the layout table below and nothing else.
package card

import (
	"fmt"
	"strings"

	"ordercard/internal/domain"
)

type ViewMode string

const (
	ModeFull     ViewMode = "full"
	ModeParty    ViewMode = "party"
	ModeWorkshop ViewMode = "workshop"
)

var ViewModes = []ViewMode{ModeFull, ModeParty, ModeWorkshop}

// ParseViewMode accepts the mode names plus "orderTo", the historical name of
// the workshop card.
func ParseViewMode(s string) (ViewMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "full":
		return ModeFull, nil
	case "party", "customer":
		return ModeParty, nil
	case "workshop", "orderto":
		return ModeWorkshop, nil
	}
	return "", fmt.Errorf("unknown view mode %q (want full, party or workshop)", s)
}

type FieldKey string

const (
	FieldParty           FieldKey = "party"
	FieldDesign          FieldKey = "design"
	FieldOrderTo         FieldKey = "orderTo"
	FieldFactoryDesignNo FieldKey = "factoryDesignNo"
	FieldOrderDate       FieldKey = "orderDate"
	FieldDeliveryDate    FieldKey = "deliveryDate"
	FieldGoldWt          FieldKey = "goldWt"
	FieldGoldKt          FieldKey = "goldKt"
	FieldGoldColour      FieldKey = "goldColour"
	FieldDiaWt           FieldKey = "diaWt"
	FieldDiaQuality      FieldKey = "diaQuality"
	FieldSize            FieldKey = "size"
	FieldGoldPrice       FieldKey = "goldPrice"
	FieldDiaPrice        FieldKey = "diaPrice"
	FieldComments        FieldKey = "comments"
)

type Section string

const (
	SectionParties  Section = "parties"
	SectionDates    Section = "dates"
	SectionSpecs    Section = "specs"
	SectionPrices   Section = "prices"
	SectionComments Section = "comments"
)

type Field struct {
	Key        FieldKey
	Label      string
	Value      string
	Section    Section
	Emphasized bool
}

// Card is the visual content of one rendered order card.
type Card struct {
	Title       string
	CompanyName string
	Mode        ViewMode
	Images      []string
	Fields      []Field
}

func (c Card) Field(key FieldKey) (Field, bool) {
	for _, f := range c.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

func (c Card) Has(key FieldKey) bool {
	_, ok := c.Field(key)
	return ok
}

func (c Card) Section(s Section) []Field {
	var out []Field
	for _, f := range c.Fields {
		if f.Section == s {
			out = append(out, f)
		}
	}
	return out
}

type rule int

// An unknown mode maps to the zero rule, so it shows nothing.
const (
	never rule = iota
	always
	ifSet
	// unlessFactoryNo hides the field when the order carries a factory design
	// number; the workshop looks specs up by that number instead.
	unlessFactoryNo
)

type row struct {
	key        FieldKey
	label      string
	section    Section
	emphasized bool
	raw        func(domain.Order) string
	format     func(string) string
	rules      map[ViewMode]rule
}

var layout = []row{
	{FieldParty, "Party", SectionParties, true, func(o domain.Order) string { return o.Party }, nil,
		map[ViewMode]rule{ModeFull: always, ModeParty: always, ModeWorkshop: never}},
	{FieldDesign, "Design No.", SectionParties, false, func(o domain.Order) string { return o.Design }, nil,
		map[ViewMode]rule{ModeFull: always, ModeParty: always, ModeWorkshop: never}},
	{FieldOrderTo, "Order To", SectionParties, true, func(o domain.Order) string { return o.OrderTo }, nil,
		map[ViewMode]rule{ModeFull: always, ModeParty: never, ModeWorkshop: always}},
	{FieldFactoryDesignNo, "Factory No.", SectionParties, false, func(o domain.Order) string { return o.FactoryDesignNo }, nil,
		map[ViewMode]rule{ModeFull: always, ModeParty: never, ModeWorkshop: ifSet}},

	{FieldOrderDate, "Order Date", SectionDates, false, func(o domain.Order) string { return o.OrderDate }, FormatDate,
		map[ViewMode]rule{ModeFull: always, ModeParty: always, ModeWorkshop: always}},
	{FieldDeliveryDate, "Delivery Date", SectionDates, false, func(o domain.Order) string { return o.DeliveryDate }, FormatDate,
		map[ViewMode]rule{ModeFull: always, ModeParty: always, ModeWorkshop: always}},

	{FieldGoldWt, "Gold Wt", SectionSpecs, false, func(o domain.Order) string { return o.GoldWt }, withUnit("gm"),
		map[ViewMode]rule{ModeFull: always, ModeParty: always, ModeWorkshop: unlessFactoryNo}},
	{FieldGoldKt, "Gold Karat", SectionSpecs, false, func(o domain.Order) string { return string(o.GoldKt) }, withUnit("KT"),
		map[ViewMode]rule{ModeFull: always, ModeParty: always, ModeWorkshop: always}},
	{FieldGoldColour, "Gold Colour", SectionSpecs, false, func(o domain.Order) string { return string(o.GoldColour) }, nil,
		map[ViewMode]rule{ModeFull: always, ModeParty: always, ModeWorkshop: always}},
	{FieldDiaWt, "Diamond Wt", SectionSpecs, false, func(o domain.Order) string { return o.DiaWt }, withUnit("ct"),
		map[ViewMode]rule{ModeFull: always, ModeParty: always, ModeWorkshop: unlessFactoryNo}},
	{FieldDiaQuality, "Dia Quality", SectionSpecs, false, func(o domain.Order) string { return o.DiaQuality }, nil,
		map[ViewMode]rule{ModeFull: always, ModeParty: always, ModeWorkshop: unlessFactoryNo}},
	{FieldSize, "Size", SectionSpecs, false, func(o domain.Order) string { return o.Size }, nil,
		map[ViewMode]rule{ModeFull: always, ModeParty: always, ModeWorkshop: always}},

	{FieldGoldPrice, "Gold Price", SectionPrices, false, func(o domain.Order) string { return o.GoldPrice }, FormatPrice,
		map[ViewMode]rule{ModeFull: always, ModeParty: ifSet, ModeWorkshop: never}},
	{FieldDiaPrice, "Diamond Price", SectionPrices, false, func(o domain.Order) string { return o.DiaPrice }, FormatPrice,
		map[ViewMode]rule{ModeFull: always, ModeParty: ifSet, ModeWorkshop: never}},

	{FieldComments, "Comments", SectionComments, false, func(o domain.Order) string { return o.Comments }, nil,
		map[ViewMode]rule{ModeFull: ifSet, ModeParty: ifSet, ModeWorkshop: ifSet}},
}

const Title = "Jewelry Order"

// Render projects order into the card for mode. It has no side effects.
func Render(order domain.Order, mode ViewMode, companyName string) Card {
	c := Card{
		Title:       Title,
		CompanyName: companyName,
		Mode:        mode,
	}
	if len(order.Images) > 0 {
		c.Images = append([]string(nil), order.Images...)
	}

	for _, r := range layout {
		raw := r.raw(order)
		if !r.visible(mode, order, raw) {
			continue
		}
		c.Fields = append(c.Fields, Field{
			Key:        r.key,
			Label:      r.label,
			Value:      r.display(raw),
			Section:    r.section,
			Emphasized: r.emphasized,
		})
	}

	return c
}

func (r row) visible(mode ViewMode, order domain.Order, raw string) bool {
	switch r.rules[mode] {
	case always:
		return true
	case ifSet:
		return raw != ""
	case unlessFactoryNo:
		return !order.HasFactoryDesignNo()
	default:
		return false
	}
}

func (r row) display(raw string) string {
	if r.format != nil {
		return r.format(raw)
	}
	if raw == "" {
		return Placeholder
	}
	return raw
}

func withUnit(unit string) func(string) string {
	return func(v string) string {
		if v == "" {
			return Placeholder
		}
		return v + " " + unit
	}
}

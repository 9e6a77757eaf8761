package card

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordercard/internal/domain"
)

func fullOrder() domain.Order {
	o := domain.NewOrder(time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC))
	o.Party = "Mehta Jewellers"
	o.OrderTo = "Shree Workshop"
	o.Design = "RG-221"
	o.GoldWt = "4-6"
	o.GoldKt = domain.Karat18
	o.GoldColour = domain.ColourRoseWhite
	o.DiaWt = "0.45"
	o.DiaQuality = "VVS G-H"
	o.GoldPrice = "32000"
	o.DiaPrice = "18000"
	o.Size = "7 US"
	o.DeliveryDate = "2024-03-21"
	o.Comments = "Matte finish"
	return o
}

func keys(c Card) []FieldKey {
	out := make([]FieldKey, 0, len(c.Fields))
	for _, f := range c.Fields {
		out = append(out, f.Key)
	}
	return out
}

func TestParseViewMode(t *testing.T) {
	tests := []struct {
		in   string
		want ViewMode
	}{
		{"full", ModeFull},
		{"party", ModeParty},
		{"Workshop", ModeWorkshop},
		{"orderTo", ModeWorkshop},
	}
	for _, tt := range tests {
		got, err := ParseViewMode(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseViewMode("admin")
	assert.Error(t, err)
}

func TestRender_FullShowsEverything(t *testing.T) {
	o := fullOrder()
	o.FactoryDesignNo = "F-9"

	c := Render(o, ModeFull, "Gems & Co")

	want := []FieldKey{
		FieldParty, FieldDesign, FieldOrderTo, FieldFactoryDesignNo,
		FieldOrderDate, FieldDeliveryDate,
		FieldGoldWt, FieldGoldKt, FieldGoldColour, FieldDiaWt, FieldDiaQuality, FieldSize,
		FieldGoldPrice, FieldDiaPrice,
		FieldComments,
	}
	if diff := cmp.Diff(want, keys(c)); diff != "" {
		t.Errorf("full card fields mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, Title, c.Title)
	assert.Equal(t, "Gems & Co", c.CompanyName)
}

func TestRender_FullShowsPlaceholders(t *testing.T) {
	c := Render(domain.Order{}, ModeFull, "")

	f, ok := c.Field(FieldFactoryDesignNo)
	require.True(t, ok)
	assert.Equal(t, Placeholder, f.Value)

	f, ok = c.Field(FieldGoldPrice)
	require.True(t, ok)
	assert.Equal(t, Placeholder, f.Value)

	assert.False(t, c.Has(FieldComments))
	assert.Nil(t, c.Images)
}

func TestRender_PartyHidesWorkshopFields(t *testing.T) {
	o := fullOrder()
	o.FactoryDesignNo = "F-9"

	c := Render(o, ModeParty, "")

	assert.True(t, c.Has(FieldParty))
	assert.True(t, c.Has(FieldDesign))
	assert.False(t, c.Has(FieldOrderTo))
	assert.False(t, c.Has(FieldFactoryDesignNo))
	assert.True(t, c.Has(FieldGoldWt))
	assert.True(t, c.Has(FieldDiaQuality))
}

func TestRender_PartyPricesOnlyWhenSet(t *testing.T) {
	o := fullOrder()
	o.DiaPrice = ""

	c := Render(o, ModeParty, "")

	f, ok := c.Field(FieldGoldPrice)
	require.True(t, ok)
	assert.Equal(t, "₹32000", f.Value)
	assert.False(t, c.Has(FieldDiaPrice))
}

func TestRender_WorkshopNeverShowsPrices(t *testing.T) {
	for _, factoryNo := range []string{"", "F-9"} {
		o := fullOrder()
		o.FactoryDesignNo = factoryNo

		c := Render(o, ModeWorkshop, "")

		assert.False(t, c.Has(FieldGoldPrice), "factoryNo=%q", factoryNo)
		assert.False(t, c.Has(FieldDiaPrice), "factoryNo=%q", factoryNo)
		assert.False(t, c.Has(FieldParty))
		assert.False(t, c.Has(FieldDesign))
		assert.True(t, c.Has(FieldOrderTo))
	}
}

func TestRender_WorkshopNeverLeaksPrices(t *testing.T) {
	prices := []string{"", "0", "1", "99999.50"}
	for _, gp := range prices {
		for _, dp := range prices {
			for _, factoryNo := range []string{"", "F-9"} {
				o := fullOrder()
				o.GoldPrice, o.DiaPrice, o.FactoryDesignNo = gp, dp, factoryNo

				c := Render(o, ModeWorkshop, "")
				assert.Empty(t, c.Section(SectionPrices))
				for _, f := range c.Fields {
					assert.NotContains(t, f.Value, "₹", "gp=%q dp=%q field=%s", gp, dp, f.Key)
				}
			}
		}
	}
}

func TestRender_WorkshopRedactsSpecsWithFactoryNo(t *testing.T) {
	o := fullOrder()
	o.FactoryDesignNo = "F-9"

	c := Render(o, ModeWorkshop, "")

	assert.False(t, c.Has(FieldGoldWt))
	assert.False(t, c.Has(FieldDiaWt))
	assert.False(t, c.Has(FieldDiaQuality))

	f, ok := c.Field(FieldFactoryDesignNo)
	require.True(t, ok)
	assert.Equal(t, "F-9", f.Value)

	assert.True(t, c.Has(FieldGoldKt))
	assert.True(t, c.Has(FieldGoldColour))
	assert.True(t, c.Has(FieldSize))
}

func TestRender_WorkshopShowsSpecsWithoutFactoryNo(t *testing.T) {
	o := fullOrder()

	c := Render(o, ModeWorkshop, "")

	gw, ok := c.Field(FieldGoldWt)
	require.True(t, ok)
	assert.Equal(t, "4-6 gm", gw.Value)

	dw, ok := c.Field(FieldDiaWt)
	require.True(t, ok)
	assert.Equal(t, "0.45 ct", dw.Value)

	dq, ok := c.Field(FieldDiaQuality)
	require.True(t, ok)
	assert.Equal(t, "VVS G-H", dq.Value)

	assert.False(t, c.Has(FieldFactoryDesignNo))
}

func TestRender_UnitsAndEnums(t *testing.T) {
	c := Render(fullOrder(), ModeFull, "")

	kt, _ := c.Field(FieldGoldKt)
	assert.Equal(t, "18 KT", kt.Value)

	colour, _ := c.Field(FieldGoldColour)
	assert.Equal(t, "Rose-White", colour.Value)

	od, _ := c.Field(FieldOrderDate)
	assert.Equal(t, "07-Mar-24", od.Value)

	dd, _ := c.Field(FieldDeliveryDate)
	assert.Equal(t, "21-Mar-24", dd.Value)
}

func TestRender_ImagesCopied(t *testing.T) {
	o := fullOrder()
	o.Images = []string{"data:image/png;base64,AAAA"}

	for _, mode := range ViewModes {
		c := Render(o, mode, "")
		assert.Len(t, c.Images, 1)
	}

	c := Render(o, ModeFull, "")
	c.Images[0] = "mutated"
	assert.Equal(t, "data:image/png;base64,AAAA", o.Images[0])
}

func TestRender_CommentsOnlyWhenSet(t *testing.T) {
	o := fullOrder()
	for _, mode := range ViewModes {
		assert.True(t, Render(o, mode, "").Has(FieldComments))
	}

	o.Comments = ""
	for _, mode := range ViewModes {
		assert.False(t, Render(o, mode, "").Has(FieldComments))
	}
}

func TestRender_Deterministic(t *testing.T) {
	o := fullOrder()
	for _, mode := range ViewModes {
		a := Render(o, mode, "Gems")
		b := Render(o, mode, "Gems")
		if diff := cmp.Diff(a, b); diff != "" {
			t.Errorf("render not deterministic for %s:\n%s", mode, diff)
		}
	}
}

func TestRender_UnknownModeShowsNothing(t *testing.T) {
	c := Render(fullOrder(), ViewMode("admin"), "")

	assert.Empty(t, c.Fields)
}

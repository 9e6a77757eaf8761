package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewOrder_Defaults(t *testing.T) {
	now := time.Date(2024, 3, 7, 22, 30, 0, 0, time.UTC)

	order := NewOrder(now)

	assert.Equal(t, Karat14, order.GoldKt)
	assert.Equal(t, ColourYellow, order.GoldColour)
	assert.Equal(t, "2024-03-07", order.OrderDate)
	assert.Empty(t, order.DeliveryDate)
	assert.Empty(t, order.Party)
	assert.Empty(t, order.FactoryDesignNo)
	assert.NotNil(t, order.Images)
	assert.Len(t, order.Images, 0)
}

func TestNewOrder_UsesUTCDate(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	now := time.Date(2024, 3, 8, 2, 0, 0, 0, loc)

	order := NewOrder(now)

	assert.Equal(t, "2024-03-07", order.OrderDate)
}

func TestGoldKarat_Valid(t *testing.T) {
	for _, k := range GoldKarats {
		assert.True(t, k.Valid(), string(k))
	}
	assert.False(t, GoldKarat("24").Valid())
	assert.False(t, GoldKarat("").Valid())
}

func TestGoldColour_Valid(t *testing.T) {
	for _, c := range GoldColours {
		assert.True(t, c.Valid(), string(c))
	}
	assert.False(t, GoldColour("Green").Valid())
	assert.False(t, GoldColour("yellow").Valid())
}

func TestOrder_HasFactoryDesignNo(t *testing.T) {
	order := Order{}
	assert.False(t, order.HasFactoryDesignNo())

	order.FactoryDesignNo = "F-102"
	assert.True(t, order.HasFactoryDesignNo())
}

func TestOrder_CloneDoesNotShareImages(t *testing.T) {
	order := Order{Images: []string{"a", "b"}}

	clone := order.Clone()
	clone.Images[0] = "changed"

	assert.Equal(t, "a", order.Images[0])
}

func TestUserIdentity_Complete(t *testing.T) {
	tests := []struct {
		name     string
		identity UserIdentity
		want     bool
	}{
		{"all set", UserIdentity{Name: "Asha", Company: "Gems & Co", Mobile: "98200"}, true},
		{"missing mobile", UserIdentity{Name: "Asha", Company: "Gems & Co"}, false},
		{"missing company", UserIdentity{Name: "Asha", Mobile: "98200"}, false},
		{"empty", UserIdentity{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.identity.Complete())
		})
	}
}

func TestUserIdentity_Trimmed(t *testing.T) {
	identity := UserIdentity{Name: "  Asha ", Company: "\tGems\n", Mobile: " 98200 "}

	assert.Equal(t, UserIdentity{Name: "Asha", Company: "Gems", Mobile: "98200"}, identity.Trimmed())
}

func TestRedemptionResult_Succeeded(t *testing.T) {
	assert.True(t, RedemptionResult{Status: RedemptionSuccess}.Succeeded())
	assert.False(t, RedemptionResult{Status: RedemptionError, Message: "used"}.Succeeded())
	assert.False(t, RedemptionResult{}.Succeeded())
}

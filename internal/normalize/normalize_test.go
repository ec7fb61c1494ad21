package normalize

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joaoccaldas/coinsnap-collector/pkg/vision"
)

func TestNormalizeDefaults(t *testing.T) {
	c := Normalize(map[string]any{})

	assert.NotEmpty(t, c.ID)
	assert.Empty(t, c.Name)
	assert.Nil(t, c.Year)
	assert.Zero(t, c.Value)
	assert.False(t, c.IsRare)
	assert.Empty(t, c.RarityDetails)
	assert.False(t, c.DateAdded.IsZero())
	assert.Nil(t, c.Sources)
}

func TestNormalizeIdempotent(t *testing.T) {
	first := Normalize(map[string]any{
		"name":        "Morgan Dollar",
		"country":     "United States",
		"year":        "1887",
		"value":       "$42.50",
		"isRare":      true,
		"imageUrl":    "front.jpg",
		"composition": "Silver (90%), Copper",
		"sources":     []any{"https://en.numista.com/1"},
	})

	// Round-trip through JSON the way persisted records come back in.
	data, err := json.Marshal(first)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	second := Normalize(raw)
	assert.Equal(t, first, second)
}

func TestNormalizeLegacySingleImage(t *testing.T) {
	tests := []struct {
		name  string
		field string
	}{
		{"imageUrl", "imageUrl"},
		{"image", "image"},
		{"photoUrl", "photoUrl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Normalize(map[string]any{tt.field: "coin.jpg"})
			assert.Equal(t, "coin.jpg", c.FrontImageURL)
			assert.Equal(t, "coin.jpg", c.BackImageURL)
		})
	}
}

func TestNormalizeBackFallsBackToFront(t *testing.T) {
	c := Normalize(map[string]any{"frontImageUrl": "front.jpg"})
	assert.Equal(t, "front.jpg", c.FrontImageURL)
	assert.Equal(t, "front.jpg", c.BackImageURL)

	both := Normalize(map[string]any{
		"frontImageUrl": "front.jpg",
		"backImageUrl":  "back.jpg",
	})
	assert.Equal(t, "back.jpg", both.BackImageURL)
}

func TestNormalizeFrontChainOrder(t *testing.T) {
	c := Normalize(map[string]any{
		"frontImageUrl": "canonical.jpg",
		"imageUrl":      "legacy.jpg",
	})
	assert.Equal(t, "canonical.jpg", c.FrontImageURL)
}

func TestCoerceValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"float", 12.5, 12.5},
		{"int", 7, 7},
		{"currency string", "$12.50", 12.5},
		{"thousands separator", "1,250", 1250},
		{"prose", "about 20 dollars", 20},
		{"garbage", "priceless", 0},
		{"empty", "", 0},
		{"nil", nil, 0},
		{"negative", -3.0, 0},
		{"nan", math.NaN(), 0},
		{"inf", math.Inf(1), 0},
		{"bool", true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CoerceValue(tt.in))
		})
	}
}

func TestNormalizeYear(t *testing.T) {
	known := Normalize(map[string]any{"year": 1921.0})
	require.NotNil(t, known.Year)
	assert.Equal(t, 1921, *known.Year)

	parsed := Normalize(map[string]any{"year": "1909"})
	require.NotNil(t, parsed.Year)
	assert.Equal(t, 1909, *parsed.Year)

	// Unknown stays nil, never zero.
	for _, in := range []any{nil, "unknown", "circa 1900", true} {
		c := Normalize(map[string]any{"year": in})
		assert.Nil(t, c.Year, "year %v should normalize to unknown", in)
	}
}

func TestFromIdentification(t *testing.T) {
	year := 1794
	ident := vision.Identification{
		Name:           "  Flowing Hair Dollar ",
		Country:        "United States",
		Year:           &year,
		EstimatedValue: 1200,
		IsRare:         true,
		RarityDetails:  "first dollar coin issued by the US federal government",
	}

	c := FromIdentification(ident, "front.jpg", "")
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "Flowing Hair Dollar", c.Name)
	assert.Equal(t, "front.jpg", c.FrontImageURL)
	assert.Equal(t, "front.jpg", c.BackImageURL)
	assert.Equal(t, 1200.0, c.Value)
	assert.False(t, c.DateAdded.IsZero())

	clamped := FromIdentification(vision.Identification{Name: "x", EstimatedValue: -5}, "f.jpg", "b.jpg")
	assert.Zero(t, clamped.Value)
	assert.Equal(t, "b.jpg", clamped.BackImageURL)
}

package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZmanKind_CatalogueIsComplete(t *testing.T) {
	kinds := AllZmanKinds()
	require.Len(t, kinds, 22)

	seen := make(map[string]bool)
	for _, k := range kinds {
		assert.True(t, k.Valid(), k.String())
		assert.NotEmpty(t, k.EngTitle(), "english title for %s", k)
		assert.NotEmpty(t, k.HebTitle(), "hebrew title for %s", k)
		assert.False(t, seen[k.String()], "duplicate name %s", k)
		seen[k.String()] = true

		parsed, err := ParseZmanKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
}

func TestZmanKind_Invalid(t *testing.T) {
	assert.False(t, ZmanKind(0).Valid())
	assert.False(t, ZmanKind(99).Valid())
	assert.Equal(t, "ZmanKind(0)", ZmanKind(0).String())
	assert.Empty(t, ZmanKind(99).EngTitle())

	_, err := ZmanKind(0).MarshalText()
	assert.Error(t, err)
}

func TestParseZmanKind_Unknown(t *testing.T) {
	_, err := ParseZmanKind("SunriseOnMars")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"SunriseOnMars"`)
}

func TestZman_JSONUsesKindName(t *testing.T) {
	z := NewZman(CandleLighting, "18:45")

	data, err := json.Marshal(z)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name":"CandleLighting"`)
	assert.Contains(t, string(data), `"eng_title":"Candle Lighting"`)

	var decoded Zman
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, z, decoded)
}

func TestNewZman_TitlesFromCatalogue(t *testing.T) {
	z := NewZman(ShabbatEndTime, "19:50")
	assert.Equal(t, "Shabbat End Time", z.EngTitle)
	assert.Equal(t, "צאת שבת", z.HebTitle)
	assert.Equal(t, "19:50", z.Time)
}

func TestZman_RetimedDropsSourceMetadata(t *testing.T) {
	src := NewZman(ShabbatEndTime, "19:40")
	src.FootnoteType = FootnoteLightCandlesAfter
	src.RawTitle = "Holiday ends"

	got := src.Retimed(SecondDayCandleLighting)

	assert.Equal(t, SecondDayCandleLighting, got.Kind)
	assert.Equal(t, "19:40", got.Time)
	assert.Equal(t, "Second Day Candle Lighting", got.EngTitle)
	assert.Empty(t, got.FootnoteType)
	assert.Empty(t, got.RawTitle)
	assert.Equal(t, FootnoteLightCandlesAfter, src.FootnoteType, "source untouched")
}

func TestZmanKind_UnmarshalTextRejectsUnknown(t *testing.T) {
	var k ZmanKind
	require.NoError(t, k.UnmarshalText([]byte("ShabbatEndTime")))
	assert.Equal(t, ShabbatEndTime, k)

	assert.Error(t, k.UnmarshalText([]byte("Moonrise")))
	assert.Equal(t, ShabbatEndTime, k, "failed decode leaves the value alone")
}

package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVariant(t *testing.T) {
	tests := []struct {
		input   string
		want    Variant
		wantErr bool
	}{
		{input: "", want: VariantGeneral},
		{input: "new", want: VariantGeneral},
		{input: "new_calendar", want: VariantGeneral},
		{input: "General", want: VariantGeneral},
		{input: "tridentine", want: VariantTridentine},
		{input: "tridentine_calendar", want: VariantTridentine},
		{input: "martyrology", want: VariantMartyrology},
		{input: "roman_martyrology", want: VariantMartyrology},
		{input: "error_logs", wantErr: true},
		{input: "new_calendar; DROP TABLE x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseVariant(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVariantMapping(t *testing.T) {
	assert.Equal(t, []Variant{VariantGeneral, VariantTridentine, VariantMartyrology}, Variants)

	for _, v := range Variants {
		row := NewRow(v)
		assert.Equal(t, v.Table(), row.TableName(), "row model and mapping agree for %s", v)
		assert.Equal(t, v, row.ToEntry().Variant)
		assert.True(t, v.IsValid())
	}

	assert.Equal(t, "General Roman Calendar", VariantGeneral.DisplayName())
	assert.Equal(t, "Tridentine Calendar", VariantTridentine.DisplayName())
	assert.Equal(t, "Roman Martyrology", VariantMartyrology.DisplayName())
	assert.False(t, Variant("error_logs").IsValid())
}

func TestDecodeRow(t *testing.T) {
	t.Run("missing optional fields stay nil", func(t *testing.T) {
		row, err := DecodeRow(VariantGeneral, []byte(`{"month":1,"day":6,"celebration":"The Epiphany of the Lord","rank":"Solemnity"}`))
		require.NoError(t, err)
		entry := row.ToEntry()
		assert.Nil(t, entry.Color)
		assert.Nil(t, entry.ProperText)
		assert.Nil(t, entry.YearIntroduced)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := DecodeRow(VariantMartyrology, []byte(`{"month":1,"day":6,"description":"x","rank":"y"}`))
		assert.Error(t, err)
	})

	t.Run("wrong type", func(t *testing.T) {
		_, err := DecodeRow(VariantMartyrology, []byte(`{"month":"January","day":6,"description":"x"}`))
		assert.Error(t, err)
	})
}

func TestDecodeImportRow(t *testing.T) {
	t.Run("id and extra keys are ignored", func(t *testing.T) {
		row, err := DecodeImportRow(VariantGeneral, []byte(`{"id":1,"month":1,"day":6,"celebration":"The Epiphany of the Lord","rank":"Solemnity","notes":"checked"}`))
		require.NoError(t, err)
		assert.Equal(t, int64(0), row.rowID())
		assert.Equal(t, "The Epiphany of the Lord", row.ToEntry().Celebration)
	})

	t.Run("strict decode still rejects an id", func(t *testing.T) {
		_, err := DecodeRow(VariantGeneral, []byte(`{"id":1,"month":1,"day":6,"celebration":"x","rank":"y"}`))
		assert.Error(t, err)
	})

	t.Run("required fields are still checked", func(t *testing.T) {
		_, err := DecodeImportRow(VariantMartyrology, []byte(`{"month":1,"day":6,"notes":"x"}`))
		assert.Error(t, err)
	})

	t.Run("escaped text is normalized to NFC", func(t *testing.T) {
		// decomposed e + combining acute, written with JSON escapes
		row, err := DecodeImportRow(VariantMartyrology, []byte(`{"month":5,"day":28,"description":"Saint Che\u0301ron","source_text":"Che\u0301ron"}`))
		require.NoError(t, err)
		entry := row.ToEntry()
		assert.Equal(t, "Saint Ch\u00e9ron", entry.Description)
		require.NotNil(t, entry.SourceText)
		assert.Equal(t, "Ch\u00e9ron", *entry.SourceText)
	})
}

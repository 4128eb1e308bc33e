package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stringPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}

func TestParseOptionalInt(t *testing.T) {
	tests := []struct {
		name    string
		input   *string
		want    *int
		wantErr bool
	}{
		{
			name:  "nil input",
			input: nil,
			want:  nil,
		},
		{
			name:  "empty string",
			input: stringPtr(""),
			want:  nil,
		},
		{
			name:  "valid number",
			input: stringPtr("12"),
			want:  intPtr(12),
		},
		{
			name:    "invalid number",
			input:   stringPtr("abc"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOptionalInt(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.Equal(t, *tt.want, *got)
			}
		})
	}
}

func TestDateInYear(t *testing.T) {
	tests := []struct {
		name   string
		year   int
		month  int
		day    int
		wantOK bool
	}{
		{name: "regular date", year: 2026, month: 1, day: 1, wantOK: true},
		{name: "end of year", year: 2026, month: 12, day: 31, wantOK: true},
		{name: "leap day in leap year", year: 2024, month: 2, day: 29, wantOK: true},
		{name: "leap day outside leap year", year: 2026, month: 2, day: 29, wantOK: false},
		{name: "february 30", year: 2024, month: 2, day: 30, wantOK: false},
		{name: "april 31", year: 2026, month: 4, day: 31, wantOK: false},
		{name: "month 13", year: 2026, month: 13, day: 1, wantOK: false},
		{name: "day 0", year: 2026, month: 1, day: 0, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, ok := DateInYear(tt.year, tt.month, tt.day, time.Local)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.year, date.Year())
				assert.Equal(t, time.Month(tt.month), date.Month())
				assert.Equal(t, tt.day, date.Day())
			}
		})
	}
}

func TestResolveDate(t *testing.T) {
	now := time.Date(2026, time.October, 16, 14, 30, 0, 0, time.Local)

	got, err := ResolveDate(now, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, now, got)

	got, err = ResolveDate(now, intPtr(12), intPtr(25))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.December, 25, 0, 0, 0, 0, time.Local), got)

	_, err = ResolveDate(now, intPtr(2), intPtr(30))
	assert.EqualError(t, err, "Invalid date: 2/30")

	_, err = ResolveDate(now, intPtr(2), nil)
	assert.Error(t, err)
}

func TestClampLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "zero uses default", limit: 0, want: 10},
		{name: "negative uses default", limit: -5, want: 10},
		{name: "within range", limit: 25, want: 25},
		{name: "capped", limit: 500, want: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampLimit(tt.limit, 10, 50))
		})
	}
}

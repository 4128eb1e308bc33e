package liturgy

import (
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"

	"github.com/palemoky/liturgical-calendar-bot/internal/database"
)

func strPtr(s string) *string { return &s }

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 9, 0, 0, 0, time.Local)
}

func TestFormatRank(t *testing.T) {
	tests := []struct {
		rank string
		want string
	}{
		{rank: "Solemnity", want: MarkerSolemnity},
		{rank: "Solemnity of the Lord", want: MarkerSolemnity},
		{rank: "Feast", want: MarkerFeast},
		{rank: "Memorial", want: MarkerMemorial},
		{rank: "Optional Memorial", want: MarkerOptionalMemorial},
		{rank: "Memorial (Optional)", want: MarkerOptionalMemorial},
		{rank: "Commemoration", want: MarkerCommemoration},
		{rank: "Double of the First Class", want: "Double of the First Class"},
		{rank: "solemnity", want: "solemnity"},
		{rank: "optional memorial", want: "optional memorial"},
		{rank: "", want: ""},
		// first matching rule wins
		{rank: "Feast with Commemoration", want: MarkerFeast},
		{rank: "Optional Memorial, Feast in some places", want: MarkerFeast},
		{rank: "Memorial with Commemoration", want: MarkerMemorial},
	}

	for _, tt := range tests {
		t.Run(tt.rank, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatRank(tt.rank))
		})
	}
}

func TestFormatRankSolemnityAlwaysWins(t *testing.T) {
	others := []string{"Feast", "Memorial", "Optional", "Commemoration", "Double", ""}
	for _, a := range others {
		for _, b := range others {
			rank := strings.TrimSpace(a + " Solemnity " + b)
			assert.Equal(t, MarkerSolemnity, FormatRank(rank), rank)
		}
	}
}

func TestFormatRankOptionalBeatsMemorial(t *testing.T) {
	for _, rank := range []string{"Optional Memorial", "Memorial, Optional", "OptionalMemorial", "Memorial Optional Commemoration"} {
		assert.Equal(t, MarkerOptionalMemorial, FormatRank(rank), rank)
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "Wednesday, January 1, 1975", FormatDate(day(1975, time.January, 1)))
	assert.Equal(t, "Monday, February 29, 2016", FormatDate(day(2016, time.February, 29)))
}

func TestFormatMessageEmpty(t *testing.T) {
	date := day(1975, time.January, 1)

	for _, v := range database.Variants {
		t.Run(string(v), func(t *testing.T) {
			got := FormatMessage(nil, date, v)
			assert.Equal(t, "No entries found for Wednesday, January 1, 1975 in the "+v.DisplayName()+".", got)
			assert.Equal(t, got, FormatMessage([]database.Entry{}, date, v))
		})
	}
}

func TestFormatMessageSolemnityOfMary(t *testing.T) {
	entries := []database.Entry{{
		Variant:     database.VariantGeneral,
		Month:       1,
		Day:         1,
		Celebration: "Solemnity of Mary, Mother of God",
		Rank:        "Solemnity",
	}}

	got := FormatMessage(entries, day(1975, time.January, 1), database.VariantGeneral)

	assert.Contains(t, got, "# Wednesday, January 1, 1975")
	assert.Contains(t, got, "### Solemnity of Mary, Mother of God")
	assert.Contains(t, got, MarkerSolemnity)
	assert.NotContains(t, got, "Liturgical Color", "color line is omitted when unset")
}

func TestFormatMessageMartyrologyHasNoDecoration(t *testing.T) {
	entries := []database.Entry{{
		Variant:     database.VariantMartyrology,
		Description: "At Rome, the holy martyrs.",
		Rank:        "Solemnity",
		Celebration: "ignored",
	}}

	got := FormatMessage(entries, day(2024, time.May, 1), database.VariantMartyrology)

	assert.Contains(t, got, "## Roman Martyrology")
	assert.Contains(t, got, "At Rome, the holy martyrs.")
	assert.NotContains(t, got, MarkerSolemnity)
	assert.NotContains(t, got, "###")
}

func TestFormatMessageGolden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	tests := []struct {
		name    string
		variant database.Variant
		date    time.Time
		entries []database.Entry
	}{
		{
			name:    "general_multiple",
			variant: database.VariantGeneral,
			date:    day(1975, time.January, 1),
			entries: []database.Entry{
				{
					Celebration: "Solemnity of Mary, Mother of God",
					Rank:        "Solemnity",
					Color:       strPtr("White"),
					ProperText:  strPtr("Holy Mother of God, Mary ever Virgin, intercede for us."),
				},
				{
					Celebration: "Octave Day of the Nativity of the Lord",
					Rank:        "Optional Memorial",
				},
			},
		},
		{
			name:    "martyrology",
			variant: database.VariantMartyrology,
			date:    day(2024, time.December, 25),
			entries: []database.Entry{
				{Description: "In the year five thousand one hundred and ninety-nine from the creation of the world."},
				{Description: "At Rome, on the Via Nomentana, Saint Anastasia."},
			},
		},
		{
			name:    "tridentine",
			variant: database.VariantTridentine,
			date:    day(2025, time.June, 29),
			entries: []database.Entry{
				{
					Celebration: "Saints Peter and Paul, Apostles",
					Rank:        "Double of the First Class",
					Color:       strPtr("Red"),
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g.Assert(t, tt.name, []byte(FormatMessage(tt.entries, tt.date, tt.variant)))
		})
	}
}

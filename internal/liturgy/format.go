package liturgy

import (
	"fmt"
	"strings"
	"time"

	"github.com/palemoky/liturgical-calendar-bot/internal/database"
)

// Rank markers, highest tier first
const (
	MarkerSolemnity        = "🌟 **Solemnity**"
	MarkerFeast            = "✨ **Feast**"
	MarkerMemorial         = "📔 **Memorial**"
	MarkerOptionalMemorial = "📖 Optional Memorial"
	MarkerCommemoration    = "📝 Commemoration"
)

// LongDateLayout renders dates as e.g. "Wednesday, January 1, 1975"
const LongDateLayout = "Monday, January 2, 2006"

// FormatDate renders date in the long en-US form used in every message
func FormatDate(date time.Time) string {
	return date.Format(LongDateLayout)
}

// FormatRank decorates a rank by its tier. Matching is case-sensitive
// substring containment; the first matching rule wins.
func FormatRank(rank string) string {
	switch {
	case strings.Contains(rank, "Solemnity"):
		return MarkerSolemnity
	case strings.Contains(rank, "Feast"):
		return MarkerFeast
	case strings.Contains(rank, "Memorial"):
		if strings.Contains(rank, "Optional") {
			return MarkerOptionalMemorial
		}
		return MarkerMemorial
	case strings.Contains(rank, "Commemoration"):
		return MarkerCommemoration
	default:
		return rank
	}
}

// NoEntriesMessage is the reply for a date with nothing stored
func NoEntriesMessage(date time.Time, v database.Variant) string {
	return fmt.Sprintf("No entries found for %s in the %s.", FormatDate(date), v.DisplayName())
}

// FormatMessage renders entries for one calendar and date as Discord markdown.
// It has no side effects.
func FormatMessage(entries []database.Entry, date time.Time, v database.Variant) string {
	if len(entries) == 0 {
		return NoEntriesMessage(date, v)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", FormatDate(date))
	fmt.Fprintf(&b, "## %s\n\n", v.DisplayName())

	if v == database.VariantMartyrology {
		for _, e := range entries {
			b.WriteString(e.Description)
			b.WriteString("\n\n")
		}
		return b.String()
	}

	for _, e := range entries {
		fmt.Fprintf(&b, "### %s\n%s\n", e.Celebration, FormatRank(e.Rank))
		if e.Color != nil && *e.Color != "" {
			fmt.Fprintf(&b, "Liturgical Color: %s\n", *e.Color)
		}
		if e.ProperText != nil && *e.ProperText != "" {
			fmt.Fprintf(&b, "\n%s\n", *e.ProperText)
		}
		b.WriteString("\n")
	}

	return b.String()
}

package bot

import (
	"strings"
	"unicode/utf8"
)

// MaxMessageLength is Discord's per-message character limit
const MaxMessageLength = 2000

// SplitMessage breaks content into chunks of at most limit characters,
// cutting on line boundaries where possible. Lines longer than limit are
// cut on rune boundaries.
func SplitMessage(content string, limit int) []string {
	if limit <= 0 {
		limit = MaxMessageLength
	}
	if utf8.RuneCountInString(content) <= limit {
		return []string{content}
	}

	var (
		chunks []string
		cur    strings.Builder
		curLen int
	)
	flush := func() {
		if curLen > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
			curLen = 0
		}
	}

	lines := strings.SplitAfter(content, "\n")
	for _, line := range lines {
		n := utf8.RuneCountInString(line)
		if curLen+n <= limit {
			cur.WriteString(line)
			curLen += n
			continue
		}
		flush()
		for n > limit {
			head, tail := splitRunes(line, limit)
			chunks = append(chunks, head)
			line = tail
			n -= limit
		}
		cur.WriteString(line)
		curLen = n
	}
	flush()

	return chunks
}

// splitRunes returns the first n runes of s and the rest
func splitRunes(s string, n int) (string, string) {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos], s[pos:]
		}
		i++
	}
	return s, ""
}

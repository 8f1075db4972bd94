package order

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// ParsedOrder is one quantity/item pair extracted from a message.
type ParsedOrder struct {
	Quantity float64
	Item     string
}

var (
	// mentionPattern strips a leading bot mention like "<@U12345> ".
	mentionPattern = regexp.MustCompile(`^<@[^>]+>\s*`)

	// entryPattern captures an optional decimal quantity followed by the
	// item text. Whitespace after the quantity is required so that item
	// names starting with a digit ("7up") keep the digit.
	entryPattern = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)\s+(.+)$`)
)

// Parse converts a raw order message into structured orders. Entries are
// separated by commas, semicolons, or a period that precedes whitespace and
// a digit; bare periods inside item names and fractional quantities are
// left intact. An entry without a leading quantity defaults to 1. The
// function never fails; unparseable input yields an empty slice.
func Parse(rawText string) []ParsedOrder {
	text := mentionPattern.ReplaceAllString(strings.TrimSpace(rawText), "")

	var orders []ParsedOrder
	for _, token := range splitEntries(text) {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		orders = append(orders, parseEntry(token))
	}
	return orders
}

// splitEntries cuts the text at commas, semicolons, and periods followed by
// whitespace and a digit. The period rule keeps "1.5 kg sugar" whole while
// still separating "sugar. 7up".
func splitEntries(text string) []string {
	runes := []rune(text)
	var tokens []string
	start := 0

	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case ',', ';':
			tokens = append(tokens, string(runes[start:i]))
			start = i + 1
		case '.':
			if periodDelimits(runes[i+1:]) {
				tokens = append(tokens, string(runes[start:i]))
				start = i + 1
			}
		}
	}
	return append(tokens, string(runes[start:]))
}

// periodDelimits reports whether the runes after a period begin with at
// least one whitespace rune and then a digit.
func periodDelimits(rest []rune) bool {
	i := 0
	for i < len(rest) && unicode.IsSpace(rest[i]) {
		i++
	}
	return i > 0 && i < len(rest) && unicode.IsDigit(rest[i])
}

func parseEntry(entry string) ParsedOrder {
	trimmed := strings.ToLower(entry)
	if m := entryPattern.FindStringSubmatch(trimmed); m != nil {
		qty, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return ParsedOrder{Quantity: qty, Item: strings.TrimSpace(m[2])}
		}
	}
	return ParsedOrder{Quantity: 1, Item: trimmed}
}

package utils

import "strings"

// EstimateTokens approximates the token count of text at ~4 characters per token.
func EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	tokens := len([]rune(text)) / 4
	if tokens == 0 {
		return 1
	}
	return tokens
}

// TruncateToTokenLimit cuts text to roughly fit within limit tokens.
func TruncateToTokenLimit(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(text)
	charLimit := limit * 4
	if charLimit >= len(runes) {
		return text
	}
	return string(runes[:charLimit])
}

// Ellipsize collapses whitespace and shortens text to at most width runes,
// ending in "…" when cut.
func Ellipsize(text string, width int) string {
	text = strings.Join(strings.Fields(text), " ")
	if width <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	if width == 1 {
		return "…"
	}
	return strings.TrimRight(string(runes[:width-1]), " ") + "…"
}

// Package text provides utilities for cleaning and classifying blog post
// content. It includes HTML stripping, rune-aware truncation, and the
// keyword heuristics used to derive categories and tags from review text.
package text

// CountRunes counts the number of Unicode characters (runes) in the given text.
// Korean review content is multi-byte, so rune counting is used wherever a
// length bound applies (summary truncation in particular).
//
// Examples:
//
//	CountRunes("hello")    // returns 5
//	CountRunes("한의원")     // returns 3
//	CountRunes("")         // returns 0
func CountRunes(text string) int {
	return len([]rune(text))
}

// Truncate returns the first max runes of text. Text shorter than max is
// returned unchanged.
func Truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}

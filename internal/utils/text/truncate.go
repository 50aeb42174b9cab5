package text

// TruncateRunes hard-cuts the text to at most max Unicode characters.
// The cut is positional, never summarizing, and multi-byte characters are
// never split mid-rune.
//
// Examples:
//
//	TruncateRunes("hello", 3)    // returns "hel"
//	TruncateRunes("hello", 10)   // returns "hello"
//	TruncateRunes("こんにちは", 2)  // returns "こん"
func TruncateRunes(text string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}

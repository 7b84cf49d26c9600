package fetch

import "unicode/utf8"

// Marker is the suffix appended to content cut at the budget. It embeds the
// source URL so a reader can follow up with a direct fetch.
func Marker(pageURL string) string {
	return "\n\n[Content truncated - full article continues at: " + pageURL + "]"
}

// Truncate cuts text to max runes and appends Marker(pageURL). Text within
// the budget, or any text when max is negative, is returned unchanged.
func Truncate(text, pageURL string, max int) (string, bool) {
	if max < 0 || utf8.RuneCountInString(text) <= max {
		return text, false
	}
	n := 0
	for i := range text {
		if n == max {
			return text[:i] + Marker(pageURL), true
		}
		n++
	}
	return text, false
}

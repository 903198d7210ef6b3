package quality

import (
	"strings"
	"unicode"
)

func CountWords(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	return len(strings.Fields(s))
}

// LetterRatio is the share of non-space runes that are letters. Tesseract
// output on blank or photographic pages is mostly punctuation noise, so a low
// ratio flags pages worth a second look.
func LetterRatio(s string) float64 {
	var letters, total int
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(letters) / float64(total)
}

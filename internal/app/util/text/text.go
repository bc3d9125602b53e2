// Package text holds the counting rules shared by history persistence,
// exports and statistics.
package text

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// CountWords splits on the space character and counts the non-empty pieces.
// Newlines and tabs do not separate words.
func CountWords(s string) int {
	n := 0
	for _, w := range strings.Split(s, " ") {
		if w != "" {
			n++
		}
	}
	return n
}

// CountCharacters counts Unicode code points.
func CountCharacters(s string) int {
	return utf8.RuneCountInString(s)
}

// FormatTimestamp renders seconds as MM:SS.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// FormatSRTTimestamp renders seconds as HH:MM:SS,mmm.
func FormatSRTTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	ms := int64(seconds*1000 + 0.5)
	h := ms / 3600000
	ms -= h * 3600000
	m := ms / 60000
	ms -= m * 60000
	s := ms / 1000
	ms -= s * 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// FormatFileSizeMB renders a byte count in megabytes with two decimals.
func FormatFileSizeMB(bytes int64) string {
	return fmt.Sprintf("%.2f", float64(bytes)/1024/1024)
}

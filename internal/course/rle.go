package course

import (
	"strconv"
	"strings"
)

// Compress replaces every run of a repeated character with <count><char>.
// Single characters are written without a count. Input must not contain digits.
func Compress(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s))

	count := 1
	for i, r := range runes {
		if i+1 < len(runes) && runes[i+1] == r {
			count++
			continue
		}
		if count > 1 {
			b.WriteString(strconv.Itoa(count))
		}
		b.WriteRune(r)
		count = 1
	}

	return b.String()
}

// Decompress expands the output of Compress. Digits with no following
// character are dropped.
func Decompress(s string) string {
	var b strings.Builder
	var count strings.Builder

	for _, r := range s {
		if r >= '0' && r <= '9' {
			count.WriteRune(r)
			continue
		}
		repeat, err := strconv.Atoi(count.String())
		if err != nil {
			repeat = 1
		}
		for i := 0; i < repeat; i++ {
			b.WriteRune(r)
		}
		count.Reset()
	}

	return b.String()
}

// DecompressedLen reports how long Decompress(s) would be without building it.
func DecompressedLen(s string) int {
	total := 0
	pending := 0
	hasCount := false
	for _, r := range s {
		if r >= '0' && r <= '9' {
			if pending < 1<<30 {
				pending = pending*10 + int(r-'0')
			}
			hasCount = true
			continue
		}
		if hasCount {
			total += pending
		} else {
			total++
		}
		if total > 1<<30 {
			return total
		}
		pending, hasCount = 0, false
	}
	return total
}

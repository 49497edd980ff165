package normalize

import (
	"strconv"
	"strings"
)

var ones = [...]string{"zero", "one", "two", "three", "four", "five", "six",
	"seven", "eight", "nine", "ten", "eleven", "twelve", "thirteen",
	"fourteen", "fifteen", "sixteen", "seventeen", "eighteen", "nineteen"}

var tens = [...]string{"", "", "twenty", "thirty", "forty", "fifty", "sixty",
	"seventy", "eighty", "ninety"}

// spellOutInt spells a non-negative integer in compact English. It supports
// values up to the billions range, which comfortably covers any plausible
// audiobook token. Returns ok=false if the token does not parse as an
// integer.
func spellOutInt(digits string) (string, bool) {
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || n < 0 {
		return "", false
	}
	if n == 0 {
		return "zero", true
	}
	return spellOutPositive(n), true
}

func spellOutPositive(n int64) string {
	if n == 0 {
		return ""
	}
	scales := []struct {
		value int64
		name  string
	}{
		{1_000_000_000, "billion"},
		{1_000_000, "million"},
		{1_000, "thousand"},
	}
	var parts []string
	for _, s := range scales {
		if n >= s.value {
			count := n / s.value
			parts = append(parts, spellOutPositive(count)+" "+s.name)
			n %= s.value
		}
	}
	if n >= 100 {
		parts = append(parts, ones[n/100]+" hundred")
		n %= 100
	}
	if n >= 20 {
		t := tens[n/10]
		n %= 10
		if n > 0 {
			t += "-" + ones[n]
		}
		parts = append(parts, t)
	} else if n > 0 {
		parts = append(parts, ones[n])
	}
	return strings.Join(parts, " ")
}

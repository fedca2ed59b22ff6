package core

import (
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// casers pools full Unicode upper-casers. A cases.Caser keeps state between
// calls, so each one is used by a single goroutine at a time.
var casers = sync.Pool{
	New: func() any {
		c := cases.Upper(language.Und)
		return &c
	},
}

// Normalize trims surrounding whitespace and uppercases s.
// Full case mapping is applied, so "ß" becomes "SS". Normalize is idempotent.
func Normalize(s string) DiagnosisCode {
	s = strings.TrimSpace(s)
	if isASCII(s) {
		return DiagnosisCode(strings.ToUpper(s))
	}

	c := casers.Get().(*cases.Caser)
	defer casers.Put(c)
	c.Reset()
	return DiagnosisCode(c.String(s))
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

package quotes

import (
	"regexp"
	"strings"
)

// krxSuffix is appended to bare Korea Exchange codes.
const krxSuffix = ".KS"

var krxCode = regexp.MustCompile(`^[0-9]{6}$`)

// NormalizeSymbol trims s and appends the Korea Exchange suffix to 6-digit codes.
//
//	"005930" -> "005930.KS"
//	"AAPL"   -> "AAPL"
func NormalizeSymbol(s string) string {
	s = strings.TrimSpace(s)
	if krxCode.MatchString(s) {
		return s + krxSuffix
	}
	return s
}

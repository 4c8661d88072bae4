package ocr

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	reDate   = regexp.MustCompile(`\d{1,2}[./-]\d{1,2}[./-]\d{2,4}`)
	reLabels = regexp.MustCompile(`(?:^|[^\pL])(?:инн|кпп|бик|сч[её]т)(?:[^\pL]|$)`)
	reCurr   = regexp.MustCompile(`руб|₽|\brub\b|\brur\b`)
	reAmount = regexp.MustCompile(`\d{1,3}(?:[ .,]\d{3})*[.,]\d{2}(?:\D|$)`)
)

func hasDatePattern(s string) bool     { return reDate.MatchString(s) }
func hasLabelPattern(s string) bool    { return reLabels.MatchString(s) }
func hasCurrencyPattern(s string) bool { return reCurr.MatchString(s) }
func hasAmountPattern(s string) bool   { return reAmount.MatchString(s) }

// heuristicConfidence scores recognized page text by the invoice artifacts
// it contains (identifier labels, dates, ruble amounts). Range 0..1.
func heuristicConfidence(txt string) float32 {
	txtL := strings.ToLower(txt)
	score := float32(0.2) // base
	if hasLabelPattern(txtL) {
		score += 0.2
	}
	if hasDatePattern(txtL) {
		score += 0.15
	}
	if hasCurrencyPattern(txtL) {
		score += 0.15
	}
	if hasAmountPattern(txtL) {
		score += 0.15
	}
	if utf8.RuneCountInString(txt) > 120 {
		score += 0.1
	} // enough content
	if score > 1.0 {
		score = 1.0
	}
	return score
}

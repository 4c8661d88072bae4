// Package taxid validates Russian tax and banking identifiers locally,
// using their published control-digit algorithms.
package taxid

import (
	"strings"
)

var (
	inn10Weights  = []int{2, 4, 10, 3, 5, 9, 4, 6, 8}
	inn12Weights1 = []int{7, 2, 4, 10, 3, 5, 9, 4, 6, 8}
	inn12Weights2 = []int{3, 7, 2, 4, 10, 3, 5, 9, 4, 6, 8}
	accountKey    = []int{7, 1, 3}
)

// Kind names what an identifier string turned out to be.
type Kind string

const (
	KindINN10   Kind = "inn10"
	KindINN12   Kind = "inn12"
	KindUnknown Kind = "unknown"
)

// Result is the outcome of parsing a claimed INN.
type Result struct {
	Value string `json:"value"`
	Kind  Kind   `json:"kind"`
	Valid bool   `json:"valid"`
}

// Suspect reports a well-formed identifier whose checksum does not match.
func (r Result) Suspect() bool {
	return r.Kind != KindUnknown && !r.Valid
}

// Clean strips separators and repairs the common OCR confusion of the
// letter O (Latin or Cyrillic) with zero. Any other non-digit makes the
// value unrecoverable and "" is returned.
func Clean(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == 'O' || r == 'o' || r == 'О' || r == 'о':
			b.WriteByte('0')
		case r == ' ' || r == '-' || r == '\u00a0' || r == '\t':
		default:
			return ""
		}
	}
	return b.String()
}

// Parse cleans raw and classifies it. Kind is KindUnknown when the value is
// not numeric or has a length other than 10 or 12.
func Parse(raw string) Result {
	v := Clean(raw)
	switch len(v) {
	case 10:
		return Result{Value: v, Kind: KindINN10, Valid: ValidINN(v)}
	case 12:
		return Result{Value: v, Kind: KindINN12, Valid: ValidINN(v)}
	default:
		return Result{Value: v, Kind: KindUnknown}
	}
}

// ValidINN checks length and control digits of a 10 (legal entity) or
// 12 (individual) digit INN.
func ValidINN(s string) bool {
	d, ok := digits(s)
	if !ok {
		return false
	}
	switch len(d) {
	case 10:
		return control(d, inn10Weights) == d[9]
	case 12:
		return control(d, inn12Weights1) == d[10] && control(d, inn12Weights2) == d[11]
	default:
		return false
	}
}

// ValidKPP checks the KPP format: 4 digit tax office code, 2 reason
// characters (digits or A-Z), 3 digit sequence.
func ValidKPP(s string) bool {
	if len(s) != 9 {
		return false
	}
	for i := 0; i < 9; i++ {
		c := s[i]
		isDigit := c >= '0' && c <= '9'
		if i == 4 || i == 5 {
			if !isDigit && !(c >= 'A' && c <= 'Z') {
				return false
			}
			continue
		}
		if !isDigit {
			return false
		}
	}
	return true
}

// ValidBIK checks a 9 digit bank identification code with the "04" country prefix.
func ValidBIK(s string) bool {
	_, ok := digits(s)
	return ok && len(s) == 9 && strings.HasPrefix(s, "04")
}

// ValidAccount verifies a 20 digit settlement account against the bank's BIK.
func ValidAccount(account, bik string) bool {
	if !ValidBIK(bik) || len(account) != 20 {
		return false
	}
	return accountKeyOK(bik[6:9] + account)
}

// ValidCorrAccount verifies a 20 digit correspondent account against the BIK.
func ValidCorrAccount(corr, bik string) bool {
	if !ValidBIK(bik) || len(corr) != 20 {
		return false
	}
	return accountKeyOK("0" + bik[4:6] + corr)
}

func accountKeyOK(s string) bool {
	d, ok := digits(s)
	if !ok {
		return false
	}
	sum := 0
	for i, v := range d {
		sum += (v * accountKey[i%3]) % 10
	}
	return sum%10 == 0
}

func control(d []int, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += d[i] * w
	}
	return sum % 11 % 10
}

func digits(s string) ([]int, bool) {
	if s == "" {
		return nil, false
	}
	out := make([]int, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return nil, false
		}
		out[i] = int(c - '0')
	}
	return out, true
}

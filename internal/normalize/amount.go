package normalize

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Amount strips thousands separators, unifies the decimal mark and returns
// a fixed two-decimal string.
//
// Separator resolution:
//   - whitespace (incl. NBSP) and apostrophes are always thousands marks;
//   - when both '.' and ',' occur, the last one is the decimal mark;
//   - one kind occurring several times is a thousands mark;
//   - one kind occurring once and followed by exactly three digits is a
//     thousands mark; otherwise it is the decimal mark.
func Amount(raw string) (string, error) {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',':
			b.WriteRune(r)
		case unicode.IsSpace(r), r == '\'', r == '\u2019':
		case unicode.IsLetter(r), unicode.Is(unicode.Sc, r):
			// currency labels such as "руб." or "₽" trailing the figure
		default:
			return "", fail(KindAmount, raw, "unexpected character")
		}
	}
	s := strings.Trim(b.String(), ".,")
	if s == "" || strings.IndexFunc(s, unicode.IsDigit) < 0 {
		return "", fail(KindAmount, raw, "no digits")
	}

	intPart, frac, ok := splitAmount(s)
	if !ok {
		return "", fail(KindAmount, raw, "ambiguous separators")
	}
	num := intPart
	if frac != "" {
		num += "." + frac
	}
	d, err := decimal.NewFromString(num)
	if err != nil {
		return "", fail(KindAmount, raw, err.Error())
	}
	return d.StringFixed(2), nil
}

func splitAmount(s string) (intPart, frac string, ok bool) {
	lastDot := strings.LastIndexByte(s, '.')
	lastComma := strings.LastIndexByte(s, ',')
	dots := strings.Count(s, ".")
	commas := strings.Count(s, ",")

	switch {
	case dots == 0 && commas == 0:
		return s, "", true
	case dots > 0 && commas > 0:
		dec := lastDot
		decCount, thou := dots, ","
		if lastComma > lastDot {
			dec, decCount, thou = lastComma, commas, "."
		}
		if decCount != 1 {
			return "", "", false
		}
		head := s[:dec]
		if !validGroups(head, thou) {
			return "", "", false
		}
		return strings.ReplaceAll(head, thou, ""), s[dec+1:], true
	default:
		sep := "."
		if commas > 0 {
			sep = ","
		}
		if dots+commas > 1 {
			if !validGroups(s, sep) {
				return "", "", false
			}
			return strings.ReplaceAll(s, sep, ""), "", true
		}
		i := strings.Index(s, sep)
		head, tail := s[:i], s[i+1:]
		if len(tail) == 3 {
			return head + tail, "", true
		}
		return head, tail, true
	}
}

// validGroups checks that sep splits s into a 1-3 digit lead and 3 digit groups.
func validGroups(s, sep string) bool {
	groups := strings.Split(s, sep)
	if len(groups[0]) == 0 || len(groups[0]) > 3 && len(groups) > 1 {
		return false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return false
		}
	}
	return true
}

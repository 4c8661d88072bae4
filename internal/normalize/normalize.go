// Package normalize turns raw matched substrings into canonical values.
// Every failure wraps common.ErrNormalization and is local to one field.
package normalize

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/joseph-ayodele/invoice-extractor/internal/common"
	"github.com/joseph-ayodele/invoice-extractor/internal/taxid"
)

// Kind tags the semantic type a rule's capture is normalized as.
type Kind string

const (
	KindText     Kind = "text"
	KindNumber   Kind = "number"
	KindDate     Kind = "date"
	KindAmount   Kind = "amount"
	KindINN      Kind = "inn"
	KindKPP      Kind = "kpp"
	KindBIK      Kind = "bik"
	KindAccount  Kind = "account"
	KindCurrency Kind = "currency"
)

var kinds = map[Kind]bool{
	KindText: true, KindNumber: true, KindDate: true, KindAmount: true, KindINN: true,
	KindKPP: true, KindBIK: true, KindAccount: true, KindCurrency: true,
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool { return kinds[k] }

var (
	reSpaces        = regexp.MustCompile(`\s+`)
	reNumberAllowed = regexp.MustCompile(`^[\pL\pN][\pL\pN/_.\-]*$`)
)

func fail(kind Kind, raw string, reason string) error {
	return common.NewAppError("NORMALIZATION_ERROR",
		fmt.Sprintf("cannot normalize %s %q: %s", kind, raw, reason), common.ErrNormalization)
}

// Text collapses whitespace and trims stray punctuation. When maxLen > 0 and
// the result is longer, it is cut to maxLen runes and "..." is appended.
func Text(raw string, maxLen int) (string, error) {
	s := strings.TrimSpace(reSpaces.ReplaceAllString(raw, " "))
	s = strings.TrimRight(s, " ,;:")
	s = strings.TrimLeft(s, " ,;:")
	if s == "" {
		return "", fail(KindText, raw, "empty")
	}
	if maxLen > 0 && utf8.RuneCountInString(s) > maxLen {
		r := []rune(s)
		s = strings.TrimRightFunc(string(r[:maxLen]), unicode.IsSpace) + "..."
	}
	return s, nil
}

// Number canonicalizes a document number such as "12345" or "А-17/2025".
func Number(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimRight(s, ".,;:")
	s = reSpaces.ReplaceAllString(s, "")
	if !reNumberAllowed.MatchString(s) {
		return "", fail(KindNumber, raw, "unexpected characters")
	}
	return s, nil
}

// Digits cleans an identifier (O/0 confusion, separators) and requires one of
// the given lengths.
func Digits(raw string, lengths ...int) (string, error) {
	s := taxid.Clean(raw)
	if s == "" {
		return "", fail(KindAccount, raw, "not numeric")
	}
	for _, n := range lengths {
		if len(s) == n {
			return s, nil
		}
	}
	return "", fail(KindAccount, raw, fmt.Sprintf("unexpected length %d", len(s)))
}

// KPP normalizes a tax registration reason code (9 characters).
func KPP(raw string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.Map(func(r rune) rune {
		if r == 'О' || r == 'O' {
			return '0'
		}
		return r
	}, s)
	if !taxid.ValidKPP(s) {
		return "", fail(KindKPP, raw, "bad format")
	}
	return s, nil
}

var currencyAliases = map[string]string{
	"RUB": "RUB", "RUR": "RUB", "РУБ": "RUB", "РУБЛЬ": "RUB", "РУБЛЕЙ": "RUB", "РУБЛЯ": "RUB", "₽": "RUB",
	"USD": "USD", "$": "USD", "ДОЛЛ": "USD", "ДОЛЛАР": "USD", "ДОЛЛАРОВ": "USD",
	"EUR": "EUR", "€": "EUR", "ЕВРО": "EUR",
	"CNY": "CNY", "ЮАНЬ": "CNY", "ЮАНЕЙ": "CNY",
}

// Currency maps a currency label onto its ISO 4217 code.
func Currency(raw string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.TrimRight(s, ".")
	if code, ok := currencyAliases[s]; ok {
		return code, nil
	}
	if len(s) == 3 && strings.IndexFunc(s, func(r rune) bool { return r < 'A' || r > 'Z' }) < 0 {
		return s, nil
	}
	return "", fail(KindCurrency, raw, "unknown currency")
}

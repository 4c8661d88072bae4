package fields

import (
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/invoice-extractor/internal/common"
	"github.com/joseph-ayodele/invoice-extractor/internal/entity"
	"github.com/joseph-ayodele/invoice-extractor/internal/normalize"
	"github.com/joseph-ayodele/invoice-extractor/internal/taxid"
)

// Recognizer applies a Table to merged document text. It holds no
// per-request state and is safe for concurrent use.
type Recognizer struct {
	table  *Table
	logger *slog.Logger
}

// NewRecognizer creates a recognizer over table.
func NewRecognizer(table *Table, logger *slog.Logger) *Recognizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recognizer{table: table, logger: logger}
}

// Table returns the rule table in use.
func (r *Recognizer) Table() *Table { return r.table }

// Recognize resolves every field independently. For each field the first
// rule (in priority order) that matches anywhere wins; among its matches
// the earliest in the text is taken. A value that fails normalization
// leaves the field unresolved without trying lower-priority rules.
func (r *Recognizer) Recognize(text string) entity.FieldMatches {
	out := make(entity.FieldMatches)
	for _, spec := range r.table.specs {
		for rank, rule := range spec.Rules {
			raw, ok := firstCapture(rule, text)
			if !ok {
				continue
			}
			value, suspect, err := normalizeValue(spec, raw)
			if err != nil {
				r.logger.Debug("fields.normalize_failed",
					"field", string(spec.Field), "rank", rank, "error", err)
				break
			}
			out[spec.Field] = entity.FieldMatch{
				Field:   spec.Field,
				Raw:     raw,
				Value:   value,
				Rank:    rank,
				Suspect: suspect,
			}
			break
		}
	}
	return out
}

// firstCapture returns group 1 of the leftmost match with a non-empty value.
func firstCapture(rule Rule, text string) (string, bool) {
	for _, loc := range rule.Pattern.FindAllStringSubmatchIndex(text, -1) {
		if len(loc) < 4 || loc[2] < 0 {
			continue
		}
		if v := strings.TrimSpace(text[loc[2]:loc[3]]); v != "" {
			return v, true
		}
	}
	return "", false
}

func normalizeValue(spec Spec, raw string) (value string, suspect bool, err error) {
	switch spec.Kind {
	case normalize.KindDate:
		value, err = normalize.Date(raw)
	case normalize.KindAmount:
		value, err = normalize.Amount(raw)
	case normalize.KindNumber:
		value, err = normalize.Number(raw)
	case normalize.KindText:
		value, err = normalize.Text(raw, spec.MaxLen)
	case normalize.KindKPP:
		value, err = normalize.KPP(raw)
	case normalize.KindBIK:
		value, err = normalize.Digits(raw, 9)
	case normalize.KindAccount:
		value, err = normalize.Digits(raw, 20)
	case normalize.KindCurrency:
		value, err = normalize.Currency(raw)
	case normalize.KindINN:
		res := taxid.Parse(raw)
		if res.Kind == taxid.KindUnknown {
			return "", false, common.NewAppError("NORMALIZATION_ERROR",
				"identifier is not a 10 or 12 digit number", common.ErrNormalization)
		}
		return res.Value, res.Suspect(), nil
	default:
		err = common.NewAppError("NORMALIZATION_ERROR", "unknown kind "+string(spec.Kind), common.ErrNormalization)
	}
	return value, false, err
}

package entity

import "github.com/joseph-ayodele/invoice-extractor/constants"

// FieldMatch is one resolved value for a logical field.
// Rank is the position of the winning rule in the field's rule list (0 = highest priority).
type FieldMatch struct {
	Field   constants.FieldName
	Raw     string
	Value   string
	Rank    int
	Suspect bool // identifier failed its checksum but is kept for review
}

// FieldMatches maps field names to their resolved match; absent means not found.
type FieldMatches map[constants.FieldName]FieldMatch

// Value returns the normalized value of f, or "" when unresolved.
func (m FieldMatches) Value(f constants.FieldName) string {
	if fm, ok := m[f]; ok {
		return fm.Value
	}
	return ""
}

// Has reports whether f resolved.
func (m FieldMatches) Has(f constants.FieldName) bool {
	_, ok := m[f]
	return ok
}

// Package fields resolves logical invoice fields from merged document text
// using an ordered, immutable rule table.
package fields

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/normalize"
)

//go:embed rules.yaml
var defaultRules []byte

// Rule is one compiled pattern; group 1 of Pattern is the raw value.
type Rule struct {
	Source  string
	Pattern *regexp.Regexp
}

// Spec describes how one field is found and normalized.
type Spec struct {
	Field       constants.FieldName
	Kind        normalize.Kind
	Required    bool
	RequiredAny string // fields sharing a group satisfy the requirement together
	MaxLen      int
	Rules       []Rule
}

// Table is the ordered, read-only set of field specs. It is built once and
// shared by every request.
type Table struct {
	specs []Spec
}

type rulesFile struct {
	Macros map[string]string `yaml:"macros"`
	Fields []struct {
		Field       string   `yaml:"field"`
		Kind        string   `yaml:"kind"`
		Required    bool     `yaml:"required"`
		RequiredAny string   `yaml:"required_any"`
		MaxLen      int      `yaml:"max_len"`
		Rules       []string `yaml:"rules"`
	} `yaml:"fields"`
}

// DefaultTable compiles the embedded rule set.
func DefaultTable() (*Table, error) {
	return LoadRules(defaultRules)
}

// MustDefaultTable is DefaultTable for process start-up and tests.
func MustDefaultTable() *Table {
	t, err := DefaultTable()
	if err != nil {
		panic(err)
	}
	return t
}

// LoadRules parses a YAML rule document and compiles every pattern.
func LoadRules(data []byte) (*Table, error) {
	var doc rulesFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	if len(doc.Fields) == 0 {
		return nil, fmt.Errorf("parse rules: no fields declared")
	}

	seen := make(map[constants.FieldName]bool, len(doc.Fields))
	specs := make([]Spec, 0, len(doc.Fields))
	for _, f := range doc.Fields {
		name := constants.FieldName(f.Field)
		if !constants.IsKnownField(f.Field) {
			return nil, fmt.Errorf("rules: unknown field %q", f.Field)
		}
		if seen[name] {
			return nil, fmt.Errorf("rules: field %q declared twice", f.Field)
		}
		seen[name] = true

		kind := normalize.Kind(f.Kind)
		if !kind.Valid() {
			return nil, fmt.Errorf("rules: field %q: unknown kind %q", f.Field, f.Kind)
		}
		if len(f.Rules) == 0 {
			return nil, fmt.Errorf("rules: field %q has no rules", f.Field)
		}

		spec := Spec{
			Field:       name,
			Kind:        kind,
			Required:    f.Required,
			RequiredAny: f.RequiredAny,
			MaxLen:      f.MaxLen,
			Rules:       make([]Rule, 0, len(f.Rules)),
		}
		for i, src := range f.Rules {
			re, err := compile(src, doc.Macros)
			if err != nil {
				return nil, fmt.Errorf("rules: field %q rule %d: %w", f.Field, i, err)
			}
			if re.NumSubexp() < 1 {
				return nil, fmt.Errorf("rules: field %q rule %d: no capture group", f.Field, i)
			}
			spec.Rules = append(spec.Rules, Rule{Source: src, Pattern: re})
		}
		specs = append(specs, spec)
	}
	return &Table{specs: specs}, nil
}

// Specs returns the field specs in declaration order.
func (t *Table) Specs() []Spec {
	out := make([]Spec, len(t.specs))
	copy(out, t.specs)
	return out
}

// Spec looks up one field.
func (t *Table) Spec(f constants.FieldName) (Spec, bool) {
	for _, s := range t.specs {
		if s.Field == f {
			return s, true
		}
	}
	return Spec{}, false
}

// Requirements lists the completeness gate: each inner slice is satisfied
// when any one of its fields resolved.
func (t *Table) Requirements() [][]constants.FieldName {
	var out [][]constants.FieldName
	groups := map[string]int{}
	for _, s := range t.specs {
		switch {
		case s.Required:
			out = append(out, []constants.FieldName{s.Field})
		case s.RequiredAny != "":
			if i, ok := groups[s.RequiredAny]; ok {
				out[i] = append(out[i], s.Field)
				continue
			}
			groups[s.RequiredAny] = len(out)
			out = append(out, []constants.FieldName{s.Field})
		}
	}
	return out
}

var reMacro = regexp.MustCompile(`<<(\w+)>>`)

// compile expands macros, makes literal spaces whitespace tolerant and
// turns on case folding.
func compile(src string, macros map[string]string) (*regexp.Regexp, error) {
	expanded := src
	for depth := 0; reMacro.MatchString(expanded); depth++ {
		if depth > 8 {
			return nil, fmt.Errorf("macro expansion too deep in %q", src)
		}
		var missing string
		expanded = reMacro.ReplaceAllStringFunc(expanded, func(m string) string {
			name := m[2 : len(m)-2]
			body, ok := macros[name]
			if !ok {
				missing = name
				return m
			}
			return "(?:" + body + ")"
		})
		if missing != "" {
			return nil, fmt.Errorf("unknown macro %q", missing)
		}
	}
	return regexp.Compile("(?i)" + flexibleSpaces(expanded))
}

// flexibleSpaces rewrites each literal space outside a character class
// as \s+, so "к оплате" also matches text split across lines.
func flexibleSpaces(p string) string {
	var b strings.Builder
	inClass, escaped := false, false
	for _, r := range p {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '[' && !inClass:
			inClass = true
		case r == ']' && inClass:
			inClass = false
		case r == ' ' && !inClass:
			b.WriteString(`\s+`)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

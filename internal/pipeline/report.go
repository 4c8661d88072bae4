package pipeline

import (
	"sort"
	"strings"
	"time"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/entity"
)

// PageReport describes how one page's text was obtained.
type PageReport struct {
	Index      int                  `json:"index"`
	Origin     constants.TextOrigin `json:"origin"`
	Status     constants.PageStatus `json:"status"`
	Chars      int                  `json:"chars"`
	Confidence float32              `json:"confidence,omitempty"`
	Error      string               `json:"error,omitempty"`
}

// Report summarizes one pipeline execution.
type Report struct {
	Pages          []PageReport  `json:"pages"`
	OCRPages       int           `json:"ocr_pages"`
	OCRFailed      int           `json:"ocr_failed"`
	FieldsResolved int           `json:"fields_resolved"`
	Duration       time.Duration `json:"-"`
	DurationMS     int64         `json:"duration_ms"`
}

// Merge concatenates page texts in index order, whatever order they
// finished in. Origin does not affect the result.
func Merge(texts []entity.RecognizedText) string {
	sorted := make([]entity.RecognizedText, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	parts := make([]string, len(sorted))
	for i, t := range sorted {
		parts[i] = t.Text
	}
	return strings.Join(parts, "\n")
}

package pipeline

import (
	"context"

	"github.com/joseph-ayodele/invoice-extractor/internal/entity"
	"github.com/joseph-ayodele/invoice-extractor/internal/invoice"
	"github.com/joseph-ayodele/invoice-extractor/internal/ocr"
)

// TextExtractor is stage 1: PDF bytes -> per-page native text with a
// sufficiency verdict.
type TextExtractor interface {
	Extract(ctx context.Context, doc entity.Document) ([]entity.Page, error)
}

// PageRecognizer is the fallback for insufficient pages.
type PageRecognizer interface {
	RecognizePage(ctx context.Context, doc entity.Document, index int) (ocr.PageResult, error)
}

// FieldRecognizer is stage 2: merged text -> field matches.
type FieldRecognizer interface {
	Recognize(text string) entity.FieldMatches
}

// RecordAssembler is stage 3: field matches -> record or incomplete failure.
type RecordAssembler interface {
	Assemble(m entity.FieldMatches) (*invoice.InvoiceRecord, error)
}

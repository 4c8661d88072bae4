package pipeline

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/invoice-extractor/internal/common"
	"github.com/joseph-ayodele/invoice-extractor/internal/entity"
	"github.com/joseph-ayodele/invoice-extractor/internal/invoice"
)

// ParseStage turns merged text into a validated invoice record.
type ParseStage struct {
	Fields    FieldRecognizer
	Assembler RecordAssembler
	Logger    *slog.Logger
}

func NewParseStage(fields FieldRecognizer, assembler RecordAssembler, logger *slog.Logger) *ParseStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &ParseStage{Fields: fields, Assembler: assembler, Logger: logger}
}

// Run recognizes fields and assembles the record. The returned matches are
// populated even when assembly fails so callers can report partial output.
func (s *ParseStage) Run(ctx context.Context, text string) (*invoice.InvoiceRecord, entity.FieldMatches, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	matches := s.Fields.Recognize(text)
	for _, m := range matches {
		if m.Suspect {
			s.Logger.Warn("pipeline.field.suspect", "field", m.Field, "rank", m.Rank)
		}
	}

	rec, err := s.Assembler.Assemble(matches)
	if err != nil {
		return nil, matches, err
	}
	if err := rec.Validate(); err != nil {
		s.Logger.Error("pipeline.record.invalid", "err", err)
		return nil, matches, common.NewAppError("INTERNAL_ERROR", "assembled record failed schema validation", common.ErrInternal)
	}
	return rec, matches, nil
}

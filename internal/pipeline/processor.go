package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/invoice-extractor/internal/common"
	"github.com/joseph-ayodele/invoice-extractor/internal/entity"
	"github.com/joseph-ayodele/invoice-extractor/internal/invoice"
)

// Result is the outcome of one successful document run.
type Result struct {
	Record *invoice.InvoiceRecord `json:"record"`
	Report Report                 `json:"report"`
}

// Processor coordinates text acquisition then field parsing.
type Processor struct {
	Logger  *slog.Logger
	Text    *TextStage
	Parse   *ParseStage
	Metrics *Metrics
}

func NewProcessor(logger *slog.Logger, text *TextStage, parse *ParseStage, metrics *Metrics) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if text != nil && text.Metrics == nil {
		text.Metrics = metrics
	}
	return &Processor{Logger: logger, Text: text, Parse: parse, Metrics: metrics}
}

// Process runs the whole pipeline for one document. Every failure comes
// back as an error that common.HTTPStatus can classify; a panic in any
// stage is reported as common.ErrInternal.
func (p *Processor) Process(ctx context.Context, doc entity.Document) (res Result, err error) {
	start := time.Now()
	logger := common.LoggerFromContext(ctx, p.Logger)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("processor.panic", "panic", r)
			res = Result{}
			err = common.NewAppError("INTERNAL_ERROR", "internal processing error",
				errors.Join(common.ErrInternal, fmt.Errorf("panic: %v", r)))
		}
		d := time.Since(start)
		p.Metrics.observeDocument(outcome(err), d)
	}()

	text, report, err := p.Text.Run(ctx, doc)
	if err != nil {
		logger.Error("processor.text.failed", "size", doc.Size(), "err", err)
		return Result{}, err
	}
	logger.Info("processor.text.ok",
		"pages", len(report.Pages),
		"ocr_pages", report.OCRPages,
		"ocr_failed", report.OCRFailed,
		"chars", len(text),
	)

	rec, matches, err := p.Parse.Run(ctx, text)
	report.FieldsResolved = len(matches)
	if err != nil {
		if missing, ok := invoice.AsIncomplete(err); ok {
			logger.Warn("processor.parse.incomplete", "missing", missing, "resolved", len(matches))
		} else {
			logger.Error("processor.parse.failed", "err", err)
		}
		return Result{}, err
	}

	report.Duration = time.Since(start)
	report.DurationMS = report.Duration.Milliseconds()
	logger.Info("processor.ok", "fields", report.FieldsResolved, "duration_ms", report.DurationMS)
	return Result{Record: rec, Report: report}, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	case errors.Is(err, common.ErrIncompleteExtraction):
		return "incomplete"
	case errors.Is(err, common.ErrRecognitionUnavailable):
		return "recognition_unavailable"
	case errors.Is(err, common.ErrInvalidDocument), errors.Is(err, common.ErrEmptyDocument):
		return "invalid"
	default:
		return "error"
	}
}

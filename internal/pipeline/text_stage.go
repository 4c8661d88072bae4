package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/common"
	"github.com/joseph-ayodele/invoice-extractor/internal/entity"
	"github.com/joseph-ayodele/invoice-extractor/internal/ocr"
)

// TextStage produces the merged document text: native text for sufficient
// pages, recognition output for the rest.
type TextStage struct {
	Extractor     TextExtractor
	Recognizer    PageRecognizer // nil disables the fallback
	MaxConcurrent int
	Logger        *slog.Logger
	Metrics       *Metrics
}

func NewTextStage(ex TextExtractor, rec PageRecognizer, maxConcurrent int, logger *slog.Logger) *TextStage {
	if logger == nil {
		logger = slog.Default()
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	return &TextStage{Extractor: ex, Recognizer: rec, MaxConcurrent: maxConcurrent, Logger: logger}
}

// Plan returns the indexes of pages routed to recognition.
func Plan(pages []entity.Page) []int {
	var out []int
	for _, p := range pages {
		if p.NeedsRecognition() {
			out = append(out, p.Index)
		}
	}
	return out
}

// Run extracts, recognizes the planned pages in parallel and merges.
// A page whose recognition fails contributes "". Only when every page
// needed recognition and every attempt failed is the document rejected
// with common.ErrRecognitionUnavailable. Cancelling ctx aborts in-flight
// calls and discards all page results.
func (s *TextStage) Run(ctx context.Context, doc entity.Document) (string, Report, error) {
	pages, err := s.Extractor.Extract(ctx, doc)
	if err != nil {
		return "", Report{}, err
	}

	texts := make([]entity.RecognizedText, len(pages))
	report := Report{Pages: make([]PageReport, len(pages))}
	for i, p := range pages {
		texts[i] = entity.RecognizedText{Index: p.Index, Origin: constants.OriginNative, Text: p.Text}
		report.Pages[i] = PageReport{Index: p.Index, Origin: constants.OriginNative, Status: p.Status, Chars: p.Chars}
	}

	plan := Plan(pages)
	if len(plan) == 0 {
		for range pages {
			s.Metrics.observePage(string(constants.OriginNative), "ok")
		}
		return Merge(texts), report, nil
	}

	var (
		mu       sync.Mutex
		failed   int
		firstErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.MaxConcurrent)
	for pos, page := range pages {
		pos, page := pos, page
		if !page.NeedsRecognition() {
			continue
		}
		idx := page.Index
		g.Go(func() error {
			var (
				res ocr.PageResult
				err error
			)
			if s.Recognizer == nil {
				err = common.NewAppError("RECOGNITION_UNAVAILABLE", "recognition is disabled", common.ErrRecognitionUnavailable)
			} else {
				res, err = s.Recognizer.RecognizePage(gctx, doc, idx)
			}
			if err != nil && ctx.Err() != nil {
				return ctx.Err()
			}

			mu.Lock()
			defer mu.Unlock()
			pr := &report.Pages[pos]
			pr.Origin = constants.OriginOCR
			if err != nil {
				failed++
				if firstErr == nil {
					firstErr = err
				}
				pr.Error = errorCode(err)
				texts[pos] = entity.RecognizedText{Index: idx, Origin: constants.OriginOCR}
				s.Metrics.observePage(string(constants.OriginOCR), "failed")
				s.Logger.Warn("pipeline.page.ocr_failed", "page", idx, "error", err)
				return nil
			}
			pr.Chars = utf8.RuneCountInString(res.Text)
			pr.Confidence = res.Confidence
			texts[pos] = entity.RecognizedText{Index: idx, Origin: constants.OriginOCR, Text: res.Text}
			s.Metrics.observePage(string(constants.OriginOCR), "ok")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", Report{}, err
	}
	if err := ctx.Err(); err != nil {
		return "", Report{}, err
	}
	for i := 0; i < len(pages)-len(plan); i++ {
		s.Metrics.observePage(string(constants.OriginNative), "ok")
	}

	report.OCRPages = len(plan)
	report.OCRFailed = failed
	if failed == len(plan) && len(plan) == len(pages) {
		return "", report, common.NewAppError("RECOGNITION_UNAVAILABLE",
			"no page of the document could be recognized",
			errors.Join(common.ErrRecognitionUnavailable, firstErr))
	}
	return Merge(texts), report, nil
}

func errorCode(err error) string {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "RECOGNITION_FAILED"
}

// Package extract pulls native text out of a PDF page by page and decides
// which pages are good enough to skip recognition.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/common"
	"github.com/joseph-ayodele/invoice-extractor/internal/entity"
)

var disableConfigOnce sync.Once

// Config controls native extraction.
type Config struct {
	MinPageChars int // sufficiency threshold
	Workers      int // pages extracted in parallel
	ForceOCR     bool
}

// Extractor reads the embedded text layer. It is read-only over the input
// and safe for concurrent use.
type Extractor struct {
	cfg    Config
	logger *slog.Logger
}

// New creates an Extractor; zero config values fall back to defaults.
func New(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MinPageChars <= 0 {
		cfg.MinPageChars = constants.MinPageCharsDefault
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	// pdfcpu must not create a config dir under $HOME inside a server
	disableConfigOnce.Do(api.DisableConfigDir)
	return &Extractor{cfg: cfg, logger: logger}
}

// Extract returns one Page per document page in index order. Unparsable
// bytes yield common.ErrInvalidDocument, a zero page document
// common.ErrEmptyDocument. A page whose text layer cannot be read comes
// back empty and therefore insufficient.
func (e *Extractor) Extract(ctx context.Context, doc entity.Document) ([]entity.Page, error) {
	start := time.Now()
	n, err := e.pageCount(doc)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, common.NewAppError("EMPTY_DOCUMENT", "document has no pages", common.ErrEmptyDocument)
	}

	texts := make([]string, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			text, err := readPage(doc, i+1)
			if err != nil {
				e.logger.Warn("extract.page_failed", "page", i, "error", err)
				return nil
			}
			texts[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pages := make([]entity.Page, n)
	for i, text := range texts {
		chars, status := Classify(text, e.cfg.MinPageChars)
		if e.cfg.ForceOCR {
			status = constants.PageInsufficient
		}
		pages[i] = entity.Page{Index: i, Text: text, Chars: chars, Status: status}
	}
	e.logger.Debug("extract.done",
		"pages", n,
		"insufficient", countInsufficient(pages),
		"elapsed_ms", time.Since(start).Milliseconds())
	return pages, nil
}

// Classify counts the trimmed characters of text and compares them with
// the threshold.
func Classify(text string, minChars int) (int, constants.PageStatus) {
	chars := utf8.RuneCountInString(strings.TrimSpace(text))
	if chars < minChars {
		return chars, constants.PageInsufficient
	}
	return chars, constants.PageSufficient
}

func (e *Extractor) pageCount(doc entity.Document) (n int, err error) {
	if doc.Size() == 0 {
		return 0, common.NewAppError("INVALID_DOCUMENT", "document is empty", common.ErrInvalidDocument)
	}
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("extract.pdfcpu_panic", "panic", fmt.Sprint(r))
			n, err = 0, common.NewAppError("INVALID_DOCUMENT", "document is not a readable PDF", common.ErrInvalidDocument)
		}
	}()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	n, err = api.PageCount(doc.Reader(), conf)
	if err != nil {
		e.logger.Info("extract.invalid_pdf", "size", doc.Size(), "error", err)
		return 0, common.NewAppError("INVALID_DOCUMENT", "document is not a readable PDF", common.ErrInvalidDocument)
	}
	return n, nil
}

// readPage opens its own reader so pages can be read concurrently.
func readPage(doc entity.Document, num int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("page %d: %v", num, r)
		}
	}()
	r, err := pdf.NewReader(doc.Reader(), int64(doc.Size()))
	if err != nil {
		return "", fmt.Errorf("open: %w", err)
	}
	if num > r.NumPage() {
		return "", fmt.Errorf("page %d out of range", num)
	}
	page := r.Page(num)
	if page.V.IsNull() {
		return "", nil
	}
	return layoutText(page.Content().Text), nil
}

func countInsufficient(pages []entity.Page) int {
	n := 0
	for _, p := range pages {
		if p.NeedsRecognition() {
			n++
		}
	}
	return n
}

// Package ocr is the recognition fallback: it rasterizes one PDF page with
// pdftoppm and reads it back with tesseract.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/common"
	"github.com/joseph-ayodele/invoice-extractor/internal/entity"
)

// Config is fixed at construction; nothing here is read from globals.
type Config struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	Languages   []string // tesseract models run as one pass, default rus+eng
	DPI         int      // rasterization DPI, default 300
	PSM         int      // 6 = uniform block of text; 0 leaves tesseract's default
	OEM         int      // 1 = LSTM; 0 leaves tesseract's default
	TessdataDir string

	PageTimeout time.Duration // per page bound on rasterize + recognize
}

// PageResult is the recognized text of one page.
type PageResult struct {
	Text       string
	Confidence float32
	Elapsed    time.Duration
}

// Recognizer runs the external engine. It keeps no per-request state.
type Recognizer struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

// Option configures a Recognizer.
type Option func(*Recognizer)

// WithRunner replaces the exec runner (tests).
func WithRunner(r Runner) Option {
	return func(rc *Recognizer) { rc.runner = r }
}

func NewRecognizer(cfg Config, logger *slog.Logger, opts ...Option) *Recognizer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if len(cfg.Languages) == 0 {
		cfg.Languages = constants.RecognitionLanguagesDefault
	}
	cfg.Languages = append([]string(nil), cfg.Languages...)
	if cfg.DPI < constants.RecognitionDPIDefault {
		cfg.DPI = constants.RecognitionDPIDefault
	}
	if cfg.PageTimeout <= 0 {
		cfg.PageTimeout = 60 * time.Second
	}
	r := &Recognizer{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Languages returns the tesseract language argument, e.g. "rus+eng".
func (r *Recognizer) Languages() string {
	return strings.Join(r.cfg.Languages, "+")
}

// RecognizePage rasterizes page index (0-based) of doc and recognizes it.
// Failures are common.ErrRecognitionUnavailable or
// common.ErrRecognitionTimeout; cancellation of ctx returns ctx.Err().
// A single attempt is made.
func (r *Recognizer) RecognizePage(ctx context.Context, doc entity.Document, index int) (PageResult, error) {
	start := time.Now()
	pageCtx, cancel := context.WithTimeout(ctx, r.cfg.PageTimeout)
	defer cancel()

	tmpDir, err := os.MkdirTemp("", "inv-ocr-*")
	if err != nil {
		return PageResult{}, common.NewAppError("RECOGNITION_UNAVAILABLE", "cannot create work dir", errors.Join(common.ErrRecognitionUnavailable, err))
	}
	defer func(path string) {
		if err := os.RemoveAll(path); err != nil {
			r.logger.Warn("failed to remove temp dir", "path", path, "error", err)
		}
	}(tmpDir)

	in := filepath.Join(tmpDir, "in.pdf")
	if err := writeDocument(in, doc); err != nil {
		return PageResult{}, common.NewAppError("RECOGNITION_UNAVAILABLE", "cannot stage document", errors.Join(common.ErrRecognitionUnavailable, err))
	}

	prefix := filepath.Join(tmpDir, "page")
	num := strconv.Itoa(index + 1)
	// pdftoppm -r 300 -f N -l N -png -singlefile <in.pdf> <tmp/page>  => tmp/page.png
	if _, _, err := r.runner.Run(pageCtx, r.cfg.Pdftoppm,
		"-r", strconv.Itoa(r.cfg.DPI), "-f", num, "-l", num, "-png", "-singlefile", in, prefix); err != nil {
		return PageResult{}, r.classify(ctx, pageCtx, "pdftoppm", index, err)
	}

	out, _, err := r.runner.Run(pageCtx, r.cfg.Tesseract, r.tesseractArgs(prefix+".png")...)
	if err != nil {
		return PageResult{}, r.classify(ctx, pageCtx, "tesseract", index, err)
	}

	text := Normalize(string(out))
	res := PageResult{
		Text:       text,
		Confidence: heuristicConfidence(text),
		Elapsed:    time.Since(start),
	}
	r.logger.Debug("ocr.page_done",
		"page", index,
		"chars", len([]rune(text)),
		"confidence", res.Confidence,
		"elapsed_ms", res.Elapsed.Milliseconds())
	return res, nil
}

func (r *Recognizer) tesseractArgs(img string) []string {
	// tesseract <img> stdout -l rus+eng --psm 6
	args := []string{img, "stdout", "-l", r.Languages()}
	if r.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(r.cfg.PSM))
	}
	if r.cfg.OEM > 0 {
		args = append(args, "--oem", strconv.Itoa(r.cfg.OEM))
	}
	if r.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", r.cfg.TessdataDir)
	}
	return args
}

// classify maps a failed step onto the recognition error taxonomy.
func (r *Recognizer) classify(parent, pageCtx context.Context, step string, index int, err error) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	if errors.Is(pageCtx.Err(), context.DeadlineExceeded) {
		return common.NewAppError("RECOGNITION_TIMEOUT",
			fmt.Sprintf("%s timed out on page %d after %s", step, index, r.cfg.PageTimeout),
			common.ErrRecognitionTimeout)
	}
	msg := fmt.Sprintf("%s failed on page %d", step, index)
	if errors.Is(err, exec.ErrNotFound) {
		msg = fmt.Sprintf("%s is not installed", step)
	}
	return common.NewAppError("RECOGNITION_UNAVAILABLE", msg, errors.Join(common.ErrRecognitionUnavailable, err))
}

func writeDocument(path string, doc entity.Document) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := doc.WriteTo(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

package pipeline

import (
	"log/slog"

	"github.com/joseph-ayodele/invoice-extractor/internal/common"
	"github.com/joseph-ayodele/invoice-extractor/internal/extract"
	"github.com/joseph-ayodele/invoice-extractor/internal/fields"
	"github.com/joseph-ayodele/invoice-extractor/internal/invoice"
	"github.com/joseph-ayodele/invoice-extractor/internal/ocr"
)

// NewFromConfig wires the production stages: pdfcpu/ledongthuc extraction,
// pdftoppm+tesseract fallback, the embedded rule table and the default
// assembler.
func NewFromConfig(cfg *common.Config, logger *slog.Logger, metrics *Metrics) (*Processor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	table, err := fields.DefaultTable()
	if err != nil {
		return nil, err
	}

	extractor := extract.New(extract.Config{
		MinPageChars: cfg.Extract.MinPageChars,
		Workers:      cfg.Extract.Workers,
		ForceOCR:     cfg.Extract.ForceOCR,
	}, logger.With("stage", "extract"))
	recognizer := ocr.NewRecognizer(ocr.Config{
		Pdftoppm:    cfg.OCR.PdftoppmBin,
		Tesseract:   cfg.OCR.TesseractBin,
		Languages:   cfg.OCR.Languages,
		DPI:         cfg.OCR.DPI,
		PSM:         cfg.OCR.PSM,
		OEM:         cfg.OCR.OEM,
		TessdataDir: cfg.OCR.TessdataDir,
		PageTimeout: cfg.OCR.PageTimeout,
	}, logger.With("stage", "ocr"))

	text := NewTextStage(extractor, recognizer, cfg.OCR.MaxConcurrent, logger.With("stage", "text"))
	parse := NewParseStage(
		fields.NewRecognizer(table, logger.With("stage", "fields")),
		invoice.NewAssembler(table.Requirements()),
		logger.With("stage", "parse"),
	)
	return NewProcessor(logger, text, parse, metrics), nil
}

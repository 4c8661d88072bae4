package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/common"
	"github.com/joseph-ayodele/invoice-extractor/internal/entity"
	"github.com/joseph-ayodele/invoice-extractor/internal/export"
	"github.com/joseph-ayodele/invoice-extractor/internal/pipeline"
)

type envelope struct {
	Status    string           `json:"status"`
	Data      any              `json:"data,omitempty"`
	Report    *pipeline.Report `json:"report,omitempty"`
	Detail    string           `json:"detail,omitempty"`
	ErrorCode int              `json:"error_code,omitempty"`
}

// errPrinted marks a failure whose envelope is already on stdout.
var errPrinted = errors.New("extraction failed")

func newExtractCmd(root *rootOptions) *cobra.Command {
	var (
		forceOCR bool
		xlsxOut  string
		langs    []string
	)
	cmd := &cobra.Command{
		Use:   "extract FILE",
		Short: "Run the extraction pipeline on one PDF and print the JSON envelope",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := root.cfg
			if forceOCR {
				cfg.Extract.ForceOCR = true
			}
			if len(langs) > 0 {
				cfg.OCR.Languages = normalizeLangs(langs)
			}
			out := cmd.OutOrStdout()

			fail := func(err error) error {
				_ = printJSON(out, envelope{Status: "error", Detail: common.PublicMessage(err), ErrorCode: common.HTTPStatus(err)})
				root.logger.Debug("extract.failed", "error", err)
				return errPrinted
			}

			path := args[0]
			if !constants.IsPDFUpload(filepath.Base(path), "") {
				return fail(common.NewAppError("UNSUPPORTED_MEDIA", "Поддерживаются только PDF файлы", common.ErrUnsupportedMedia))
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fail(common.NewAppError("INVALID_INPUT", fmt.Sprintf("read %s", path), errors.Join(common.ErrInvalidInput, err)))
			}
			if len(data) == 0 {
				return fail(common.NewAppError("EMPTY_DOCUMENT", "Файл пустой", common.ErrEmptyDocument))
			}

			proc, err := pipeline.NewFromConfig(cfg, root.logger, nil)
			if err != nil {
				return fail(err)
			}
			res, err := proc.Process(cmd.Context(), entity.NewDocument(data))
			if err != nil {
				return fail(err)
			}

			if xlsxOut != "" {
				book, err := export.NewExporter(root.logger).RecordXLSX(res.Record, &res.Report)
				if err != nil {
					return fail(err)
				}
				if err := os.WriteFile(xlsxOut, book, 0o644); err != nil {
					return fail(err)
				}
			}

			env := envelope{Status: "success", Data: res.Record}
			if root.verbose {
				env.Report = &res.Report
			}
			return printJSON(out, env)
		},
	}
	cmd.Flags().BoolVar(&forceOCR, "force-ocr", false, "route every page to recognition")
	cmd.Flags().StringVar(&xlsxOut, "xlsx", "", "also write the record to this XLSX file")
	cmd.Flags().StringSliceVar(&langs, "lang", nil, "recognition languages, e.g. rus,eng")
	return cmd
}

func normalizeLangs(langs []string) []string {
	var out []string
	for _, l := range langs {
		for _, part := range strings.Split(l, "+") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

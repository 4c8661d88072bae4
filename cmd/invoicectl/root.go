package main

import (
	"encoding/json"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/invoice-extractor/internal/common"
)

type rootOptions struct {
	verbose bool
	cfg     *common.Config
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "invoicectl",
		Short:         "Extract payment invoice data from PDF files",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			opts.cfg = common.LoadConfig()
			if opts.verbose {
				opts.cfg.Log.Level = "debug"
			} else if opts.cfg.Log.Level == "info" {
				opts.cfg.Log.Level = "warn"
			}
			opts.cfg.Log.Format = "text"
			opts.logger = common.NewLogger(opts.cfg.Log, cmd.ErrOrStderr())
			slog.SetDefault(opts.logger)
			return nil
		},
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging and the processing report")
	cmd.AddCommand(newExtractCmd(opts), newINNCmd())
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

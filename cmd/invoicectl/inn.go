package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/invoice-extractor/internal/taxid"
)

func newINNCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inn ID",
		Short: "Check a taxpayer identifier's length and checksum",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := taxid.Parse(args[0])
			if err := printJSON(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if !res.Valid {
				return fmt.Errorf("%s: invalid identifier", args[0])
			}
			return nil
		},
	}
}

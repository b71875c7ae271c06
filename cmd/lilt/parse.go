package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lilt/internal/diag"
	"lilt/internal/reader"
	"lilt/internal/sexp"
	"lilt/internal/source"
	"lilt/internal/syntax"
)

var parseDesugar bool

func init() {
	parseCmd.Flags().BoolVar(&parseDesugar, "desugar", false, "show forms after syntax desugaring")
}

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Read a module and print its forms",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fs := source.NewFileSet()
		id, err := fs.Load(args[0])
		if err != nil {
			return err
		}
		forms, err := reader.Parse(fs, id)
		if err != nil {
			fmt.Fprint(cmd.ErrOrStderr(), diag.Render(fs, err))
			return fmt.Errorf("parse failed")
		}
		if parseDesugar {
			forms = syntax.Transform(forms)
		}
		for _, f := range forms {
			fmt.Fprintln(cmd.OutOrStdout(), sexp.String(f))
		}
		return nil
	},
}

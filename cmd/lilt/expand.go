package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lilt/internal/diag"
	"lilt/internal/macroexp"
	"lilt/internal/reader"
	"lilt/internal/sexp"
	"lilt/internal/source"
	"lilt/internal/syntax"
)

var expandCmd = &cobra.Command{
	Use:   "expand <file>",
	Short: "Print a module's forms after macro expansion",
	Long: `Expand runs the reader, the syntax pass and the macro expander, then
prints the kernel forms a module reduces to. Useful for debugging macro
definitions.`,
	Args: cobra.ExactArgs(1),
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
		env := macroexp.NewKernelEnv().Child(args[0])
		expanded, err := macroexp.Expand(syntax.Transform(forms), env)
		if err != nil {
			fmt.Fprint(cmd.ErrOrStderr(), diag.Render(fs, err))
			return fmt.Errorf("expansion failed")
		}
		for _, f := range expanded {
			fmt.Fprintln(cmd.OutOrStdout(), sexp.String(f))
		}
		return nil
	},
}

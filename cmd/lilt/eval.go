package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"lilt/internal/diag"
	"lilt/internal/pipeline"
	"lilt/internal/source"
)

var (
	evalExpr     string
	evalShowCode bool
)

func init() {
	evalCmd.Flags().StringVarP(&evalExpr, "expr", "e", "", "evaluate a single expression and exit")
	evalCmd.Flags().BoolVar(&evalShowCode, "code", false, "always print the generated code")
}

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate inputs interactively",
	Long: `Eval reads one form at a time, compiles it against a growing session,
and prints the statically known result when the input folds to a
constant, or the generated code otherwise. Macro definitions and
constant bindings persist across inputs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		session := pipeline.NewSession()
		out := cmd.OutOrStdout()

		if evalExpr != "" {
			return evalOne(session, evalExpr, out)
		}

		interactive := isTerminal(os.Stdin)
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for {
			if interactive {
				fmt.Fprint(out, "lilt> ")
			}
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if line == ":quit" || line == ":q" {
				break
			}
			if err := evalOne(session, line, out); err != nil {
				fmt.Fprint(cmd.ErrOrStderr(), diag.Render(source.NewFileSet(), err))
			}
		}
		return scanner.Err()
	},
}

func evalOne(session *pipeline.Session, text string, out io.Writer) error {
	res, err := session.EvaluateOne(text)
	if err != nil {
		return err
	}
	switch {
	case res.Value != "":
		fmt.Fprintln(out, res.Value)
		if evalShowCode {
			fmt.Fprint(out, res.Code)
		}
	default:
		fmt.Fprint(out, res.Code)
	}
	return nil
}

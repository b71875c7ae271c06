package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"lilt/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "lilt",
	Short: "Lilt compiler and module bundler",
	Long:  "Lilt compiles .lilt modules to JavaScript or TypeScript and bundles their import graphs.",
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		switch mode, _ := cmd.Flags().GetString("color"); mode {
		case "on":
			color.NoColor = false
		case "off":
			color.NoColor = true
		default:
			color.NoColor = !isTerminal(os.Stdout)
		}
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"lilt/internal/diag"
	"lilt/internal/printer"
	"lilt/internal/project"
	"lilt/internal/resolver"
	"lilt/internal/source"
)

var (
	buildOut        string
	buildTarget     string
	buildFormatting string
	buildIndent     int
	buildTabs       bool
	buildNoCache    bool
	buildCacheDir   string
)

func init() {
	buildCmd.Flags().StringVarP(&buildOut, "out", "o", "", "output directory (default <project>/dist)")
	buildCmd.Flags().StringVar(&buildTarget, "target", "", "output dialect (scripting|typed)")
	buildCmd.Flags().StringVar(&buildFormatting, "formatting", "", "output density (minimal|standard|pretty)")
	buildCmd.Flags().IntVar(&buildIndent, "indent", 0, "indent width in spaces")
	buildCmd.Flags().BoolVar(&buildTabs, "tabs", false, "indent with tabs")
	buildCmd.Flags().BoolVar(&buildNoCache, "no-cache", false, "disable the build cache")
	buildCmd.Flags().StringVar(&buildCacheDir, "cache-dir", "", "build cache directory")
}

var buildCmd = &cobra.Command{
	Use:   "build [entry modules]",
	Short: "Compile entry modules and their import graphs",
	Long: `Build compiles every module reachable from the given entries, copies
script dependencies through, and leaves package, remote and data
specifiers for the runtime. Settings not given as flags come from the
nearest lilt.toml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		manifest, err := project.Find(wd)
		if err != nil {
			return err
		}

		entries := args
		opts := resolver.Options{BaseDir: wd}
		if manifest != nil {
			opts.BaseDir = manifest.Dir
			opts.OutDir = manifest.OutDir()
			opts.Print = manifest.PrinterOptions()
			if len(entries) == 0 {
				entries = manifest.Build.Entries
			}
			if dir := manifest.CacheDir(); dir != "" {
				opts.Store = &resolver.DiskStore{Dir: dir}
			}
		}
		if len(entries) == 0 {
			return fmt.Errorf("no entry modules: pass them as arguments or set build.entries in %s", project.ManifestName)
		}
		applyBuildFlags(&opts)

		results, err := resolver.BuildAll(cmd.Context(), entries, opts)
		if err != nil {
			fmt.Fprint(cmd.ErrOrStderr(), diag.Render(source.NewFileSet(), err))
			return fmt.Errorf("build failed")
		}

		emitted := 0
		for _, res := range results {
			emitted += len(res.Modules)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "built %d entr%s, %d modules -> %s\n",
			len(results), plural(len(results), "y", "ies"), emitted, results[0].OutDir)
		return nil
	},
}

func applyBuildFlags(opts *resolver.Options) {
	if buildOut != "" {
		out := buildOut
		if !filepath.IsAbs(out) {
			out = filepath.Join(opts.BaseDir, out)
		}
		opts.OutDir = out
	}
	if buildTarget == "typed" {
		opts.Print.Target = printer.TargetTyped
	} else if buildTarget == "scripting" {
		opts.Print.Target = printer.TargetScripting
	}
	switch buildFormatting {
	case "minimal":
		opts.Print.Formatting = printer.FormatMinimal
	case "standard":
		opts.Print.Formatting = printer.FormatStandard
	case "pretty":
		opts.Print.Formatting = printer.FormatPretty
	}
	if buildIndent > 0 {
		opts.Print.IndentSize = buildIndent
	}
	if buildTabs {
		opts.Print.UseTabs = true
	}
	if buildCacheDir != "" {
		opts.Store = &resolver.DiskStore{Dir: buildCacheDir}
	}
	if buildNoCache {
		opts.Store = nil
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/sitesplice/internal/logger"
	"github.com/jmylchreest/sitesplice/pkg/pipeline"
	"github.com/jmylchreest/sitesplice/pkg/sanitizer"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [file]",
	Short: "Strip editor-only markup from a page",
	Long: `Apply a rule set to a whole page. The file is rewritten in place
unless -o is given. The default file is index.html and the default rule
set is the cleanup preset.

Examples:
  # Tidy index.html in place
  sitesplice clean

  # Use a custom rules file and write elsewhere
  sitesplice clean page.html --rules rules.yaml -o page.clean.html

  # Apply the document preset instead
  sitesplice clean temp.html --preset document -o temp.clean.html`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)

	flags := cleanCmd.Flags()
	flags.String("preset", sanitizer.PresetCleanup, "built-in rule set: cleanup, document, footer")
	flags.String("rules", "", "rules file (overrides --preset)")
	flags.StringP("output", "o", "", "output file (default: the input, in place)")
	flags.Bool("stats", false, "print per-rule replacement counts")
	flags.Bool("minify", false, "minify the cleaned page")
}

func runClean(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, map[string]string{"rules.cleanup": "rules"}); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	in := defaultOutput
	if len(args) > 0 {
		in = args[0]
	}
	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		out = in
	}

	preset, _ := cmd.Flags().GetString("preset")
	rs, err := loadRules(viper.GetViper(), "cleanup", preset)
	if err != nil {
		logger.Error("failed to load rules", "error", err)
		return err
	}

	minify, _ := cmd.Flags().GetBool("minify")
	result, err := pipeline.RunClean(ctx, in, out, rs, minify)
	if err != nil {
		logger.Error("clean failed", "error", err)
		return err
	}
	logWarnings(result.Warnings)

	w := cmd.OutOrStdout()
	if showStats, _ := cmd.Flags().GetBool("stats"); showStats {
		printInfo(w, "%s", result.Stats.String())
	}
	printInfo(w, "Cleaned HTML")
	return nil
}

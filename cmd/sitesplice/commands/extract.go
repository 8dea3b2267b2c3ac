package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jmylchreest/sitesplice/internal/logger"
	"github.com/jmylchreest/sitesplice/pkg/composer"
	"github.com/jmylchreest/sitesplice/pkg/pipeline"
	"github.com/jmylchreest/sitesplice/pkg/sanitizer"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract sections from an export into a template",
	Long: `Sanitize a raw export, extract its <section> blocks and inject them,
newline-joined, at the sections placeholder of a template.

Examples:
  # temp.html + index_template.html -> index.html
  sitesplice extract

  # Explicit paths, fail unless at least 3 sections are found
  sitesplice extract --source export.html --template page.html \
      -o out.html --min-blocks 3`,
	Args: cobra.NoArgs,
	RunE: runExtract,
}

var extractKeys = map[string]string{
	"source":         "source",
	"template":       "template",
	"output":         "output",
	"tag":            "tag",
	"nested":         "nested",
	"min_blocks":     "min-blocks",
	"strict":         "strict",
	"rules.document": "rules",
}

func init() {
	rootCmd.AddCommand(extractCmd)

	flags := extractCmd.Flags()
	flags.String("source", defaultSource, "raw export to extract sections from")
	flags.String("template", defaultTemplate, "template containing the sections placeholder")
	flags.StringP("output", "o", defaultOutput, "output file")
	flags.String("rules", "", "document rules file (default: document preset)")
	addAssemblyFlags(flags)
}

// addAssemblyFlags registers the flags that shape section extraction.
func addAssemblyFlags(flags *pflag.FlagSet) {
	flags.String("tag", composer.DefaultTag, "element name of extracted blocks")
	flags.Bool("nested", false, "track nesting so inner blocks of the same tag stay inside their parent")
	flags.Int("min-blocks", 0, "fail when fewer blocks are extracted (0=disabled)")
	flags.Bool("strict", false, "fail when an injection point is missing")
}

func runExtract(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, extractKeys); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts, err := loadOptions(viper.GetViper(), ruleDocument)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		return err
	}

	source := viper.GetString("source")
	template := viper.GetString("template")
	out := viper.GetString("output")
	logger.Debug("extract command starting", "source", source, "template", template, "output", out)

	report, err := pipeline.RunSections(ctx, source, template, out, opts)
	if err != nil {
		logger.Error("extract failed", "error", err)
		return err
	}
	logWarnings(report.AllWarnings())

	printInfo(cmd.OutOrStdout(), "Extracted %d sections", report.Blocks)
	return nil
}

// logWarnings logs warnings the pipeline does not log itself.
func logWarnings(warnings []sanitizer.Warning) {
	for _, w := range warnings {
		if w.Phase == "compose" {
			continue
		}
		logger.Warn(w.Message, "phase", w.Phase, "context", w.Context)
	}
}

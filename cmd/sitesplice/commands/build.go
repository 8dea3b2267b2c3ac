package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/sitesplice/internal/logger"
	"github.com/jmylchreest/sitesplice/internal/output"
	"github.com/jmylchreest/sitesplice/pkg/pipeline"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Extract sections and splice the footer in one pass",
	Long: `Run the whole flow: sections from the export into the template, then
the footer into the result. Inputs are read once and the output is written
once; nothing is written if any stage fails.

Examples:
  # temp.html + index_template.html + footer.html -> index.html
  sitesplice build

  # Minify the result and write a YAML report
  sitesplice build --minify --report report.yaml --report-format yaml

  # Skip the footer stage
  sitesplice build --footer ""`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

var buildKeys = map[string]string{
	"source":         "source",
	"template":       "template",
	"footer":         "footer",
	"output":         "output",
	"tag":            "tag",
	"nested":         "nested",
	"min_blocks":     "min-blocks",
	"strict":         "strict",
	"minify":         "minify",
	"rules.document": "document-rules",
	"rules.footer":   "footer-rules",
}

func init() {
	rootCmd.AddCommand(buildCmd)

	flags := buildCmd.Flags()
	flags.String("source", defaultSource, "raw export to extract sections from")
	flags.String("template", defaultTemplate, "template containing the injection points")
	flags.String("footer", defaultFooter, "footer fragment (empty to skip the footer stage)")
	flags.StringP("output", "o", defaultOutput, "output file")
	flags.String("document-rules", "", "document rules file (default: document preset)")
	flags.String("footer-rules", "", "footer rules file (default: footer preset)")
	flags.Bool("minify", false, "minify the assembled page")
	flags.String("report", "", "write a run report to this file (- for stdout)")
	flags.String("report-format", "json", "report format: json, yaml")
	addAssemblyFlags(flags)
}

func runBuild(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, buildKeys); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	reportPath, _ := cmd.Flags().GetString("report")
	formatStr, _ := cmd.Flags().GetString("report-format")
	format, err := output.ParseFormat(formatStr)
	if err != nil {
		logger.Error("invalid report format", "format", formatStr, "error", err)
		return err
	}

	opts, err := loadOptions(viper.GetViper(), ruleDocument, ruleFooter)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		return err
	}

	paths := pipeline.Paths{
		Source:   viper.GetString("source"),
		Template: viper.GetString("template"),
		Footer:   viper.GetString("footer"),
		Output:   viper.GetString("output"),
	}
	logger.Debug("build command starting", "paths", paths, "minify", opts.Minify)

	report, err := pipeline.Run(ctx, paths, opts)
	if err != nil {
		logger.Error("build failed", "error", err)
		return err
	}
	logWarnings(report.AllWarnings())

	if reportPath != "" {
		if err := writeReport(cmd.OutOrStdout(), reportPath, format, report); err != nil {
			logger.Error("failed to write report", "path", reportPath, "error", err)
			return err
		}
	}

	w := cmd.OutOrStdout()
	printInfo(w, "Extracted %d sections", report.Blocks)
	printFooterResult(w, report)
	if viper.GetBool("debug") {
		fmt.Fprint(cmd.ErrOrStderr(), report.String())
	}
	return nil
}

// writeReport encodes report to path, or to stdout when path is "-".
func writeReport(stdout io.Writer, path string, format output.Format, report *pipeline.Report) error {
	if path == "-" {
		return output.Encode(stdout, format, report)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := output.Encode(f, format, report); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

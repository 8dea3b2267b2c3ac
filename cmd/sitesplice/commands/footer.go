package commands

import (
	"context"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/sitesplice/internal/logger"
	"github.com/jmylchreest/sitesplice/pkg/composer"
	"github.com/jmylchreest/sitesplice/pkg/pipeline"
)

var footerCmd = &cobra.Command{
	Use:   "footer",
	Short: "Replace the footer of a page",
	Long: `Sanitize a footer fragment and splice it into a page, at the footer
placeholder when present and otherwise over the <footer id="footer"> element.

Examples:
  # footer.html -> index.html, in place
  sitesplice footer

  # Write to a different file
  sitesplice footer --footer site-footer.html --page index.html -o final.html`,
	Args: cobra.NoArgs,
	RunE: runFooter,
}

var footerKeys = map[string]string{
	"footer":       "footer",
	"page":         "page",
	"strict":       "strict",
	"rules.footer": "rules",
}

func init() {
	rootCmd.AddCommand(footerCmd)

	flags := footerCmd.Flags()
	flags.String("footer", defaultFooter, "footer fragment to splice in")
	flags.String("page", defaultOutput, "page to splice the footer into")
	flags.StringP("output", "o", "", "output file (default: the page, in place)")
	flags.String("rules", "", "footer rules file (default: footer preset)")
	flags.Bool("strict", false, "fail when the footer target is missing")
}

func runFooter(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, footerKeys); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts, err := loadOptions(viper.GetViper(), ruleFooter)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		return err
	}

	footer := viper.GetString("footer")
	page := viper.GetString("page")
	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		out = page
	}
	logger.Debug("footer command starting", "footer", footer, "page", page, "output", out)

	report, err := pipeline.RunFooter(ctx, footer, page, out, opts)
	if err != nil {
		logger.Error("footer failed", "error", err)
		return err
	}
	logWarnings(report.AllWarnings())

	printFooterResult(cmd.OutOrStdout(), report)
	return nil
}

// printFooterResult reports whether the footer stage of report spliced
// anything. It prints nothing when the stage did not run.
func printFooterResult(w io.Writer, report *pipeline.Report) {
	stage := report.Stage(pipeline.StageFooter)
	switch {
	case stage == nil:
	case stage.Method == composer.MethodNone:
		printInfo(w, "Footer target not found, page unchanged")
	default:
		printInfo(w, "Footer replaced")
	}
}

// Package commands implements the CLI commands for sitesplice.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/sitesplice/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "sitesplice",
	Short: "Clean website-builder exports and splice them into a static page",
	Long: `Sitesplice turns a raw website-builder HTML export into a static page.

It strips editor-only classes and attributes, extracts the content
sections into a template, and splices in a separately cleaned footer.

Examples:
  # Extract sections from temp.html into index_template.html
  sitesplice extract

  # Replace the footer of index.html with footer.html
  sitesplice footer

  # Do both in one pass and write a JSON report
  sitesplice build --report report.json

  # Tidy an existing page in place
  sitesplice clean index.html`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(logger.Options{
			Debug: viper.GetBool("debug"),
			Quiet: viper.GetBool("quiet"),
			JSON:  viper.GetBool("json_logs"),
		})
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default .sitesplice.yaml in $HOME or the working directory)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress progress output")
	rootCmd.PersistentFlags().Bool("json-logs", false, "write logs as JSON")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("json_logs", rootCmd.PersistentFlags().Lookup("json-logs"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".sitesplice")
		viper.SetConfigType("yaml")
	}

	// Environment variables
	viper.SetEnvPrefix("SITESPLICE")
	viper.AutomaticEnv()

	// An explicit --config must exist; the default file is optional.
	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			logError("reading config: %v", err)
		}
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// bindFlags binds command flags to viper keys when the command runs.
// Several commands share keys such as "output", so binding in init
// would let the last registered command win.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for key, flag := range keys {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			return fmt.Errorf("unknown flag %q for key %q", flag, key)
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}

// logError prints an error message to stderr.
func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

// printInfo writes a progress line to w unless quiet mode is on.
func printInfo(w io.Writer, format string, args ...any) {
	if !viper.GetBool("quiet") {
		fmt.Fprintf(w, format+"\n", args...)
	}
}

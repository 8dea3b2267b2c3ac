package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/sitesplice/internal/logger"
	"github.com/jmylchreest/sitesplice/internal/output"
	"github.com/jmylchreest/sitesplice/pkg/sanitizer"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect and check rule sets",
}

var rulesListCmd = &cobra.Command{
	Use:   "list [preset]",
	Short: "Print built-in rule sets",
	Long: `Print one built-in rule set, or all of them. A printed set can be
saved, edited and passed back with --rules.

Examples:
  sitesplice rules list
  sitesplice rules list cleanup --format yaml > rules.yaml`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: sanitizer.PresetNames(),
	RunE:      runRulesList,
}

var rulesLintCmd = &cobra.Command{
	Use:   "lint FILE",
	Short: "Load a rules file and report ordering problems",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesLint,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesListCmd, rulesLintCmd)

	rulesListCmd.Flags().String("format", "yaml", "output format: json, jsonl, yaml")
}

func runRulesList(cmd *cobra.Command, args []string) error {
	formatStr, _ := cmd.Flags().GetString("format")
	format, err := output.ParseFormat(formatStr)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		rs, err := sanitizer.Preset(args[0])
		if err != nil {
			return err
		}
		if format == output.FormatJSONL {
			return output.EncodeAll(cmd.OutOrStdout(), format, rs.Rules)
		}
		return output.Encode(cmd.OutOrStdout(), format, rs)
	}

	var sets []*sanitizer.RuleSet
	for _, name := range sanitizer.PresetNames() {
		rs, err := sanitizer.Preset(name)
		if err != nil {
			return err
		}
		sets = append(sets, rs)
	}
	return output.EncodeAll(cmd.OutOrStdout(), format, sets)
}

func runRulesLint(cmd *cobra.Command, args []string) error {
	rs, err := sanitizer.FromFile(args[0])
	if err != nil {
		logger.Error("failed to load rules", "path", args[0], "error", err)
		return err
	}

	warnings := rs.Lint()
	w := cmd.OutOrStdout()
	for _, warn := range warnings {
		fmt.Fprintln(w, warn.String())
	}
	if len(warnings) > 0 {
		return fmt.Errorf("%s: %d ordering problem(s)", args[0], len(warnings))
	}
	printInfo(w, "%s: %d rules, no problems", rs.Name, rs.Len())
	return nil
}

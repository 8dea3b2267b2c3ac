package commands

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/jmylchreest/sitesplice/internal/logger"
	"github.com/jmylchreest/sitesplice/pkg/composer"
	"github.com/jmylchreest/sitesplice/pkg/pipeline"
	"github.com/jmylchreest/sitesplice/pkg/sanitizer"
)

// Default file names used by the export workflow.
const (
	defaultSource   = "temp.html"
	defaultTemplate = "index_template.html"
	defaultFooter   = "footer.html"
	defaultOutput   = "index.html"
)

// loadRules returns the rule set configured under rules.<key>, falling back
// to the named preset when no file is configured.
func loadRules(v *viper.Viper, key, preset string) (*sanitizer.RuleSet, error) {
	path := v.GetString("rules." + key)
	if path == "" {
		return sanitizer.Preset(preset)
	}
	rs, err := sanitizer.FromFile(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded rules", "key", key, "path", path, "name", rs.Name, "rules", rs.Len())
	return rs, nil
}

// Rule set keys under rules.*.
const (
	ruleDocument = "document"
	ruleFooter   = "footer"
)

// loadOptions builds pipeline options from v. Unset keys keep the
// pipeline defaults. Only the rule sets named in ruleKeys are loaded from
// configured files; the others stay on their presets.
func loadOptions(v *viper.Viper, ruleKeys ...string) (pipeline.Options, error) {
	opts := pipeline.DefaultOptions()

	for _, key := range ruleKeys {
		var err error
		switch key {
		case ruleDocument:
			opts.DocumentRules, err = loadRules(v, key, sanitizer.PresetDocument)
		case ruleFooter:
			opts.FooterRules, err = loadRules(v, key, sanitizer.PresetFooter)
		default:
			err = fmt.Errorf("unknown rule set key %q", key)
		}
		if err != nil {
			return opts, err
		}
	}

	if tag := v.GetString("tag"); tag != "" {
		opts.Tag = tag
	}
	if p := v.GetString("sections_placeholder"); p != "" {
		opts.SectionsPlaceholder = p
	}
	if v.IsSet("footer_placeholder") {
		opts.FooterPlaceholder = v.GetString("footer_placeholder")
	}
	if v.IsSet("footer_region") {
		region := composer.FooterRegion()
		if err := v.UnmarshalKey("footer_region", region); err != nil {
			return opts, fmt.Errorf("footer_region: %w", err)
		}
		opts.FooterRegion = region
	}

	opts.MinBlocks = v.GetInt("min_blocks")
	opts.Nested = v.GetBool("nested")
	opts.Strict = v.GetBool("strict")
	opts.Minify = v.GetBool("minify")

	return opts, opts.Validate()
}

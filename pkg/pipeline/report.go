package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/sitesplice/pkg/composer"
	"github.com/jmylchreest/sitesplice/pkg/sanitizer"
)

// Stage records one sanitize-and-compose step.
type Stage struct {
	Name     string              `json:"name" yaml:"name"`
	Rules    string              `json:"rules" yaml:"rules"`
	Method   composer.Method     `json:"method" yaml:"method"`
	Target   string              `json:"target" yaml:"target"`
	Sanitize *sanitizer.Stats    `json:"sanitize,omitempty" yaml:"sanitize,omitempty"`
	Warnings []sanitizer.Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Report describes a pipeline run. Content holds the assembled document.
type Report struct {
	Content string `json:"-" yaml:"-"`

	Tag    string `json:"tag" yaml:"tag"`
	Blocks int    `json:"blocks" yaml:"blocks"`

	// DocumentBlocks is the number of Tag elements found in the final
	// document by an HTML parser. It can exceed Blocks when the template
	// itself already contains such elements.
	DocumentBlocks int `json:"document_blocks" yaml:"document_blocks"`

	Stages      []Stage `json:"stages" yaml:"stages"`
	PostProcess string  `json:"post_process,omitempty" yaml:"post_process,omitempty"`

	InputBytes  int           `json:"input_bytes" yaml:"input_bytes"`
	OutputBytes int           `json:"output_bytes" yaml:"output_bytes"`
	Duration    time.Duration `json:"duration_ns" yaml:"duration_ns"`

	Warnings []sanitizer.Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// AddWarning records a non-fatal issue.
func (r *Report) AddWarning(phase, message, context string) {
	r.Warnings = append(r.Warnings, sanitizer.Warning{
		Phase:   phase,
		Message: message,
		Context: context,
	})
}

// AllWarnings returns report-level warnings followed by stage warnings.
func (r *Report) AllWarnings() []sanitizer.Warning {
	all := append([]sanitizer.Warning(nil), r.Warnings...)
	for _, s := range r.Stages {
		all = append(all, s.Warnings...)
	}
	return all
}

// Stage returns the named stage, or nil.
func (r *Report) Stage(name string) *Stage {
	for i := range r.Stages {
		if r.Stages[i].Name == name {
			return &r.Stages[i]
		}
	}
	return nil
}

// String returns a human-readable summary.
func (r *Report) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Blocks: %d <%s> extracted, %d in output\n", r.Blocks, r.Tag, r.DocumentBlocks))
	for _, s := range r.Stages {
		sb.WriteString(fmt.Sprintf("Stage %s: rules=%s method=%s", s.Name, s.Rules, s.Method))
		if s.Sanitize != nil {
			sb.WriteString(fmt.Sprintf(" replacements=%d", s.Sanitize.TotalMatches()))
		}
		sb.WriteString("\n")
	}
	if r.PostProcess != "" && r.PostProcess != "noop" {
		sb.WriteString(fmt.Sprintf("Post-process: %s\n", r.PostProcess))
	}
	sb.WriteString(fmt.Sprintf("Size: %s -> %s\n",
		humanize.Bytes(uint64(r.InputBytes)), humanize.Bytes(uint64(r.OutputBytes))))
	if n := len(r.AllWarnings()); n > 0 {
		sb.WriteString(fmt.Sprintf("Warnings: %d\n", n))
	}
	return sb.String()
}

// Package convert orchestrates rule movement between format codecs and
// the store: direct format-to-format conversion, pushing a parsed format
// into a store namespace, pulling a namespace back out as a format, and
// the combined convert-via-store flow.
package convert

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/polyrc/internal/format"
	"github.com/thoreinstein/polyrc/internal/git"
	"github.com/thoreinstein/polyrc/internal/ir"
	"github.com/thoreinstein/polyrc/internal/store"
)

// previewChars caps per-rule content shown in dry-run previews.
const previewChars = 200

// Converter runs conversion flows, reporting results to Out and advisory
// warnings to Log.
type Converter struct {
	Out io.Writer
	Log *slog.Logger
}

// New returns a Converter writing results to out and warnings to log.
func New(out io.Writer, log *slog.Logger) *Converter {
	if log == nil {
		log = slog.Default()
	}
	return &Converter{Out: out, Log: log}
}

// DirectOptions configures a store-less conversion.
type DirectOptions struct {
	From   format.Format
	To     format.Format
	Input  string
	Output string
	// Scope filters the parsed rules when non-empty.
	Scope ir.Scope
	// Path keeps only rules active for this file path when non-empty.
	Path   string
	DryRun bool
}

// PushOptions configures parsing a format into a store namespace.
type PushOptions struct {
	Format format.Format
	Input  string
	// Project selects the namespace; empty means the user namespace.
	Project string
	Scope   ir.Scope
	DryRun  bool
}

// PullOptions configures writing a store namespace out as a format.
type PullOptions struct {
	Format  format.Format
	Output  string
	Project string
	Scope   ir.Scope
	Path    string
	DryRun  bool
}

// ViaStoreOptions configures a conversion routed through a store
// namespace: the source is pushed, then the stored set is written out.
type ViaStoreOptions struct {
	From    format.Format
	To      format.Format
	Input   string
	Output  string
	Project string
	Scope   ir.Scope
	Path    string
	DryRun  bool
}

// Filter returns the rules matching scope. An empty scope keeps
// everything. The input is not mutated.
func Filter(rules []ir.Rule, scope ir.Scope) []ir.Rule {
	if scope == "" {
		return rules
	}
	var out []ir.Rule
	for _, r := range rules {
		if r.Scope == scope {
			out = append(out, r)
		}
	}
	return out
}

// FilterPath returns the rules active for the given file path: always-on
// rules plus glob rules whose patterns match. On-demand and ai-decides
// rules are dropped since they never activate implicitly. An empty path
// keeps everything.
func FilterPath(rules []ir.Rule, path string) []ir.Rule {
	if path == "" {
		return rules
	}
	var out []ir.Rule
	for _, r := range rules {
		if r.AppliesTo(path) {
			out = append(out, r)
		}
	}
	return out
}

// Direct parses the source format, filters, and writes the target format.
// An empty result set is a warning, not an error.
func (c *Converter) Direct(opts DirectOptions) error {
	rules, err := opts.From.Parser().Parse(opts.Input)
	if err != nil {
		return errors.Wrapf(err, "parsing %s config at %s", opts.From, opts.Input)
	}
	rules = FilterPath(Filter(rules, opts.Scope), opts.Path)

	if len(rules) == 0 {
		c.Log.Warn("no rules found after parsing", "format", string(opts.From), "input", opts.Input)
		return nil
	}

	if opts.DryRun {
		fmt.Fprintf(c.Out, "Dry run: %d rule(s) from %s to %s\n", len(rules), opts.From, opts.To)
		c.preview(rules)
		return nil
	}

	if err := opts.To.Writer(c.Log).Write(rules, opts.Output); err != nil {
		return errors.Wrapf(err, "writing %s config to %s", opts.To, opts.Output)
	}
	fmt.Fprintf(c.Out, "Converted %d rule(s) from %s to %s\n", len(rules), opts.From, opts.To)
	return nil
}

// Push parses a format and saves the result into a store namespace,
// committing the store afterwards.
func (c *Converter) Push(st *store.Store, opts PushOptions) error {
	rules, err := opts.Format.Parser().Parse(opts.Input)
	if err != nil {
		return errors.Wrapf(err, "parsing %s config at %s", opts.Format, opts.Input)
	}
	rules = Filter(rules, opts.Scope)

	if len(rules) == 0 {
		c.Log.Warn("no rules found after parsing", "format", string(opts.Format), "input", opts.Input)
		return nil
	}

	if opts.DryRun {
		key := opts.Project
		if key == "" {
			key = store.UserNamespace
		}
		fmt.Fprintf(c.Out, "Dry run: %d rule(s) from %s to store/%s\n", len(rules), opts.Format, key)
		c.preview(rules)
		return nil
	}

	stored, err := st.SaveRules(opts.Project, rules, string(opts.Format))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.Out, "Stored %d rule(s) in %s\n", len(stored), st.Path)

	msg := commitMessage("push-format", opts.Format)
	if err := git.Commit(st.Path, msg); err != nil {
		return err
	}
	fmt.Fprintf(c.Out, "Committed: %s\n", msg)
	return nil
}

// Pull loads a store namespace and writes it out as a format.
func (c *Converter) Pull(st *store.Store, opts PullOptions) error {
	rules, err := st.LoadRules(opts.Project)
	if err != nil {
		return err
	}
	rules = FilterPath(Filter(rules, opts.Scope), opts.Path)

	if len(rules) == 0 {
		c.Log.Warn("no rules found in store", "project", opts.Project)
		return nil
	}

	if opts.DryRun {
		fmt.Fprintf(c.Out, "Dry run: %d rule(s) from store to %s\n", len(rules), opts.Format)
		c.preview(rules)
		return nil
	}

	if err := opts.Format.Writer(c.Log).Write(rules, opts.Output); err != nil {
		return errors.Wrapf(err, "writing %s config to %s", opts.Format, opts.Output)
	}
	fmt.Fprintf(c.Out, "Wrote %d rule(s) as %s to %s\n", len(rules), opts.Format, opts.Output)
	return nil
}

// ViaStore pushes the parsed source into a namespace, commits, and writes
// the freshly stored set as the target format.
func (c *Converter) ViaStore(st *store.Store, opts ViaStoreOptions) error {
	rules, err := opts.From.Parser().Parse(opts.Input)
	if err != nil {
		return errors.Wrapf(err, "parsing %s config at %s", opts.From, opts.Input)
	}
	rules = Filter(rules, opts.Scope)

	if len(rules) == 0 {
		c.Log.Warn("no rules found after parsing", "format", string(opts.From), "input", opts.Input)
		return nil
	}

	if opts.DryRun {
		fmt.Fprintf(c.Out, "Dry run: %d rule(s) from %s via store/%s to %s\n",
			len(rules), opts.From, opts.Project, opts.To)
		c.preview(rules)
		return nil
	}

	stored, err := st.SaveRules(opts.Project, rules, string(opts.From))
	if err != nil {
		return err
	}
	if err := git.Commit(st.Path, commitMessage("convert", opts.From)); err != nil {
		return err
	}

	// The store keeps the full set; the path filter only narrows what is
	// written out.
	stored = FilterPath(Filter(stored, opts.Scope), opts.Path)
	if err := opts.To.Writer(c.Log).Write(stored, opts.Output); err != nil {
		return errors.Wrapf(err, "writing %s config to %s", opts.To, opts.Output)
	}
	fmt.Fprintf(c.Out, "Converted %d rule(s): %s via store/%s to %s\n",
		len(stored), opts.From, opts.Project, opts.To)
	return nil
}

func commitMessage(op string, f format.Format) string {
	return fmt.Sprintf("%s from %s (%s)", op, f, time.Now().UTC().Format("2006-01-02"))
}

// preview prints a short summary of each rule for dry runs.
func (c *Converter) preview(rules []ir.Rule) {
	for i, r := range rules {
		fmt.Fprintf(c.Out, "\n--- Rule %d (%s/%s) ---\n", i+1, r.Scope, r.Activation)
		if r.Name != "" {
			fmt.Fprintf(c.Out, "name: %s\n", r.Name)
		}
		if r.Description != "" {
			fmt.Fprintf(c.Out, "description: %s\n", r.Description)
		}
		content := []rune(r.Content)
		if len(content) > previewChars {
			fmt.Fprintf(c.Out, "%s\n... (%d chars total)\n", string(content[:previewChars]), len(content))
		} else {
			fmt.Fprintf(c.Out, "%s\n", r.Content)
		}
	}
}

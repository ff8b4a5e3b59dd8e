// Package discover reports the canonical user-level config locations for
// each format: where a tool keeps its per-user rules, whether anything is
// there, and how big it is. It is read-only reconnaissance; nothing is
// parsed or converted.
package discover

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/thoreinstein/polyrc/internal/format"
	"github.com/thoreinstein/polyrc/pkg/fileutil"
)

// Kind distinguishes the shapes a user-level config location can take.
type Kind int

const (
	// KindFile is a single config file.
	KindFile Kind = iota
	// KindDir is a directory whose matching files are the config.
	KindDir
	// KindWebUI is config held in a web or app UI with no local file.
	KindWebUI
)

// Location is one candidate user-level config location for a format.
type Location struct {
	Kind Kind
	// Path is set for KindFile and KindDir.
	Path string
	// Extension filters directory entries for KindDir (without the dot).
	Extension string
	// Note is extra context shown alongside the status.
	Note string
	// Hint describes where to look for KindWebUI.
	Hint string
}

// Context carries the directories discovery resolves against, threaded in
// explicitly so reports are testable.
type Context struct {
	// Home is the user's home directory.
	Home string
	// ConfigDir is the platform config directory (e.g. ~/.config or
	// ~/Library/Application Support).
	ConfigDir string
}

// UserLocations returns the canonical user-level config locations for a
// format.
func UserLocations(ctx Context, f format.Format) []Location {
	switch f {
	case format.Claude:
		return []Location{
			{Kind: KindFile, Path: filepath.Join(ctx.Home, ".claude", "CLAUDE.md")},
			{Kind: KindDir, Path: filepath.Join(ctx.Home, ".claude", "rules"), Extension: "md"},
		}
	case format.Gemini:
		return []Location{
			{Kind: KindFile, Path: filepath.Join(ctx.Home, ".gemini", "GEMINI.md")},
		}
	case format.Antigravity:
		return []Location{
			{Kind: KindDir, Path: filepath.Join(ctx.Home, ".gemini", "antigravity", "rules"), Extension: "md"},
		}
	case format.Windsurf:
		return []Location{
			{Kind: KindFile, Path: filepath.Join(ctx.Home, ".codeium", "windsurf", "memories", "global_rules.md")},
		}
	case format.Cursor:
		// User rules live inside the editor's settings JSON, not a
		// standalone rules file.
		return []Location{{
			Kind: KindFile,
			Path: filepath.Join(ctx.ConfigDir, "Cursor", "User", "settings.json"),
			Note: "user rules embedded in JSON, edit via Cursor Settings UI",
		}}
	case format.Copilot:
		return []Location{{
			Kind: KindWebUI,
			Hint: "github.com > Settings > Copilot > Personal instructions",
		}}
	default:
		return nil
	}
}

// Report prints the user-level config locations for the given formats.
func Report(w io.Writer, ctx Context, formats []format.Format) {
	if len(formats) == 1 {
		fmt.Fprintf(w, "User-level configs for %s:\n\n", formats[0])
	} else {
		fmt.Fprintf(w, "User-level configs (all formats):\n\n")
	}

	for _, f := range formats {
		fmt.Fprintf(w, "  %s:\n", f)
		locs := UserLocations(ctx, f)
		if len(locs) == 0 {
			fmt.Fprintln(w, "    (no user-level config locations defined)")
		}
		for _, loc := range locs {
			printLocation(w, ctx, loc)
		}
		fmt.Fprintln(w)
	}
}

func printLocation(w io.Writer, ctx Context, loc Location) {
	switch loc.Kind {
	case KindFile:
		display := tilde(ctx.Home, loc.Path)
		if _, err := os.Stat(loc.Path); err != nil {
			fmt.Fprintf(w, "    %-60s  not found\n", display)
			return
		}
		status := fmt.Sprintf("found  (%d lines)", lineCount(loc.Path))
		if loc.Note != "" {
			status += "  [" + loc.Note + "]"
		}
		fmt.Fprintf(w, "    %-60s  %s\n", display, status)

	case KindDir:
		display := tilde(ctx.Home, loc.Path) + "/"
		if _, err := os.Stat(loc.Path); err != nil {
			fmt.Fprintf(w, "    %-60s  not found\n", display)
			return
		}
		names := dirFiles(loc.Path, loc.Extension)
		if len(names) == 0 {
			fmt.Fprintf(w, "    %-60s  found  (empty)\n", display)
			return
		}
		fmt.Fprintf(w, "    %-60s  found  (%d file(s): %s)\n",
			display, len(names), strings.Join(names, ", "))

	case KindWebUI:
		fmt.Fprintf(w, "    web UI: %s\n", loc.Hint)
	}
}

// tilde replaces the home directory prefix with ~ for display.
func tilde(home, path string) string {
	if home == "" {
		return path
	}
	if rel, err := filepath.Rel(home, path); err == nil && !strings.HasPrefix(rel, "..") {
		return "~/" + filepath.ToSlash(rel)
	}
	return path
}

func lineCount(path string) int {
	raw, err := fileutil.ReadFile(path)
	if err != nil {
		return 0
	}
	if len(raw) == 0 {
		return 0
	}
	return strings.Count(strings.TrimRight(string(raw), "\n"), "\n") + 1
}

func dirFiles(dir, ext string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if filepath.Ext(e.Name()) == "."+ext {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

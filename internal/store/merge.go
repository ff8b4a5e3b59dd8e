package store

import (
	"fmt"

	"github.com/thoreinstein/polyrc/internal/ir"
)

// MergeResult is the outcome of merging two rule sets.
type MergeResult struct {
	// Merged is the combined rule set.
	Merged []ir.Rule
	// Warnings describes each conflict resolved by last-write-wins.
	Warnings []string
}

// Merge combines incoming rules into local rules. It is pure: neither
// input slice is mutated and no IO happens.
//
// Matching is by ID. Incoming rules without an ID, or with an ID absent
// from local, are appended. A matched pair identical in content, scope,
// and activation is a no-op. Otherwise the whole record with the later
// UpdatedAt wins (an absent timestamp always loses, ties keep local) and
// one warning names the rule and the winning side. Local-only rules are
// kept unchanged.
func Merge(local, incoming []ir.Rule) MergeResult {
	merged := make([]ir.Rule, len(local))
	copy(merged, local)

	var warnings []string
	for _, inc := range incoming {
		if inc.ID == "" {
			merged = append(merged, inc)
			continue
		}

		pos := -1
		for i, r := range merged {
			if r.ID == inc.ID {
				pos = i
				break
			}
		}
		if pos < 0 {
			merged = append(merged, inc)
			continue
		}

		loc := merged[pos]
		if loc.Content == inc.Content && loc.Scope == inc.Scope && loc.Activation == inc.Activation {
			continue
		}

		// Zero times never win, so present-vs-absent falls out of After.
		if inc.UpdatedAt.After(loc.UpdatedAt) {
			warnings = append(warnings, fmt.Sprintf(
				"conflict on rule %q: remote version is newer, keeping remote", displayName(inc)))
			merged[pos] = inc
		} else {
			warnings = append(warnings, fmt.Sprintf(
				"conflict on rule %q: local version is newer or equal, keeping local", displayName(loc)))
		}
	}
	return MergeResult{Merged: merged, Warnings: warnings}
}

func displayName(r ir.Rule) string {
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}

package usd

import (
	"regexp"
	"strings"
)

// splitSelectionRE splits a selection string on comma or whitespace runs.
var splitSelectionRE = regexp.MustCompile(`[\s,]+`)

// SplitSelection splits a comma/whitespace-separated selection string into
// individual patterns, dropping empty entries.
func SplitSelection(selection string) []string {
	var patterns []string
	for _, p := range splitSelectionRE.Split(selection, -1) {
		if p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
}

// ResolvePrims returns the prim paths of the given kind matched by a
// comma/whitespace-separated selection of patterns.
//
// Each pattern has "*" expanded to an any-sequence wildcard and is anchored
// to the path root with a leading "/" when it has none. Matching is a
// substring search, not a full match: "final" selects both /Render/final and
// /Render/final_high, and "rs1" also selects /Render/rs10. This looseness is
// deliberate and load-bearing for existing selections; anchor explicitly if
// an exact match is needed.
//
// Results follow pattern order, then bucket order within a pattern.
// Duplicates across patterns are kept. A pattern that matches nothing, a
// syntactically invalid pattern, and an empty bucket all contribute nothing;
// none of them is an error.
func (g *RenderGraph) ResolvePrims(selection string, kind PrimKind) []string {
	candidates := g.PrimsOfKind(kind)

	var matches []string
	for _, pattern := range SplitSelection(selection) {
		expanded := strings.ReplaceAll(pattern, "*", ".*")
		if !strings.HasPrefix(expanded, "/") {
			expanded = "/" + expanded
		}

		re, err := regexp.Compile(expanded)
		if err != nil {
			continue
		}

		for _, path := range candidates {
			if re.MatchString(path) {
				matches = append(matches, path)
			}
		}
	}

	return matches
}

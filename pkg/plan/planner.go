// Package plan resolves user selections against a render graph into the
// concrete per-pass settings and output lists a submission needs.
//
// The planner walks the sparse relationship graph extracted by pkg/usd with
// fixed precedence rules: an explicit settings selection always replaces
// pass-derived settings, and an explicit output list short-circuits graph
// traversal entirely. Empty results are advisory, never errors. A pass with
// no resolvable outputs is reported as such and the caller decides whether
// that blocks the submission.
package plan

import (
	"strings"

	"github.com/renderkit/husksubmit/pkg/usd"
)

// Request carries the optional user overrides for one planning call.
// Zero values mean "derive from the graph".
type Request struct {
	// PassPaths selects RenderPass prims by exact path, used verbatim and
	// in order. It takes precedence over PassSelection, so callers that
	// already hold concrete paths (the interactive picker) are not subject
	// to the resolver's substring matching.
	PassPaths []string

	// PassSelection selects RenderPass prims by pattern. Empty means no
	// explicit pass: the layer-default settings drive a single job.
	PassSelection string

	// SettingsSelection selects RenderSettings prims by pattern. When set it
	// replaces the pass-derived settings entirely.
	SettingsSelection string

	// OutputOverride is a comma-separated list of output identifiers used
	// verbatim for every selected pass, bypassing graph traversal.
	OutputOverride string
}

// PassPlan is the resolved settings and outputs for one render pass.
type PassPlan struct {
	// Pass is the RenderPass prim path, or "" for the layer default.
	Pass string `json:"pass"`

	// Settings are the RenderSettings prim paths driving this pass.
	Settings []string `json:"settings"`

	// Outputs are the output image identifiers to request from the
	// renderer, in traversal order.
	Outputs []string `json:"outputs"`
}

// Plan computes the ordered per-pass plans for one render graph.
//
// Precedence, evaluated per candidate pass:
//  1. Candidate passes come from PassPaths verbatim, else from
//     PassSelection, or a single synthetic empty pass when no selection
//     is given.
//  2. Settings are the pass's renderSource targets (the layer default for
//     the synthetic pass); SettingsSelection replaces them when set.
//  3. Outputs come from OutputOverride verbatim when set; otherwise from the
//     settings → products → product-name traversal.
//
// Empty settings or output lists are legal results.
func Plan(g *usd.RenderGraph, req Request) []PassPlan {
	passes := []string{""}
	switch {
	case len(req.PassPaths) > 0:
		passes = req.PassPaths
	case req.PassSelection != "":
		passes = g.ResolvePrims(req.PassSelection, usd.KindRenderPass)
	}

	override := splitOutputs(req.OutputOverride)

	plans := make([]PassPlan, 0, len(passes))
	for _, pass := range passes {
		settings := settingsFor(g, pass, req.SettingsSelection)

		outputs := override
		if req.OutputOverride == "" {
			outputs = traverseOutputs(g, settings)
		}

		plans = append(plans, PassPlan{Pass: pass, Settings: settings, Outputs: outputs})
	}

	return plans
}

// settingsFor resolves the settings list for one candidate pass. An explicit
// selection always wins over pass-derived settings.
func settingsFor(g *usd.RenderGraph, pass, selection string) []string {
	if selection != "" {
		return g.ResolvePrims(selection, usd.KindRenderSettings)
	}
	if pass == "" {
		return []string{g.RenderSettingsPath}
	}
	return g.Targets(pass)
}

// traverseOutputs walks settings → products → targets, keeping only targets
// recorded as product names. Unclassified or missing prims contribute
// nothing; forward references never fail.
func traverseOutputs(g *usd.RenderGraph, settings []string) []string {
	var outputs []string
	for _, s := range settings {
		for _, product := range g.Targets(s) {
			for _, target := range g.Targets(product) {
				if g.IsProductName(target) {
					outputs = append(outputs, target)
				}
			}
		}
	}
	return outputs
}

// splitOutputs splits a comma-separated override into trimmed entries.
func splitOutputs(override string) []string {
	if override == "" {
		return nil
	}
	var outputs []string
	for _, entry := range strings.Split(override, ",") {
		if entry = strings.TrimSpace(entry); entry != "" {
			outputs = append(outputs, entry)
		}
	}
	return outputs
}

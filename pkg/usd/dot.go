package usd

import (
	"bytes"
	"fmt"
)

// kindFill maps prim kinds to Graphviz fill colors for the node-link export.
var kindFill = map[PrimKind]string{
	KindRenderPass:     "lightgoldenrod1",
	KindRenderSettings: "lightblue",
	KindRenderProduct:  "palegreen",
	KindRenderVar:      "white",
}

// ToDOT converts a render graph to Graphviz DOT format: one node per
// classified prim plus one per product name, and one edge per relationship
// target. The DOT string can be rendered with any Graphviz toolchain.
func ToDOT(g *RenderGraph) string {
	var buf bytes.Buffer
	buf.WriteString("digraph RenderGraph {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for _, kind := range Kinds {
		for _, path := range g.PrimsOfKind(kind) {
			fmt.Fprintf(&buf, "  %q [fillcolor=%s, label=%q];\n", path, kindFill[kind], fmt.Sprintf("%s\n%s", path, kind))
		}
	}
	for _, name := range g.ProductNames {
		fmt.Fprintf(&buf, "  %q [style=\"filled,dashed\", fillcolor=lightgrey];\n", name)
	}

	buf.WriteString("\n")
	for _, kind := range Kinds {
		for _, src := range g.PrimsOfKind(kind) {
			for _, target := range g.Targets(src) {
				fmt.Fprintf(&buf, "  %q -> %q;\n", src, target)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

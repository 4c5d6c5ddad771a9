// Package usd extracts render metadata from flattened USD layer dumps.
//
// # Overview
//
// husksubmit never links against the USD libraries. Instead it parses the
// textual output of `usdcat --flatten --mask /Render`, which resolves all
// composition arcs and prints the render subtree as indented prim blocks.
// This package turns that text into a typed [RenderGraph]: the render-related
// prims (settings, products, vars, passes), the named relationships between
// them, and the normalized product names (output image identifiers).
//
// # Input Format
//
// The dump starts with a metadata preamble terminated by a lone ")" line,
// followed by prim blocks whose nesting is encoded as 4-space indentation:
//
//	(
//	    startTimeCode = 1001
//	    endTimeCode = 1250
//	)
//
//	def Scope "Render"
//	{
//	    def RenderSettings "rendersettings"
//	    {
//	        rel products = [
//	            </Render/Products/renderproduct>,
//	        ]
//	    }
//	}
//
// Relationship values are a single angle-bracketed path, a multi-line "["
// list of such paths, or a "{" map of time-sampled literals. Product-name
// literals have their embedded frame number replaced with a printf-style
// padding token (image.1001.exr → image.%04d.exr) before being recorded.
//
// # Tolerance
//
// Parsing is deliberately forgiving: lines that match nothing are skipped,
// unknown prim kinds only contribute to path reconstruction, and references
// to prims that never appear resolve to empty sets downstream. The only
// fatal condition is a metadata preamble that never closes, which means the
// dump is not a layer at all.
//
// # Pattern Matching
//
// [RenderGraph.ResolvePrims] matches user selection patterns against prim
// paths with substring (not anchored) semantics: the pattern "final" matches
// both /Render/final and /Render/final_high, and "rs1" also matches
// /Render/rs10. This mirrors the behavior render wranglers already rely on;
// anchor your pattern explicitly if you need an exact match.
//
// # Concurrency
//
// A Parser instance carries per-file state and must not be shared, but
// distinct files may be parsed concurrently with distinct parsers. A
// RenderGraph is immutable after Parse returns and safe for concurrent reads.
package usd

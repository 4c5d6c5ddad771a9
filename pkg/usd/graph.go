package usd

import (
	"encoding/json"
	"fmt"
	"io"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// DefaultRenderSettingsPath is the layer-default render settings prim used
// when a dump carries no explicit renderSettingsPrimPath metadata.
const DefaultRenderSettingsPath = "/Render/rendersettings"

// PrimKind identifies the render-related prim schemas the extractor records.
type PrimKind string

// Prim kinds relevant to rendering. The set is closed: unknown kinds still
// participate in path reconstruction but are not recorded in any bucket.
const (
	KindRenderSettings PrimKind = "RenderSettings"
	KindRenderProduct  PrimKind = "RenderProduct"
	KindRenderVar      PrimKind = "RenderVar"
	KindRenderPass     PrimKind = "RenderPass"
)

// Kinds lists all recognized prim kinds in a stable order.
var Kinds = []PrimKind{KindRenderSettings, KindRenderProduct, KindRenderVar, KindRenderPass}

// Relationship names the extractor records.
const (
	RelProducts     = "products"
	RelRenderSource = "renderSource"
	RelOrderedVars  = "orderedVars"
	RelProductName  = "productName.timeSamples"
)

// =============================================================================
// RenderGraph - Extracted Render Metadata
// =============================================================================

// RenderGraph is the typed result of parsing one flattened layer dump.
// It is built once by [Parse] and read-only afterwards.
type RenderGraph struct {
	// Layer metadata scalars.
	StartTimeCode string `json:"start_time_code,omitempty"`
	EndTimeCode   string `json:"end_time_code,omitempty"`

	// RenderSettingsPath is the layer's default render-settings prim path.
	RenderSettingsPath string `json:"render_settings_path"`

	// Prims holds the ordered prim paths observed per kind.
	Prims map[PrimKind][]string `json:"prims"`

	// ProductNames holds the normalized output identifiers in file order.
	// Entries also appear as relationship targets of their RenderProduct;
	// membership here is what distinguishes a product name from a var path.
	ProductNames []string `json:"product_names,omitempty"`

	// Relationships maps a source prim path to its ordered target list.
	// Targets are prim paths or product-name literals; the last target of a
	// RenderProduct is its output-identifier candidate.
	Relationships map[string][]string `json:"relationships,omitempty"`

	productNameSet map[string]bool
}

// NewRenderGraph returns an empty graph with all buckets initialized.
func NewRenderGraph() *RenderGraph {
	return &RenderGraph{
		RenderSettingsPath: DefaultRenderSettingsPath,
		Prims:              make(map[PrimKind][]string, len(Kinds)),
		Relationships:      make(map[string][]string),
		productNameSet:     make(map[string]bool),
	}
}

// addPrim records path in the bucket for kind. Paths already present are
// ignored so repeated definitions in the dump stay idempotent.
func (g *RenderGraph) addPrim(kind PrimKind, path string) {
	for _, p := range g.Prims[kind] {
		if p == path {
			return
		}
	}
	g.Prims[kind] = append(g.Prims[kind], path)
}

// addProductName records a normalized output identifier.
func (g *RenderGraph) addProductName(name string) {
	if g.productNameSet[name] {
		return
	}
	g.productNameSet[name] = true
	g.ProductNames = append(g.ProductNames, name)
}

// addTarget appends target to the relationship list of src, creating the
// list on first use. Order is preserved; duplicates are kept.
func (g *RenderGraph) addTarget(src, target string) {
	g.Relationships[src] = append(g.Relationships[src], target)
}

// PrimsOfKind returns the ordered paths recorded for kind.
// The returned slice is shared; callers must not modify it.
func (g *RenderGraph) PrimsOfKind(kind PrimKind) []string {
	return g.Prims[kind]
}

// HasPrim reports whether path was recorded under kind.
func (g *RenderGraph) HasPrim(kind PrimKind, path string) bool {
	for _, p := range g.Prims[kind] {
		if p == path {
			return true
		}
	}
	return false
}

// IsProductName reports whether s was recorded as a product-name literal.
func (g *RenderGraph) IsProductName(s string) bool {
	if g.productNameSet != nil {
		return g.productNameSet[s]
	}
	for _, n := range g.ProductNames {
		if n == s {
			return true
		}
	}
	return false
}

// Targets returns the ordered relationship targets of src. A source with no
// recorded relationships yields nil; forward references are legal.
func (g *RenderGraph) Targets(src string) []string {
	return g.Relationships[src]
}

// PrimCount returns the total number of classified prims across all kinds.
func (g *RenderGraph) PrimCount() int {
	n := 0
	for _, kind := range Kinds {
		n += len(g.Prims[kind])
	}
	return n
}

// RelationshipCount returns the number of prims with recorded relationships.
func (g *RenderGraph) RelationshipCount() int {
	return len(g.Relationships)
}

// FrameRange returns "start-end" from the layer metadata, or "" when either
// time code is missing.
func (g *RenderGraph) FrameRange() string {
	if g.StartTimeCode == "" || g.EndTimeCode == "" {
		return ""
	}
	return fmt.Sprintf("%s-%s", g.StartTimeCode, g.EndTimeCode)
}

// =============================================================================
// Serialization
// =============================================================================

// WriteJSON writes the graph as indented JSON to w.
func (g *RenderGraph) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// MarshalGraph converts a graph to JSON bytes.
func MarshalGraph(g *RenderGraph) ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}

// UnmarshalGraph deserializes JSON bytes to a RenderGraph, rebuilding the
// product-name membership index.
func UnmarshalGraph(data []byte) (*RenderGraph, error) {
	g := NewRenderGraph()
	if err := json.Unmarshal(data, g); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if g.Prims == nil {
		g.Prims = make(map[PrimKind][]string)
	}
	if g.Relationships == nil {
		g.Relationships = make(map[string][]string)
	}
	g.productNameSet = make(map[string]bool, len(g.ProductNames))
	for _, n := range g.ProductNames {
		g.productNameSet[n] = true
	}
	return g, nil
}

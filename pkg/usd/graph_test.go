package usd

import (
	"reflect"
	"strings"
	"testing"
)

func TestRenderGraph_RoundTrip(t *testing.T) {
	g := mustParse(t, flattenedDump)

	data, err := MarshalGraph(g)
	if err != nil {
		t.Fatalf("MarshalGraph failed: %v", err)
	}

	back, err := UnmarshalGraph(data)
	if err != nil {
		t.Fatalf("UnmarshalGraph failed: %v", err)
	}

	if !reflect.DeepEqual(g, back) {
		t.Error("graph changed across JSON round trip")
	}
	if !back.IsProductName("render/beauty.%04d.exr") {
		t.Error("product-name index not rebuilt after unmarshal")
	}
}

func TestRenderGraph_Counts(t *testing.T) {
	g := mustParse(t, flattenedDump)

	if got := g.PrimCount(); got != 6 {
		t.Errorf("PrimCount = %d, want 6", got)
	}
	if got := g.RelationshipCount(); got != 4 {
		t.Errorf("RelationshipCount = %d, want 4", got)
	}
}

func TestRenderGraph_WriteJSON(t *testing.T) {
	g := mustParse(t, flattenedDump)

	var sb strings.Builder
	if err := g.WriteJSON(&sb); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	out := sb.String()

	for _, want := range []string{`"render_settings_path"`, "/Render/rendersettings", "render/beauty.%04d.exr"} {
		if !strings.Contains(out, want) {
			t.Errorf("JSON output missing %q", want)
		}
	}
}

func TestToDOT(t *testing.T) {
	g := mustParse(t, flattenedDump)
	dot := ToDOT(g)

	for _, want := range []string{
		"digraph RenderGraph",
		`"/Render/final"`,
		`"/Render/rendersettings" -> "/Render/Products/beauty"`,
		`"/Render/Products/beauty" -> "render/beauty.%04d.exr"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q", want)
		}
	}
}

func TestHasPrim(t *testing.T) {
	g := mustParse(t, flattenedDump)

	if !g.HasPrim(KindRenderPass, "/Render/final") {
		t.Error("HasPrim(final) = false, want true")
	}
	if g.HasPrim(KindRenderSettings, "/Render/final") {
		t.Error("HasPrim wrong kind = true, want false")
	}
}

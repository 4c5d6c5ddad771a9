package usd

import (
	"testing"

	"github.com/renderkit/husksubmit/pkg/errors"
)

const layerMetadataDump = `#usda 1.0
(
    defaultPrim = "Render"
    endTimeCode = 1250
    framesPerSecond = 24
    metersPerUnit = 1
    startTimeCode = 1001
    upAxis = "Y"
)
`

func TestParseLayerMetadata(t *testing.T) {
	meta, err := ParseLayerMetadataText(layerMetadataDump)
	if err != nil {
		t.Fatalf("ParseLayerMetadata failed: %v", err)
	}

	if got := meta.StartTimeCode(); got != "1001" {
		t.Errorf("StartTimeCode = %q, want 1001", got)
	}
	if got := meta.EndTimeCode(); got != "1250" {
		t.Errorf("EndTimeCode = %q, want 1250", got)
	}
	if got := meta.FrameRange(); got != "1001-1250" {
		t.Errorf("FrameRange = %q, want 1001-1250", got)
	}
	if got := meta.Get("upAxis"); got != "Y" {
		t.Errorf("upAxis = %q, want Y", got)
	}
	if got := meta.Get("framesPerSecond"); got != "24" {
		t.Errorf("framesPerSecond = %q, want 24", got)
	}
}

func TestParseLayerMetadata_Unterminated(t *testing.T) {
	_, err := ParseLayerMetadataText("(\n    startTimeCode = 1001\n")
	if !errors.Is(err, errors.ErrCodeMalformedLayer) {
		t.Errorf("error = %v, want MALFORMED_LAYER", err)
	}
}

func TestParseLayerMetadata_MissingTimeCodes(t *testing.T) {
	meta, err := ParseLayerMetadataText("(\n    upAxis = \"Y\"\n)\n")
	if err != nil {
		t.Fatalf("ParseLayerMetadata failed: %v", err)
	}
	if got := meta.FrameRange(); got != "" {
		t.Errorf("FrameRange = %q, want empty", got)
	}
}

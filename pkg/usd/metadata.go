package usd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/renderkit/husksubmit/pkg/errors"
)

// LayerMetadata holds the scalar metadata of a layer, as printed by
// `usdcat --layerMetadata`. All values are kept as strings; the dump format
// does not distinguish numeric types reliably enough to parse them here.
type LayerMetadata struct {
	Fields map[string]string
}

// Get returns the value for key, or "" when absent.
func (m LayerMetadata) Get(key string) string {
	return m.Fields[key]
}

// StartTimeCode returns the layer's start frame, or "" when absent.
func (m LayerMetadata) StartTimeCode() string { return m.Fields[metaStartTimeCode] }

// EndTimeCode returns the layer's end frame, or "" when absent.
func (m LayerMetadata) EndTimeCode() string { return m.Fields[metaEndTimeCode] }

// FrameRange returns "start-end", or "" when either time code is absent.
func (m LayerMetadata) FrameRange() string {
	start, end := m.StartTimeCode(), m.EndTimeCode()
	if start == "" || end == "" {
		return ""
	}
	return fmt.Sprintf("%s-%s", start, end)
}

// ParseLayerMetadata reads a layer-metadata dump: "key = value" pairs up to
// a lone ")" terminator. Lines matching neither form are ignored. A dump
// that ends before the terminator is malformed and fails with
// [errors.ErrCodeMalformedLayer].
func ParseLayerMetadata(r io.Reader) (LayerMetadata, error) {
	meta := LayerMetadata{Fields: make(map[string]string)}

	closed := false
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if closed {
			continue
		}
		if line == ")" {
			closed = true
			continue
		}

		key, value, found := strings.Cut(line, " = ")
		if !found {
			continue
		}
		meta.Fields[strings.TrimSpace(key)] = strings.Trim(value, `"<>`)
	}
	if err := scanner.Err(); err != nil {
		return LayerMetadata{}, errors.Wrap(errors.ErrCodeMalformedLayer, err, "read layer metadata")
	}

	if !closed {
		return LayerMetadata{}, errors.New(errors.ErrCodeMalformedLayer, "metadata preamble never closed")
	}

	return meta, nil
}

// ParseLayerMetadataText parses layer metadata held in memory.
func ParseLayerMetadataText(text string) (LayerMetadata, error) {
	return ParseLayerMetadata(strings.NewReader(text))
}

package usd

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	"github.com/renderkit/husksubmit/pkg/errors"
)

// =============================================================================
// Line Patterns
// =============================================================================

var (
	// defRE matches a prim definition line: def <Kind> "<Name>".
	defRE = regexp.MustCompile(`def (\S+) "([^"]+)"`)

	// relRE matches a relationship or token attribute of interest. The value
	// group captures a bracketed path with the brackets stripped, or the
	// opening token of a multi-line block ("[" or "{").
	relRE = regexp.MustCompile(`(?:rel|token) (products|renderSource|orderedVars|productName\.timeSamples) = <?([^>]+)>?`)

	// arrayEntryRE matches one entry of a bracketed path list.
	arrayEntryRE = regexp.MustCompile(`<(.*)>`)

	// mapEntryRE matches one entry of a time-samples map: 1001: "value",
	mapEntryRE = regexp.MustCompile(`\d+: "(.+)",`)
)

// Layer metadata fields recognized by the preamble parser.
const (
	metaStartTimeCode      = "startTimeCode"
	metaEndTimeCode        = "endTimeCode"
	metaRenderSettingsPath = "renderSettingsPrimPath"
)

// =============================================================================
// Resume State
// =============================================================================

// resumeMode enumerates the multi-line sub-parser states. The zero value is
// resumeIdle, so a fresh parser starts outside any block.
type resumeMode int

const (
	resumeIdle  resumeMode = iota // no block open
	resumeArray                   // consuming "[" path-list entries
	resumeMap                     // consuming "{" time-sample entries
	resumeSkip                    // discarding lines until the terminator
)

// resumeState configures the active multi-line block, if any.
type resumeState struct {
	mode       resumeMode
	entry      *regexp.Regexp // per-line capture pattern
	terminator string         // substring that closes the block
}

// =============================================================================
// Parser
// =============================================================================

// parser holds the forward-pass state for one dump. All state is local so
// independent files can be parsed concurrently with independent parsers.
type parser struct {
	graph *RenderGraph

	inMetadata bool // preamble not yet terminated

	accumPath  string // innermost prim context, reconstructed from indentation
	accumDepth int

	resume resumeState
}

// Parse reads a flattened layer dump from r and extracts its render graph.
// It fails only when the metadata preamble never closes; every other anomaly
// degrades to skipped lines or empty buckets.
func Parse(r io.Reader) (*RenderGraph, error) {
	p := &parser{
		graph:      NewRenderGraph(),
		inMetadata: true,
		accumDepth: -1,
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		p.line(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedLayer, err, "read layer dump")
	}

	if p.inMetadata {
		return nil, errors.New(errors.ErrCodeMalformedLayer, "metadata preamble never closed")
	}

	return p.graph, nil
}

// ParseText parses a dump held in memory. See [Parse].
func ParseText(text string) (*RenderGraph, error) {
	return Parse(strings.NewReader(text))
}

// line dispatches one input line to the active mode.
func (p *parser) line(line string) {
	if p.inMetadata {
		p.metadataLine(line)
		return
	}
	if p.resume.mode != resumeIdle {
		p.resumeLine(line)
		return
	}

	if m := defRE.FindStringSubmatch(line); m != nil {
		p.primLine(line, m[1], m[2])
		return
	}

	if m := relRE.FindStringSubmatch(line); m != nil {
		p.relationshipLine(m[2])
	}
}

// metadataLine handles the preamble. A lone ")" terminates metadata mode
// permanently; "key = value" pairs store recognized scalars; anything else
// is ignored.
func (p *parser) metadataLine(line string) {
	trimmed := strings.TrimSpace(line)
	if trimmed == ")" {
		p.inMetadata = false
		return
	}

	key, value, found := strings.Cut(trimmed, " = ")
	if !found {
		return
	}
	value = strings.Trim(value, `"<>`)

	switch strings.TrimSpace(key) {
	case metaStartTimeCode:
		p.graph.StartTimeCode = value
	case metaEndTimeCode:
		p.graph.EndTimeCode = value
	case metaRenderSettingsPath:
		if value != "" {
			p.graph.RenderSettingsPath = value
		}
	}
}

// primLine reconstructs the prim's path from its indentation depth and
// records it when the kind is recognized.
//
// Depth is leading spaces divided by 4, floored. Deeper than the previous
// prim appends a segment; equal or shallower pops (prevDepth-depth+1)
// segments first. This rebuilds the hierarchy without tracking braces.
func (p *parser) primLine(line, kind, name string) {
	depth := leadingSpaces(line) / 4

	if depth > p.accumDepth {
		p.accumDepth = depth
	} else {
		for i := 0; i <= p.accumDepth-depth; i++ {
			p.accumPath = popSegment(p.accumPath)
		}
		p.accumDepth = depth
	}
	p.accumPath += "/" + name

	if k := PrimKind(kind); isRecognizedKind(k) {
		p.graph.addPrim(k, p.accumPath)
	}
}

// relationshipLine records a single bracketed target, or opens a multi-line
// block when the value is "[" or "{". Opening a block still materializes the
// source's (possibly empty) relationship list. Targets are keyed by source
// prim only; the relationship name just selects which lines to record.
func (p *parser) relationshipLine(value string) {
	src := p.accumPath
	if _, ok := p.graph.Relationships[src]; !ok {
		p.graph.Relationships[src] = []string{}
	}

	switch value {
	case "[":
		p.resume = resumeState{mode: resumeArray, entry: arrayEntryRE, terminator: "]"}
	case "{":
		p.resume = resumeState{mode: resumeMap, entry: mapEntryRE, terminator: "}"}
	default:
		p.graph.addTarget(src, value)
	}
}

// resumeLine consumes one line of an open multi-line block.
//
// The terminator is checked first, so a line carrying both an entry and the
// terminator closes the block without capturing. A consuming line that fails
// to match also closes the block: the dump is assumed malformed from there
// and the remaining entries are abandoned rather than guessed at.
func (p *parser) resumeLine(line string) {
	if strings.Contains(line, p.resume.terminator) {
		p.resume = resumeState{}
		return
	}

	if p.resume.mode == resumeSkip {
		return
	}

	m := p.resume.entry.FindStringSubmatch(line)
	if m == nil {
		p.resume = resumeState{}
		return
	}
	captured := m[1]

	if p.resume.mode == resumeMap {
		// A single time-sampled value is treated as the current value: take
		// the first sample, then skip the rest of the map.
		captured = ReplacePrintfPadding(captured)
		p.graph.addProductName(captured)
		p.graph.addTarget(p.accumPath, captured)
		p.resume.mode = resumeSkip
		return
	}

	p.graph.addTarget(p.accumPath, captured)
}

// =============================================================================
// Helpers
// =============================================================================

// isRecognizedKind reports whether k is in the closed set of render kinds.
func isRecognizedKind(k PrimKind) bool {
	switch k {
	case KindRenderSettings, KindRenderProduct, KindRenderVar, KindRenderPass:
		return true
	}
	return false
}

// leadingSpaces counts the leading space characters of line.
func leadingSpaces(line string) int {
	return len(line) - len(strings.TrimLeft(line, " "))
}

// popSegment removes the last path segment. Popping a single-segment path
// yields the empty string, so the next append starts again from the root.
func popSegment(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[:i]
	}
	return ""
}

package deadline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// HuskArgs builds the husk command line the render plugin runs on a worker.
type HuskArgs struct {
	SceneFile  string
	LogLevel   int // 0..9, rendered as --verbose a<n> for alfred-style output
	Frame      int
	FrameCount int
	ExtraArgs  string // free-form flags from the submitter, newlines allowed
	Renderer   string // e.g. BRAY_HdKarmaXPU, empty for the scene default
}

// Build returns the argument string appended after the husk executable.
func (a HuskArgs) Build() string {
	var b strings.Builder
	b.WriteString(strings.ReplaceAll(a.SceneFile, "\\", "/"))
	fmt.Fprintf(&b, " --verbose a%d", a.LogLevel)
	fmt.Fprintf(&b, " --frame %d", a.Frame)
	fmt.Fprintf(&b, " --frame-count %d", a.FrameCount)
	b.WriteString(" --make-output-path")
	if extra := strings.TrimSpace(strings.ReplaceAll(a.ExtraArgs, "\n", " ")); extra != "" {
		b.WriteString(" " + extra)
	}
	if a.Renderer != "" {
		b.WriteString(" --renderer " + a.Renderer)
	}
	return b.String()
}

// Stdout patterns the render plugin watches for while husk runs.
var (
	// ErrorPattern matches the USD error lines husk prints on failure.
	ErrorPattern = regexp.MustCompile(`USD ERROR(.*)`)

	// ProgressPattern matches husk's alfred-style progress lines.
	ProgressPattern = regexp.MustCompile(`ALF_PROGRESS ([0-9]+)%`)
)

// MatchError reports whether line is a husk error line, returning the
// error text after the marker.
func MatchError(line string) (string, bool) {
	m := ErrorPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// MatchProgress reports the progress percentage on an ALF_PROGRESS line.
func MatchProgress(line string) (int, bool) {
	m := ProgressPattern.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	pct, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return pct, true
}

// maxGPUs bounds the Karma XPU device mask.
const maxGPUs = 4

// GPUDisableEnv returns the KARMA_XPU_DISABLE_DEVICE_<n>=1 environment
// entries that mask out every device not in the affinity set. Karma has no
// positive device selection, so unwanted devices are disabled instead.
// A nil affinity means no override and returns no entries.
func GPUDisableEnv(affinity []int) []string {
	if affinity == nil {
		return nil
	}
	selected := make(map[int]bool, len(affinity))
	for _, gpu := range affinity {
		selected[gpu] = true
	}

	var env []string
	for gpu := 0; gpu < maxGPUs; gpu++ {
		if selected[gpu] {
			continue
		}
		env = append(env, fmt.Sprintf("KARMA_XPU_DISABLE_DEVICE_%d=1", gpu))
	}
	return env
}

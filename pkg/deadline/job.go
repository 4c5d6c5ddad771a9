// Package deadline generates Deadline job descriptions for the
// HuskStandalone render plugin and submits them through deadlinecommand.
//
// A job is described by two key=value files, job info and plugin info,
// which are written to a temp directory and handed to deadlinecommand.
package deadline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/renderkit/husksubmit/pkg/errors"
)

// PluginName identifies the render plugin on the farm workers.
const PluginName = "HuskStandalone"

// Arg is a single plugin-info argument. Arguments keep their submission
// order, which a map would not preserve.
type Arg struct {
	Name  string
	Value string
}

// Job describes one render job: one scene file rendered by one pass.
type Job struct {
	Name      string
	BatchName string
	Comment   string
	Frames    string
	ChunkSize int
	Outputs   []string

	SceneFile string
	Arguments []Arg
}

// WriteJobInfo writes the job info file contents.
// OutputFilename<N> lines let the farm monitor link finished frames.
func (j *Job) WriteJobInfo(w io.Writer) error {
	lines := []string{
		"Plugin=" + PluginName,
		"Name=" + j.Name,
	}
	if j.BatchName != "" {
		lines = append(lines, "BatchName="+j.BatchName)
	}
	lines = append(lines,
		"Comment="+j.Comment,
		"Frames="+j.Frames,
		fmt.Sprintf("ChunkSize=%d", j.ChunkSize),
	)
	for i, output := range j.Outputs {
		lines = append(lines, fmt.Sprintf("OutputFilename%d=%s", i, output))
	}
	return writeLines(w, lines)
}

// WritePluginInfo writes the plugin info file contents. ArgumentList names
// the argument keys so the render plugin knows which entries to read.
func (j *Job) WritePluginInfo(w io.Writer) error {
	names := make([]string, len(j.Arguments))
	for i, arg := range j.Arguments {
		names[i] = arg.Name
	}
	lines := []string{
		"SceneFile=" + j.SceneFile,
		"ArgumentList=" + strings.Join(names, ";"),
	}
	for _, arg := range j.Arguments {
		lines = append(lines, arg.Name+"="+arg.Value)
	}
	return writeLines(w, lines)
}

// WriteFiles writes the job info and plugin info files into dir and
// returns their paths.
func (j *Job) WriteFiles(dir string) (jobInfo, pluginInfo string, err error) {
	jobInfo = filepath.Join(dir, "husk_job_info.job")
	if err := writeFile(jobInfo, j.WriteJobInfo); err != nil {
		return "", "", err
	}
	pluginInfo = filepath.Join(dir, "husk_plugin_info.job")
	if err := writeFile(pluginInfo, j.WritePluginInfo); err != nil {
		return "", "", err
	}
	return jobInfo, pluginInfo, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeSubmissionFailed, err, "write %s", path)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return errors.Wrap(errors.ErrCodeSubmissionFailed, err, "write %s", path)
	}
	return f.Close()
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// BatchName derives a batch name from the scene files of one submission:
// the shortest common prefix of the paths, reduced to a base name without
// extension. Single-file submissions get no batch name.
//
// Scene_v005.FG.usd + Scene_v005.BG.usd yields Scene_v005.
func BatchName(scenePaths []string) string {
	if len(scenePaths) < 2 {
		return ""
	}
	prefix := commonPrefix(scenePaths)
	if prefix == "" {
		return ""
	}
	base := filepath.Base(prefix)
	if base == "/" || base == "." {
		return ""
	}
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return strings.TrimRight(base, ".")
}

func commonPrefix(paths []string) string {
	prefix := paths[0]
	for _, p := range paths[1:] {
		for !strings.HasPrefix(p, prefix) {
			prefix = prefix[:len(prefix)-1]
			if prefix == "" {
				return ""
			}
		}
	}
	return prefix
}

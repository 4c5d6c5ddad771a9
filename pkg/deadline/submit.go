package deadline

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/renderkit/husksubmit/pkg/errors"
)

// Result records the outcome of one job submission.
type Result struct {
	JobName string `json:"job_name"`
	Success bool   `json:"success"`
	Output  string `json:"output"`
}

// Submitter hands jobs to the farm through the deadlinecommand binary.
type Submitter struct {
	commandPath string
}

// NewSubmitter creates a Submitter using the deadlinecommand at commandPath.
func NewSubmitter(commandPath string) *Submitter {
	return &Submitter{commandPath: commandPath}
}

// Submit writes the job's info files and runs deadlinecommand on them.
// A submission that deadlinecommand itself rejects still produces a Result
// (with Success=false and the captured output); only failures to invoke
// the command at all return an error.
func (s *Submitter) Submit(ctx context.Context, job *Job) (Result, error) {
	dir, err := os.MkdirTemp("", "husksubmit-*")
	if err != nil {
		return Result{}, errors.Wrap(errors.ErrCodeSubmissionFailed, err, "create temp dir")
	}
	defer os.RemoveAll(dir)

	jobInfo, pluginInfo, err := job.WriteFiles(dir)
	if err != nil {
		return Result{}, err
	}

	cmd := exec.CommandContext(ctx, s.commandPath, jobInfo, pluginInfo)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	runErr := cmd.Run()
	output := out.String()
	result := Result{
		JobName: job.Name,
		Success: strings.Contains(output, "Result=Success"),
		Output:  output,
	}

	if runErr != nil && output == "" {
		return Result{}, errors.Wrap(errors.ErrCodeSubmissionFailed, runErr,
			"deadlinecommand failed for %s", job.Name)
	}
	return result, nil
}

// SubmitAll submits jobs in order and collects every result. Submission
// stops early only when the context is cancelled.
func (s *Submitter) SubmitAll(ctx context.Context, jobs []*Job) ([]Result, error) {
	results := make([]Result, 0, len(jobs))
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		result, err := s.Submit(ctx, job)
		if err != nil {
			result = Result{JobName: job.Name, Success: false, Output: err.Error()}
		}
		results = append(results, result)
	}
	return results, nil
}

// FormatResults groups results into successful and failed submissions and
// renders them for display. Failed submissions include their indented
// deadlinecommand output.
func FormatResults(results []Result) string {
	var success, fail []Result
	for _, r := range results {
		if r.Success {
			success = append(success, r)
		} else {
			fail = append(fail, r)
		}
	}

	var b strings.Builder
	if len(success) > 0 {
		b.WriteString("---| Successful Submissions |---\n")
		for _, r := range success {
			b.WriteString(r.JobName + "\n")
		}
		b.WriteString("\n")
	}
	if len(fail) > 0 {
		b.WriteString("-!!|   Failed Submissions   |!!-\n")
		for _, r := range fail {
			b.WriteString(r.JobName + "\n")
			for _, line := range strings.Split(r.Output, "\n") {
				if strings.TrimSpace(line) == "" {
					continue
				}
				b.WriteString("\t" + line + "\n")
			}
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

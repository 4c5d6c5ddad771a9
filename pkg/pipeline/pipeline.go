// Package pipeline provides the core submission pipeline for husksubmit.
//
// This package implements the complete dump → parse → plan → submit flow
// that both the CLI and the API use. Centralizing it keeps behavior
// identical across entry points.
//
// The pipeline consists of four stages:
//
//  1. Dump: Run usdcat to flatten the /Render subtree into text
//  2. Parse: Reconstruct the render graph from the dump
//  3. Plan: Resolve passes, settings, and output paths
//  4. Submit: Generate one Deadline job per pass and hand it to the farm
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(dumper, submitter, store, logger)
//	opts := pipeline.Options{
//	    SceneFiles: []string{"/shots/Scene_v005.FG.usd"},
//	    Comment:    "lighting final",
//	}
//	result, err := runner.Execute(ctx, opts)
package pipeline

import (
	"time"

	"github.com/renderkit/husksubmit/pkg/deadline"
	"github.com/renderkit/husksubmit/pkg/errors"
	"github.com/renderkit/husksubmit/pkg/plan"
	"github.com/renderkit/husksubmit/pkg/usd"
)

const (
	// DefaultChunkSize is the number of frames per farm task.
	DefaultChunkSize = 5

	// DefaultLogLevel is husk's verbosity, 0..9.
	DefaultLogLevel = 0
)

// Options contains all configuration for one submission run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Scene selection
	SceneFiles []string `json:"scene_files"`

	// Job options
	Frames    string `json:"frames,omitempty"` // empty means use the layer's time codes
	ChunkSize int    `json:"chunk_size,omitempty"`
	BatchName string `json:"batch_name,omitempty"` // empty means derive from the scene files
	Comment   string `json:"comment,omitempty"`

	// Planning options
	PassPaths []string `json:"pass_paths,omitempty"` // exact render pass prim paths, wins over Passes
	Passes    string   `json:"passes,omitempty"`     // render pass prim patterns
	Settings  string   `json:"settings,omitempty"`   // render settings prim patterns
	Outputs   string   `json:"outputs,omitempty"`    // explicit output override

	// Husk options
	Renderer  string `json:"renderer,omitempty"`
	LogLevel  int    `json:"log_level,omitempty"`
	ExtraArgs string `json:"extra_args,omitempty"`

	// DryRun plans and generates jobs without contacting the farm.
	DryRun bool `json:"dry_run,omitempty"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.SceneFiles) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "at least one scene file is required")
	}
	for _, path := range o.SceneFiles {
		if err := errors.ValidateScenePath(path); err != nil {
			return err
		}
	}
	if o.ChunkSize < 0 {
		return errors.New(errors.ErrCodeInvalidFrames, "chunk size must not be negative")
	}
	if o.ChunkSize == 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.LogLevel < 0 || o.LogLevel > 9 {
		return errors.New(errors.ErrCodeInvalidInput, "log level must be between 0 and 9")
	}
	if o.BatchName == "" {
		o.BatchName = deadline.BatchName(o.SceneFiles)
	}
	o.validated = true
	return nil
}

// PlanRequest converts the options into a planner request.
func (o *Options) PlanRequest() plan.Request {
	return plan.Request{
		PassPaths:         o.PassPaths,
		PassSelection:     o.Passes,
		SettingsSelection: o.Settings,
		OutputOverride:    o.Outputs,
	}
}

// Submission is the outcome for one scene file.
type Submission struct {
	SceneFile string            `json:"scene_file"`
	Graph     *usd.RenderGraph  `json:"-"`
	Frames    string            `json:"frames"`
	Plans     []plan.PassPlan   `json:"plans"`
	Jobs      []*deadline.Job   `json:"-"`
	Results   []deadline.Result `json:"results,omitempty"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Submissions []Submission
	Stats       Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	SceneCount int
	JobCount   int
	DumpTime   time.Duration
	ParseTime  time.Duration
	SubmitTime time.Duration
}

// AllResults flattens the per-scene submission results.
func (r *Result) AllResults() []deadline.Result {
	var out []deadline.Result
	for _, sub := range r.Submissions {
		out = append(out, sub.Results...)
	}
	return out
}

// Succeeded reports whether every job was accepted by the farm.
func (r *Result) Succeeded() bool {
	for _, sub := range r.Submissions {
		for _, res := range sub.Results {
			if !res.Success {
				return false
			}
		}
	}
	return true
}

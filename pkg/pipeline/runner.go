package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/renderkit/husksubmit/pkg/deadline"
	"github.com/renderkit/husksubmit/pkg/errors"
	"github.com/renderkit/husksubmit/pkg/history"
	"github.com/renderkit/husksubmit/pkg/observability"
	"github.com/renderkit/husksubmit/pkg/plan"
	"github.com/renderkit/husksubmit/pkg/usd"
)

// SceneDumper produces text dumps of a scene file. *houdini.Dumper
// implements it.
type SceneDumper interface {
	Flatten(ctx context.Context, scenePath string) (string, error)
	LayerMetadata(ctx context.Context, scenePath string) (string, error)
}

// JobSubmitter hands one job to the farm. *deadline.Submitter implements it.
type JobSubmitter interface {
	Submit(ctx context.Context, job *deadline.Job) (deadline.Result, error)
}

// Runner executes the submission pipeline. It is stateless apart from its
// collaborators, so one Runner can serve concurrent requests.
type Runner struct {
	Dumper    SceneDumper
	Submitter JobSubmitter
	History   history.Store
	Logger    *log.Logger
}

// NewRunner creates a runner. A nil store disables history recording.
func NewRunner(dumper SceneDumper, submitter JobSubmitter, store history.Store, logger *log.Logger) *Runner {
	if store == nil {
		store = history.NewNullStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Dumper:    dumper,
		Submitter: submitter,
		History:   store,
		Logger:    logger,
	}
}

// Execute runs the complete dump → parse → plan → submit pipeline for
// every scene file in opts. Scenes are processed in order; a scene that
// fails stops the run so the artist sees the failure next to the scene
// that caused it.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}
	for _, scenePath := range opts.SceneFiles {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		sub, err := r.submitScene(ctx, scenePath, opts, &result.Stats)
		if err != nil {
			return result, err
		}
		result.Submissions = append(result.Submissions, *sub)
		result.Stats.SceneCount++
		result.Stats.JobCount += len(sub.Jobs)
	}
	return result, nil
}

// Inspect runs only the dump and parse stages.
func (r *Runner) Inspect(ctx context.Context, scenePath string) (*usd.RenderGraph, error) {
	if err := errors.ValidateScenePath(scenePath); err != nil {
		return nil, err
	}
	text, err := r.dump(ctx, scenePath, &Stats{})
	if err != nil {
		return nil, err
	}
	return r.parse(ctx, scenePath, text, &Stats{})
}

// PlanScene runs dump, parse, and plan without generating or submitting jobs.
func (r *Runner) PlanScene(ctx context.Context, scenePath string, opts Options) (*usd.RenderGraph, []plan.PassPlan, error) {
	if err := errors.ValidateScenePath(scenePath); err != nil {
		return nil, nil, err
	}
	stats := &Stats{}
	text, err := r.dump(ctx, scenePath, stats)
	if err != nil {
		return nil, nil, err
	}
	g, err := r.parse(ctx, scenePath, text, stats)
	if err != nil {
		return nil, nil, err
	}
	plans := plan.Plan(g, opts.PlanRequest())
	observability.Submission().OnPlanComplete(ctx, scenePath, len(plans), countOutputs(plans))
	return g, plans, nil
}

func (r *Runner) submitScene(ctx context.Context, scenePath string, opts Options, stats *Stats) (*Submission, error) {
	text, err := r.dump(ctx, scenePath, stats)
	if err != nil {
		return nil, err
	}
	g, err := r.parse(ctx, scenePath, text, stats)
	if err != nil {
		return nil, err
	}

	plans := plan.Plan(g, opts.PlanRequest())
	observability.Submission().OnPlanComplete(ctx, scenePath, len(plans), countOutputs(plans))
	r.Logger.Info("planned passes",
		"scene", scenePath,
		"passes", len(plans),
		"outputs", countOutputs(plans))

	frames, err := r.frameRange(ctx, scenePath, g, opts)
	if err != nil {
		return nil, err
	}

	sub := &Submission{
		SceneFile: scenePath,
		Graph:     g,
		Frames:    frames,
		Plans:     plans,
	}
	for _, p := range plans {
		sub.Jobs = append(sub.Jobs, r.buildJob(scenePath, frames, p, opts))
	}

	if opts.DryRun {
		return sub, nil
	}

	submitStart := time.Now()
	for _, job := range sub.Jobs {
		observability.Submission().OnSubmitStart(ctx, job.Name)
		jobStart := time.Now()

		res, err := r.Submitter.Submit(ctx, job)
		if err != nil {
			res = deadline.Result{JobName: job.Name, Success: false, Output: err.Error()}
		}
		sub.Results = append(sub.Results, res)
		observability.Submission().OnSubmitComplete(ctx, job.Name, res.Success, time.Since(jobStart))

		r.record(ctx, scenePath, job, res, opts, plans)
	}
	stats.SubmitTime += time.Since(submitStart)
	return sub, nil
}

func (r *Runner) dump(ctx context.Context, scenePath string, stats *Stats) (string, error) {
	observability.Submission().OnDumpStart(ctx, scenePath)
	start := time.Now()

	text, err := r.Dumper.Flatten(ctx, scenePath)
	elapsed := time.Since(start)
	stats.DumpTime += elapsed
	observability.Submission().OnDumpComplete(ctx, scenePath, len(text), elapsed, err)
	if err != nil {
		return "", err
	}

	r.Logger.Debug("dumped scene", "scene", scenePath, "bytes", len(text), "duration", elapsed)
	return text, nil
}

func (r *Runner) parse(ctx context.Context, scenePath, text string, stats *Stats) (*usd.RenderGraph, error) {
	observability.Submission().OnParseStart(ctx, scenePath)
	start := time.Now()

	g, err := usd.ParseText(text)
	elapsed := time.Since(start)
	stats.ParseTime += elapsed

	primCount := 0
	if g != nil {
		primCount = g.PrimCount()
	}
	observability.Submission().OnParseComplete(ctx, scenePath, primCount, elapsed, err)
	if err != nil {
		return nil, err
	}

	r.Logger.Info("parsed render graph",
		"scene", scenePath,
		"prims", g.PrimCount(),
		"relationships", g.RelationshipCount(),
		"duration", elapsed)
	return g, nil
}

// frameRange resolves the frame list for a scene: an explicit option wins,
// then the flattened graph's time codes, then the unflattened layer
// preamble.
func (r *Runner) frameRange(ctx context.Context, scenePath string, g *usd.RenderGraph, opts Options) (string, error) {
	if opts.Frames != "" {
		return opts.Frames, nil
	}
	if fr := g.FrameRange(); fr != "" {
		return fr, nil
	}

	text, err := r.Dumper.LayerMetadata(ctx, scenePath)
	if err != nil {
		return "", err
	}
	meta, err := usd.ParseLayerMetadataText(text)
	if err != nil {
		return "", err
	}
	if fr := meta.FrameRange(); fr != "" {
		return fr, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFrames,
		"%s has no authored time codes; pass an explicit frame range", scenePath)
}

func (r *Runner) buildJob(scenePath, frames string, p plan.PassPlan, opts Options) *deadline.Job {
	name := filepath.Base(scenePath)
	if p.Pass != "" {
		name = fmt.Sprintf("%s (%s)", name, filepath.Base(p.Pass))
	}

	args := []deadline.Arg{
		{Name: "LogLevel", Value: fmt.Sprintf("%d", opts.LogLevel)},
		{Name: "ExtraArgs", Value: opts.ExtraArgs},
	}
	if opts.Renderer != "" {
		args = append(args, deadline.Arg{Name: "Renderer", Value: opts.Renderer})
	}
	if p.Pass != "" {
		args = append(args, deadline.Arg{Name: "RenderPass", Value: p.Pass})
	}

	return &deadline.Job{
		Name:      name,
		BatchName: opts.BatchName,
		Comment:   opts.Comment,
		Frames:    frames,
		ChunkSize: opts.ChunkSize,
		Outputs:   p.Outputs,
		SceneFile: scenePath,
		Arguments: args,
	}
}

func (r *Runner) record(ctx context.Context, scenePath string, job *deadline.Job, res deadline.Result, opts Options, plans []plan.PassPlan) {
	rec := history.NewRecord(scenePath, job.Name)
	rec.BatchName = job.BatchName
	rec.Frames = job.Frames
	rec.Outputs = job.Outputs
	rec.Success = res.Success
	for _, p := range plans {
		if p.Pass != "" {
			rec.Passes = append(rec.Passes, p.Pass)
		}
	}
	if err := r.History.Append(ctx, rec); err != nil {
		r.Logger.Warn("failed to record submission", "job", job.Name, "error", err)
	}
}

func countOutputs(plans []plan.PassPlan) int {
	n := 0
	for _, p := range plans {
		n += len(p.Outputs)
	}
	return n
}

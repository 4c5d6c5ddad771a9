package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/renderkit/husksubmit/pkg/errors"
	"github.com/renderkit/husksubmit/pkg/pipeline"
	"github.com/renderkit/husksubmit/pkg/usd"
)

// submitOpts holds the command-line flags for the submit command.
type submitOpts struct {
	frames      string
	chunk       int
	batch       string
	comment     string
	passes      string
	settings    string
	outputs     string
	renderer    string
	logLevel    int
	extraArgs   string
	dryRun      bool
	interactive bool
	noCache     bool
}

// submitCommand creates the submit command.
func (c *CLI) submitCommand() *cobra.Command {
	opts := submitOpts{chunk: pipeline.DefaultChunkSize}

	cmd := &cobra.Command{
		Use:   "submit <scene.usd> [scene.usd...]",
		Short: "Submit USD scenes to the Deadline farm",
		Long: `Submit extracts the render graph of each scene, resolves its passes and
outputs, and hands one Deadline job per pass to deadlinecommand.

The frame range comes from the layer's authored time codes unless --frames
is given. Submitting multiple scenes derives a batch name from their
common prefix.

Examples:
  husksubmit submit shot.usd
  husksubmit submit shot.usd --frames 1001-1250 --chunk 10
  husksubmit submit shot.usd --passes "pass_*" --renderer BRAY_HdKarmaXPU
  husksubmit submit Scene.FG.usd Scene.BG.usd --comment "lighting final"
  husksubmit submit shot.usd --interactive`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSubmit(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.frames, "frames", "", "frame range, e.g. 1001-1250 (default: layer time codes)")
	cmd.Flags().IntVar(&opts.chunk, "chunk", opts.chunk, "frames per farm task")
	cmd.Flags().StringVar(&opts.batch, "batch", "", "batch name (default: common prefix of the scenes)")
	cmd.Flags().StringVar(&opts.comment, "comment", "", "job comment")
	cmd.Flags().StringVar(&opts.passes, "passes", "", "render pass prim patterns")
	cmd.Flags().StringVar(&opts.settings, "settings", "", "render settings prim patterns")
	cmd.Flags().StringVar(&opts.outputs, "outputs", "", "explicit output override")
	cmd.Flags().StringVar(&opts.renderer, "renderer", "", "hydra renderer, e.g. BRAY_HdKarmaXPU")
	cmd.Flags().IntVar(&opts.logLevel, "log-level", 0, "husk verbosity, 0..9")
	cmd.Flags().StringVar(&opts.extraArgs, "extra-args", "", "extra husk arguments")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "plan and generate jobs without submitting")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "pick render passes interactively")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the dump cache")

	return cmd
}

func (c *CLI) runSubmit(ctx context.Context, scenePaths []string, opts submitOpts) error {
	runner, cleanup, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer cleanup()

	var passPaths []string
	if opts.interactive {
		passPaths, err = c.pickPasses(ctx, runner, scenePaths[0])
		if err != nil {
			return err
		}
	}

	pipeOpts := pipeline.Options{
		SceneFiles: scenePaths,
		Frames:     opts.frames,
		ChunkSize:  opts.chunk,
		BatchName:  opts.batch,
		Comment:    opts.comment,
		PassPaths:  passPaths,
		Passes:     opts.passes,
		Settings:   opts.settings,
		Outputs:    opts.outputs,
		Renderer:   opts.renderer,
		LogLevel:   opts.logLevel,
		ExtraArgs:  opts.extraArgs,
		DryRun:     opts.dryRun,
	}

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinner(ctx, "Submitting to the farm...")
	spinner.Start()
	result, err := runner.Execute(ctx, pipeOpts)
	spinner.Stop()
	if err != nil {
		if spinner.Cancelled() {
			return ctx.Err()
		}
		return err
	}

	if opts.dryRun {
		printInfo("Dry run: %d jobs generated for %d scenes, nothing submitted",
			result.Stats.JobCount, result.Stats.SceneCount)
		for _, sub := range result.Submissions {
			for _, job := range sub.Jobs {
				printDetail("%s  frames %s  %d outputs", job.Name, job.Frames, len(job.Outputs))
			}
		}
		return nil
	}

	printResults(result.AllResults())
	prog.done(fmt.Sprintf("Submitted %d jobs", result.Stats.JobCount))

	if !result.Succeeded() {
		return errors.New(errors.ErrCodeSubmissionFailed, "one or more jobs were rejected")
	}
	return nil
}

// pickPasses lets the artist choose render passes from the first scene's
// graph and returns the checked pass prim paths.
func (c *CLI) pickPasses(ctx context.Context, runner *pipeline.Runner, scenePath string) ([]string, error) {
	g, err := runner.Inspect(ctx, scenePath)
	if err != nil {
		return nil, err
	}
	passes := g.PrimsOfKind(usd.KindRenderPass)
	if len(passes) == 0 {
		printInfo("Scene has no render passes; submitting the default pass")
		return nil, nil
	}

	model := NewPassListModel(scenePath, passes)
	final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil {
		return nil, err
	}
	m, ok := final.(PassListModel)
	if !ok || len(m.Selection()) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no render passes selected")
	}
	return m.Selection(), nil
}

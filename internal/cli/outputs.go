package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/renderkit/husksubmit/pkg/pipeline"
)

// outputsOpts holds the command-line flags for the outputs command.
type outputsOpts struct {
	passes   string
	settings string
	override string
	asJSON   bool
	noCache  bool
}

// outputsCommand creates the outputs command.
func (c *CLI) outputsCommand() *cobra.Command {
	opts := outputsOpts{}

	cmd := &cobra.Command{
		Use:   "outputs <scene.usd>",
		Short: "Resolve the render passes and output paths of a scene",
		Long: `Outputs resolves what a submission of this scene would render: the
selected render passes, the render settings each pass uses, and the output
image paths traversed from settings through products to product names.

Examples:
  husksubmit outputs shot.usd
  husksubmit outputs shot.usd --passes "pass_fg pass_bg"
  husksubmit outputs shot.usd --settings rs_highres
  husksubmit outputs shot.usd --outputs "/out/beauty.%04d.exr"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runOutputs(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.passes, "passes", "", "render pass prim patterns (space or comma separated)")
	cmd.Flags().StringVar(&opts.settings, "settings", "", "render settings prim patterns")
	cmd.Flags().StringVar(&opts.override, "outputs", "", "explicit output override (comma separated)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "emit plans as JSON")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the dump cache")

	return cmd
}

func (c *CLI) runOutputs(ctx context.Context, scenePath string, opts outputsOpts) error {
	runner, cleanup, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer cleanup()

	_, plans, err := runner.PlanScene(ctx, scenePath, pipeline.Options{
		Passes:   opts.passes,
		Settings: opts.settings,
		Outputs:  opts.override,
	})
	if err != nil {
		return err
	}

	if opts.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(plans)
	}

	fmt.Println(StyleTitle.Render(scenePath))
	for _, p := range plans {
		pass := p.Pass
		if pass == "" {
			pass = "(default pass)"
		}
		fmt.Println(StyleHighlight.Render(pass))
		for _, s := range p.Settings {
			printDetail("settings  %s", s)
		}
		if len(p.Outputs) == 0 {
			printDetail("no outputs resolved")
			continue
		}
		for _, out := range p.Outputs {
			printFile(out)
		}
	}
	return nil
}

package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/goccy/go-graphviz"
	"github.com/spf13/cobra"

	"github.com/renderkit/husksubmit/pkg/errors"
	"github.com/renderkit/husksubmit/pkg/usd"
)

// inspectOpts holds the command-line flags for the inspect command.
type inspectOpts struct {
	text    string // pre-captured dump file instead of running usdcat
	format  string // "", json, dot, or svg
	output  string // output file path (stdout if empty)
	noCache bool
}

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	opts := inspectOpts{}

	cmd := &cobra.Command{
		Use:   "inspect <scene.usd>",
		Short: "Show the render graph extracted from a USD scene",
		Long: `Inspect flattens a USD scene with usdcat and reconstructs its render
graph: the RenderSettings, RenderProduct, RenderVar, and RenderPass prims
plus the relationships between them.

Examples:
  husksubmit inspect shot.usd                  # Human-readable summary
  husksubmit inspect shot.usd --format json    # Graph as JSON
  husksubmit inspect shot.usd --format svg -o graph.svg
  husksubmit inspect --text dump.usda shot.usd # Use a pre-captured dump`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.text, "text", "", "pre-captured dump file (skips usdcat)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: json, dot, or svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the dump cache")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, scenePath string, opts inspectOpts) error {
	g, err := c.loadGraph(ctx, scenePath, opts)
	if err != nil {
		return err
	}

	switch opts.format {
	case "":
		printGraphSummary(scenePath, g)
		return nil
	case "json":
		data, err := usd.MarshalGraph(g)
		if err != nil {
			return err
		}
		return writeOutput(opts.output, data)
	case "dot":
		return writeOutput(opts.output, []byte(usd.ToDOT(g)))
	case "svg":
		svg, err := renderSVG(ctx, []byte(usd.ToDOT(g)))
		if err != nil {
			return err
		}
		return writeOutput(opts.output, svg)
	default:
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid format %q (must be json, dot, or svg)", opts.format)
	}
}

// loadGraph parses a pre-captured dump when --text is given, otherwise
// runs the full dump stage through the pipeline runner.
func (c *CLI) loadGraph(ctx context.Context, scenePath string, opts inspectOpts) (*usd.RenderGraph, error) {
	if opts.text != "" {
		data, err := os.ReadFile(opts.text)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read dump %s", opts.text)
		}
		return usd.ParseText(string(data))
	}

	runner, cleanup, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return nil, err
	}
	defer cleanup()
	return runner.Inspect(ctx, scenePath)
}

// renderSVG renders DOT source to SVG through graphviz.
func renderSVG(ctx context.Context, dot []byte) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "initialize graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes(dot)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse dot source")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render svg")
	}
	return buf.Bytes(), nil
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	printFile(path)
	return nil
}

func printGraphSummary(scenePath string, g *usd.RenderGraph) {
	fmt.Println(StyleTitle.Render(scenePath))
	printStats(g.PrimCount(), g.RelationshipCount(), len(g.ProductNames))
	printNewline()

	if fr := g.FrameRange(); fr != "" {
		printKeyValue("frames", fr)
	}
	printKeyValue("settings path", g.RenderSettingsPath)
	printNewline()

	for _, kind := range usd.Kinds {
		prims := g.PrimsOfKind(kind)
		if len(prims) == 0 {
			continue
		}
		fmt.Println(StyleHighlight.Render(string(kind)))
		for _, prim := range prims {
			printDetail("%s", prim)
			targets := append([]string(nil), g.Targets(prim)...)
			sort.Strings(targets)
			for _, target := range targets {
				printDetail("  %s %s", iconArrow, target)
			}
		}
	}

	if len(g.ProductNames) > 0 {
		printNewline()
		fmt.Println(StyleHighlight.Render("product names"))
		for _, name := range g.ProductNames {
			printDetail("%s", name)
		}
	}

	printNewline()
	printNextStep("Resolve outputs", fmt.Sprintf("%s outputs %s", appName, scenePath))
}

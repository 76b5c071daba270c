package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/connmat/pkg/errors"
	"github.com/matzehuels/connmat/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string
	labels     string
	undirected bool
	penWidth   float64
}

// renderCommand creates the render command, which draws an existing matrix
// as a node-link graph.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [matrix-file]",
		Short: "Draw a connectivity matrix as a DOT or SVG graph",
		Long: `Render draws one node per label and one edge per non-zero off-diagonal
cell. The output format follows the extension of --output (.dot or .svg).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <input>.svg)")
	cmd.Flags().StringVar(&opts.labels, "labels", "", "index,label sidecar for a CSV matrix")
	cmd.Flags().BoolVar(&opts.undirected, "undirected", false, "merge (a,b) and (b,a) into one edge")
	cmd.Flags().Float64Var(&opts.penWidth, "max-pen-width", 0, "stroke width of the heaviest edge (default 6)")

	return cmd
}

func runRender(ctx context.Context, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx)

	output := opts.output
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".svg"
	}
	ext := strings.ToLower(filepath.Ext(output))
	if ext != ".dot" && ext != ".svg" {
		return errors.New(errors.ErrCodeInvalidFormat, "render output must end in .dot or .svg, got %q", output)
	}

	lm, err := loadMatrix(input, opts.labels)
	if err != nil {
		return err
	}
	logger.Infof("Loaded %dx%d matrix from %s", lm.m.Size(), lm.m.Size(), input)

	dot, err := render.ToDOT(lm.m, lm.labels, render.Options{
		Undirected:  opts.undirected,
		MaxPenWidth: opts.penWidth,
	})
	if err != nil {
		return err
	}

	data := []byte(dot)
	if ext == ".svg" {
		err = newSpinner(ctx, "Rendering SVG...").run(func() error {
			data, err = render.RenderSVG(ctx, dot)
			return err
		})
		if err != nil {
			return err
		}
	}

	if err := os.WriteFile(output, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeOutputWrite, err, "write %s", output)
	}
	printSuccess("Rendered %s", filepath.Base(output))
	printFile(output)
	return nil
}

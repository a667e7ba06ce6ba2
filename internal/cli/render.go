package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"pencil-sketch/internal/models"
	"pencil-sketch/internal/pipeline"

	"github.com/spf13/cobra"
)

// renderOpts mirrors the render flags. Numeric and boolean flags only
// override the preset when they were set explicitly.
type renderOpts struct {
	output       string
	preset       string
	contrast     float64
	sharpness    int
	style        string
	refineEdges  bool
	smoothLines  bool
	thickness    float64
	color        string
	mode         string
	preview      string
	previewSize  int
	grayscaleOut string
}

func (c *CLI) newRenderCmd() *cobra.Command {
	defaults := models.DefaultParameters()
	opts := renderOpts{
		contrast:    defaults.ContrastLevel,
		sharpness:   defaults.SharpnessLevel,
		refineEdges: defaults.RefineEdges,
		smoothLines: defaults.SmoothLines,
		thickness:   defaults.ThicknessLevel,
		previewSize: pipeline.DefaultPreviewSize,
	}

	cmd := &cobra.Command{
		Use:   "render <input>",
		Short: "Render a photograph as a pencil sketch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", "", `output PNG path, "-" for stdout (default: pencil_sketch_<style>_smoothed.png next to the input)`)
	flags.StringVar(&opts.preset, "preset", "", "preset to start from (see the presets command)")
	flags.Float64Var(&opts.contrast, "contrast", opts.contrast, "blend alpha (0.1-1.0) or divide-mode multiplier (0.1-3.0)")
	flags.IntVar(&opts.sharpness, "sharpness", opts.sharpness, "unsharp mask strength in percent (0-200)")
	flags.StringVar(&opts.style, "style", "", "sketch style: default, detailed, soft, cartoon")
	flags.BoolVar(&opts.refineEdges, "refine-edges", opts.refineEdges, "overlay an enhanced edge map")
	flags.BoolVar(&opts.smoothLines, "smooth-lines", opts.smoothLines, "apply bilateral smoothing")
	flags.Float64Var(&opts.thickness, "thickness", opts.thickness, "line thickness contrast (0.5-3.0)")
	flags.StringVar(&opts.color, "color", "", "color mode: grayscale or color")
	flags.StringVar(&opts.mode, "mode", "", "compositor: blend or divide")
	flags.StringVar(&opts.preview, "preview", "", "also write a downscaled preview PNG to this path")
	flags.IntVar(&opts.previewSize, "preview-size", opts.previewSize, "longest side of the preview in pixels")
	flags.StringVar(&opts.grayscaleOut, "grayscale-out", "", "also write the black-and-white version to this path")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts renderOpts) error {
	params, err := c.resolveParameters(cmd, opts)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	renderer := pipeline.NewRenderer(c.logger, c.config.PerformanceSettings())
	result, err := renderer.RenderBytes(cmd.Context(), data, params)
	if err != nil {
		return err
	}

	output := opts.output
	if output == "" {
		output = defaultOutputPath(input, params.Style)
	}

	if output == "-" {
		if err := renderer.Encode(c.stdout, result.Sketch); err != nil {
			return err
		}
	} else if err := renderer.SaveFile(output, result.Sketch); err != nil {
		return err
	}

	if opts.grayscaleOut != "" {
		if err := renderer.SaveFile(opts.grayscaleOut, result.Gray); err != nil {
			return err
		}
	}

	if opts.preview != "" {
		if err := renderer.SaveFile(opts.preview, pipeline.Thumbnail(result.Sketch, opts.previewSize)); err != nil {
			return err
		}
	}

	fields := result.Metrics.Fields()
	fields["output"] = output
	c.logger.Info("cli", "sketch rendered", fields)

	return nil
}

// resolveParameters starts from the preset and applies the flags the user
// set explicitly.
func (c *CLI) resolveParameters(cmd *cobra.Command, opts renderOpts) (models.Parameters, error) {
	params, err := c.config.Parameters(opts.preset)
	if err != nil {
		return models.Parameters{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("contrast") {
		params.ContrastLevel = opts.contrast
	}
	if flags.Changed("sharpness") {
		params.SharpnessLevel = opts.sharpness
	}
	if flags.Changed("refine-edges") {
		params.RefineEdges = opts.refineEdges
	}
	if flags.Changed("smooth-lines") {
		params.SmoothLines = opts.smoothLines
	}
	if flags.Changed("thickness") {
		params.ThicknessLevel = opts.thickness
	}
	if opts.style != "" {
		if params.Style, err = models.ParseStyle(opts.style); err != nil {
			return models.Parameters{}, err
		}
	}
	if opts.color != "" {
		if params.ColorMode, err = models.ParseColorMode(opts.color); err != nil {
			return models.Parameters{}, err
		}
	}
	if opts.mode != "" {
		if params.Composite, err = models.ParseCompositeMode(opts.mode); err != nil {
			return models.Parameters{}, err
		}
	}

	return params, nil
}

// defaultOutputPath follows the download name of the original web app.
func defaultOutputPath(input string, style models.Style) string {
	return filepath.Join(filepath.Dir(input), fmt.Sprintf("pencil_sketch_%s_smoothed.png", style))
}

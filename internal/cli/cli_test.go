package cli

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"pencil-sketch/internal/models"
	"pencil-sketch/internal/pipeline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeInput(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 6), G: uint8(y * 8), B: 120, A: 255})
		}
	}

	path := filepath.Join(dir, "photo.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := New(&stdout, &stderr).RootCommand()
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func decodeConfig(t *testing.T, path string) image.Config {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	return cfg
}

func TestRenderDefaultOutputName(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)

	_, _, err := execute(t, "render", input, "--style", "detailed")
	require.NoError(t, err)

	cfg := decodeConfig(t, filepath.Join(dir, "pencil_sketch_detailed_smoothed.png"))
	assert.Equal(t, 40, cfg.Width)
	assert.Equal(t, 30, cfg.Height)
	assert.Equal(t, color.GrayModel, cfg.ColorModel)
}

func TestRenderWithExtras(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)
	out := filepath.Join(dir, "out.png")
	bw := filepath.Join(dir, "bw.png")
	preview := filepath.Join(dir, "preview.png")

	_, stderr, err := execute(t, "render", input,
		"-o", out,
		"--preset", "color",
		"--grayscale-out", bw,
		"--preview", preview,
		"--preview-size", "20",
		"-v")
	require.NoError(t, err)

	assert.Equal(t, color.RGBAModel, decodeConfig(t, out).ColorModel)
	assert.Equal(t, color.GrayModel, decodeConfig(t, bw).ColorModel)
	assert.Equal(t, 20, decodeConfig(t, preview).Width)
	assert.Contains(t, stderr, "sketch rendered")
}

func TestRenderToStdout(t *testing.T) {
	input := writeInput(t, t.TempDir())

	stdout, _, err := execute(t, "render", input, "-o", "-", "--refine-edges=false", "--smooth-lines=false")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader([]byte(stdout)))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 40, 30), img.Bounds())
}

func TestRenderErrors(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)

	_, _, err := execute(t, "render", input, "--preset", "watercolor")
	var invalid *models.InvalidParameterError
	assert.True(t, errors.As(err, &invalid))

	_, _, err = execute(t, "render", input, "--mode", "multiply")
	assert.True(t, errors.As(err, &invalid))

	corrupt := filepath.Join(dir, "corrupt.png")
	require.NoError(t, os.WriteFile(corrupt, []byte("nope"), 0o644))
	_, _, err = execute(t, "render", corrupt)
	var decodeErr *pipeline.DecodeError
	assert.True(t, errors.As(err, &decodeErr))

	_, _, err = execute(t, "render", filepath.Join(dir, "missing.png"))
	assert.Error(t, err)

	_, _, err = execute(t, "render")
	assert.Error(t, err)
}

func TestResolveParametersOnlyOverridesChangedFlags(t *testing.T) {
	c := New(&bytes.Buffer{}, &bytes.Buffer{})
	root := c.RootCommand()
	cmd, _, err := root.Find([]string{"render"})
	require.NoError(t, err)

	require.NoError(t, cmd.ParseFlags([]string{"--preset", "soft", "--thickness", "2", "--color", "color"}))
	preset, _ := cmd.Flags().GetString("preset")
	thickness, _ := cmd.Flags().GetFloat64("thickness")

	params, err := c.resolveParameters(cmd, renderOpts{preset: preset, thickness: thickness, color: "color", contrast: 0.9})
	require.NoError(t, err)

	soft, _ := models.Preset("soft")
	assert.Equal(t, soft.ContrastLevel, params.ContrastLevel)
	assert.Equal(t, 2.0, params.ThicknessLevel)
	assert.Equal(t, models.ColorColor, params.ColorMode)
	assert.Equal(t, models.StyleSoft, params.Style)
}

func TestPresetsCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sketch.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[presets.inky]\nbase = \"cartoon\"\nthickness = 2.0\n"), 0o644))

	stdout, _, err := execute(t, "presets", "--config", cfgPath)
	require.NoError(t, err)

	for _, name := range []string{"classic", "detailed", "soft", "cartoon", "color", "charcoal", "inky"} {
		assert.Contains(t, stdout, name)
	}
	assert.Contains(t, stdout, "divide")
}

func TestBadConfigFails(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[log]\nlevel = \"shouting\"\n"), 0o644))

	_, _, err := execute(t, "presets", "--config", cfgPath)
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	SetVersion("1.2.3", "abc123", "2026-01-01")
	t.Cleanup(func() { SetVersion("dev", "none", "unknown") })

	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "pencil-sketch 1.2.3")
	assert.Contains(t, stdout, "commit: abc123")
}

func TestDefaultOutputPath(t *testing.T) {
	assert.Equal(t,
		filepath.Join("photos", "pencil_sketch_cartoon_smoothed.png"),
		defaultOutputPath(filepath.Join("photos", "me.jpg"), models.StyleCartoon))
}

// Package config loads the optional TOML configuration of the CLI: log
// level, worker limits, the default preset and user-defined presets.
package config

import (
	"fmt"
	"sort"
	"strings"

	"pencil-sketch/internal/logger"
	"pencil-sketch/internal/models"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
)

type Config struct {
	Log         LogConfig               `toml:"log"`
	Performance PerformanceConfig       `toml:"performance"`
	Defaults    DefaultsConfig          `toml:"defaults"`
	Presets     map[string]PresetConfig `toml:"presets"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // console or json
}

type PerformanceConfig struct {
	MaxWorkers    int   `toml:"max_workers"`
	MemoryLimitMB int64 `toml:"memory_limit_mb"`
}

type DefaultsConfig struct {
	Preset string `toml:"preset"`
}

// PresetConfig overrides fields of a base preset. Unset fields keep the
// base value.
type PresetConfig struct {
	Base        string   `toml:"base"`
	Contrast    *float64 `toml:"contrast"`
	Sharpness   *int     `toml:"sharpness"`
	Style       *string  `toml:"style"`
	RefineEdges *bool    `toml:"refine_edges"`
	SmoothLines *bool    `toml:"smooth_lines"`
	Thickness   *float64 `toml:"thickness"`
	Color       *string  `toml:"color"`
	Mode        *string  `toml:"mode"`
}

const DefaultPreset = "classic"

func Default() *Config {
	perf := models.DefaultPerformanceSettings()
	return &Config{
		Log:         LogConfig{Level: "info", Format: "console"},
		Performance: PerformanceConfig{MaxWorkers: perf.MaxWorkers, MemoryLimitMB: perf.MemoryLimit >> 20},
		Defaults:    DefaultsConfig{Preset: DefaultPreset},
		Presets:     map[string]PresetConfig{},
	}
}

// Load overlays the file at path on Default. An empty path returns the
// defaults. Unknown keys are an error so that typos do not pass silently.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return nil, fmt.Errorf("unknown keys in config %s: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.foldPresetNames(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes TOML text. Used by tests and by callers that embed a config.
func Parse(data string) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config key: %s", undecoded[0].String())
	}
	if err := cfg.foldPresetNames(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// foldPresetNames lowercases the configured preset names, which TOML keeps
// as written, so lookups match the case-insensitive CLI names.
func (c *Config) foldPresetNames() error {
	folded := make(map[string]PresetConfig, len(c.Presets))
	for name, preset := range c.Presets {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			return fmt.Errorf("preset name must not be empty")
		}
		if _, dup := folded[key]; dup {
			return fmt.Errorf("preset %q is defined more than once", key)
		}
		folded[key] = preset
	}
	c.Presets = folded
	return nil
}

func (c *Config) Validate() error {
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "console", "json":
	default:
		return fmt.Errorf("unknown log format: %q", c.Log.Format)
	}
	if c.Performance.MaxWorkers < 0 {
		return fmt.Errorf("max_workers must not be negative: %d", c.Performance.MaxWorkers)
	}
	for name := range c.Presets {
		if _, err := c.Parameters(name); err != nil {
			return fmt.Errorf("preset %s: %w", name, err)
		}
	}
	if _, err := c.Parameters(""); err != nil {
		return fmt.Errorf("default preset: %w", err)
	}
	return nil
}

func (c *Config) LogLevel() (zerolog.Level, error) {
	return logger.ParseLevel(c.Log.Level)
}

// JSONLogs reports whether logs should be written as JSON lines.
func (c *Config) JSONLogs() bool {
	return strings.EqualFold(c.Log.Format, "json")
}

func (c *Config) PerformanceSettings() models.PerformanceSettings {
	return models.PerformanceSettings{
		MaxWorkers:  c.Performance.MaxWorkers,
		MemoryLimit: c.Performance.MemoryLimitMB << 20,
	}
}

// Parameters resolves a preset name, configured presets first and
// built-in presets second. An empty name selects the default preset.
func (c *Config) Parameters(name string) (models.Parameters, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = strings.ToLower(c.Defaults.Preset)
	}
	if key == "" {
		key = DefaultPreset
	}

	preset, ok := c.Presets[key]
	if !ok {
		return models.Preset(key)
	}

	baseName := preset.Base
	if baseName == "" {
		baseName = DefaultPreset
	}
	base, err := models.Preset(baseName)
	if err != nil {
		return models.Parameters{}, err
	}

	return preset.Apply(base)
}

// PresetNames lists built-in and configured presets, sorted and unique.
func (c *Config) PresetNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, name := range models.PresetNames() {
		seen[name] = true
		names = append(names, name)
	}
	for name := range c.Presets {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Apply overlays the set fields of p on base.
func (p PresetConfig) Apply(base models.Parameters) (models.Parameters, error) {
	out := base

	if p.Contrast != nil {
		out.ContrastLevel = *p.Contrast
	}
	if p.Sharpness != nil {
		out.SharpnessLevel = *p.Sharpness
	}
	if p.Style != nil {
		style, err := models.ParseStyle(*p.Style)
		if err != nil {
			return models.Parameters{}, err
		}
		out.Style = style
	}
	if p.RefineEdges != nil {
		out.RefineEdges = *p.RefineEdges
	}
	if p.SmoothLines != nil {
		out.SmoothLines = *p.SmoothLines
	}
	if p.Thickness != nil {
		out.ThicknessLevel = *p.Thickness
	}
	if p.Color != nil {
		mode, err := models.ParseColorMode(*p.Color)
		if err != nil {
			return models.Parameters{}, err
		}
		out.ColorMode = mode
	}
	if p.Mode != nil {
		mode, err := models.ParseCompositeMode(*p.Mode)
		if err != nil {
			return models.Parameters{}, err
		}
		out.Composite = mode
	}

	return out, nil
}

// Package cli implements the pencil-sketch command line.
package cli

import (
	"fmt"
	"io"

	"pencil-sketch/internal/config"
	"pencil-sketch/internal/logger"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersion records build information injected through ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// CLI holds the state shared by all commands. The logger and config are
// populated in PersistentPreRunE, before any command runs.
type CLI struct {
	stdout io.Writer
	stderr io.Writer

	logger logger.Logger
	config *config.Config

	verbose    bool
	configPath string
}

func New(stdout, stderr io.Writer) *CLI {
	return &CLI{
		stdout: stdout,
		stderr: stderr,
		logger: logger.Nop(),
		config: config.Default(),
	}
}

func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               "pencil-sketch",
		Short:             "Turn photographs into pencil sketches",
		Long:              "pencil-sketch converts a photograph into a stylized pencil sketch and writes it as PNG.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetOut(c.stdout)
	root.SetErr(c.stderr)
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to a TOML config file")

	root.AddCommand(c.newRenderCmd())
	root.AddCommand(c.newPresetsCmd())
	root.AddCommand(c.newVersionCmd())

	return root
}

func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.config = cfg

	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	if c.verbose {
		level = zerolog.DebugLevel
	}

	if cfg.JSONLogs() {
		c.logger = logger.NewZerolog(c.stderr, level)
	} else {
		c.logger = logger.NewConsoleLogger(c.stderr, level)
	}

	c.logger.Debug("cli", "configuration loaded", map[string]interface{}{
		"config":      c.configPath,
		"max_workers": cfg.Performance.MaxWorkers,
		"preset":      cfg.Defaults.Preset,
	})
	return nil
}

func (c *CLI) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(c.stdout, "pencil-sketch %s\ncommit: %s\nbuilt: %s\n", version, commit, date)
			return err
		},
	}
}

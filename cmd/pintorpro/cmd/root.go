// Package cmd provides the CLI commands for pintorpro.
package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Simplici0/pintorpro/internal/app"
	"github.com/Simplici0/pintorpro/internal/config"
	"github.com/Simplici0/pintorpro/internal/document"
	"github.com/Simplici0/pintorpro/internal/logging"
)

const version = "0.1.0"

// cli holds what every subcommand needs. The app is opened lazily so that
// commands like version never touch storage.
type cli struct {
	envFile string
	verbose bool

	cfg    config.Config
	app    *app.App
	format document.NumberFormat
}

// Execute runs the CLI.
func Execute() error {
	return execute(newRootCmd())
}

// execute runs root and closes the storage opened by c, also when the
// command failed and cobra skipped the post-run hooks.
func execute(root *cobra.Command, c *cli) (err error) {
	defer func() {
		if cerr := c.close(); err == nil {
			err = cerr
		}
	}()
	return root.Execute()
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root, _ := newRootCmd()
	return root
}

func newRootCmd() (*cobra.Command, *cli) {
	c := &cli{}

	root := &cobra.Command{
		Use:   "pintorpro",
		Short: "Quotes for painting jobs",
		Long: `pintorpro prices painting jobs from measurements, keeps a history of
estimates and exports them as PDF or XLSX.

Examples:
  pintorpro calc --height 2.5 --width 4
  pintorpro quote --client "Ana Gómez" --height 2.5 --width 4 --discount 10 --extra "Resane=2000"
  pintorpro export pdf --out ./docs 1789000000000000001`,
		SilenceUsage: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.close()
		},
	}

	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "dotenv file with configuration")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newCalcCmd(c),
		newQuoteCmd(c),
		newListCmd(c),
		newShowCmd(c),
		newDeleteCmd(c),
		newExportCmd(c),
		newSettingsCmd(c),
		newImportCmd(c),
		newVersionCmd(),
	)
	return root, c
}

// open loads configuration and the stored state on first use.
func (c *cli) open(ctx context.Context, stderr io.Writer) (*app.App, error) {
	if c.app != nil {
		return c.app, nil
	}
	cfg, err := config.Load(c.envFile)
	if err != nil {
		return nil, err
	}
	if c.verbose {
		cfg.LogLevel = "debug"
	} else if cfg.LogLevel == "info" {
		cfg.LogLevel = "warn"
	}

	logger := logging.New(stderr, cfg.LogLevel, "console")
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("open state: %w", err)
	}
	logger.Debug("state opened", zap.String("backend", cfg.StateBackend))

	c.cfg = cfg
	c.app = a
	c.format = document.NewNumberFormat(cfg.NumberFormat)
	return a, nil
}

func (c *cli) close() error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close()
	c.app = nil
	return err
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "pintorpro version "+version)
		},
	}
}

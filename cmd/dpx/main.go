// Package main implements the dpx CLI for organizing data analysis projects.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/fyrsmithlabs/dpx/internal/config"
	"github.com/fyrsmithlabs/dpx/internal/logging"
	"github.com/fyrsmithlabs/dpx/internal/registry"
	"github.com/fyrsmithlabs/dpx/internal/source"
	"github.com/spf13/cobra"
)

// version information
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// app holds what every command needs, built once flags are parsed.
type app struct {
	// flags
	rootPath   string
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *logging.Logger
	reg    *registry.Registry
	root   string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "dpx",
		Short: "Organize lightweight data analysis projects",
		Long: `dpx keeps data analysis projects in named groups under a single root
directory. Every project gets the same skeleton (data stages, docs,
notebook, references, reports) and is locked against accidental removal
until explicitly unlocked.

Datasets can be pulled straight into a project from a hosted dataset
platform (Kaggle API compatible) or from a direct file link.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&a.rootPath, "root", "", "registry root (default from config: ~/data-projects/dp-projects)")
	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: ~/.config/dpx/config.yaml)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")

	cmd.AddCommand(
		newRootInitCmd(a),
		newGroupCmd(a),
		newInitCmd(a),
		newListCmd(a),
		newDataListCmd(a),
		newDownloadCmd(a),
		newCopyCmd(a),
		newLockCmd(a),
		newUnlockCmd(a),
		newRemoveCmd(a),
		newMoveCmd(a),
		newRenameCmd(a),
		newSourceCmd(a),
	)
	return cmd
}

// setup loads configuration and builds the logger and registries.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadWithFile(a.configPath)
	if err != nil {
		return err
	}
	if a.rootPath != "" {
		cfg.Root.Path = a.rootPath
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}

	logCfg, err := logging.FromAppConfig(cfg.Logging)
	if err != nil {
		return err
	}
	logCfg.Output = cmd.ErrOrStderr()
	logger, err := logging.NewLogger(logCfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	root, err := cfg.RootPath()
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	a.root = root
	a.reg = registry.New(root,
		registry.WithLogger(logger),
		registry.WithFetcher(source.DefaultDispatcher(cfg, logger)),
	)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.WithCommand(ctx, cmd.CommandPath()))

	logger.Debug(cmd.Context(), "configuration loaded",
		logging.Secret("platform_key", cfg.Platform.Key),
	)
	return nil
}

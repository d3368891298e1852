package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/viant/afs/url"
	"github.com/viant/fluxtree"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "fluxtree",
		Short:         "Fluxtree executes hierarchical process trees",
		Long:          `Fluxtree loads YAML process trees built from sequential, parallel, step and conditional nodes and runs them against a single state value.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringP("config", "c", "", "Config URL")
	cmd.PersistentFlags().String("trees", "", "Base URL relative tree names are resolved against")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Debug logging")
	cmd.AddCommand(newRunCmd(), newValidateCmd(), newServeCmd(), newRunsCmd(), newTasksCmd())
	return cmd
}

// loadConfig reads the --config file over the defaults and applies flag overrides
func loadConfig(cmd *cobra.Command) (*fluxtree.Config, error) {
	cfg := fluxtree.DefaultConfig()
	if location, _ := cmd.Flags().GetString("config"); location != "" {
		var err error
		if cfg, err = fluxtree.LoadConfig(cmd.Context(), location); err != nil {
			return nil, err
		}
	}
	if trees, _ := cmd.Flags().GetString("trees"); trees != "" {
		cfg.Trees.BaseURL = trees
	}
	return cfg, nil
}

func newEngine(cmd *cobra.Command, options ...fluxtree.Option) (*fluxtree.Engine, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	level := slog.LevelWarn
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	engine, err := fluxtree.NewFromConfig(cmd.Context(), cfg, append([]fluxtree.Option{fluxtree.WithLogger(logger)}, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	return engine, nil
}

// treeURL makes an existing relative local path absolute, other locations are resolved by the engine
func treeURL(location string) string {
	if !url.IsRelative(location) {
		return location
	}
	if _, err := os.Stat(location); err != nil {
		return location
	}
	if abs, err := filepath.Abs(location); err == nil {
		return abs
	}
	return location
}

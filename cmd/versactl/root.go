package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"versa/internal/app"
)

type cliOptions struct {
	configPath string
	locale     string
	logLevel   string
	jsonOutput bool
	logger     *zap.Logger
}

func newRootCommand() *cobra.Command {
	opts := cliOptions{
		locale:   "en",
		logLevel: "warn",
		logger:   zap.NewNop(),
	}

	root := &cobra.Command{
		Use:           "versactl",
		Short:         "Browse the tool catalog and run tools in-process",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			applyRootFlagBindings(cmd, &opts)
			logger, err := app.BuildLogger(opts.logLevel, "console")
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = opts.logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file (defaults when empty)")
	root.PersistentFlags().StringVar(&opts.locale, "locale", opts.locale, "locale for tool names and descriptions")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", opts.logLevel, "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "output JSON")

	root.AddCommand(
		newCategoriesCmd(&opts),
		newToolsCmd(&opts),
		newProcessCmd(&opts),
		newHistoryCmd(&opts),
	)

	return root
}

func applyRootFlagBindings(cmd *cobra.Command, opts *cliOptions) {
	flags := cmd.Flags()
	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "config":
			opts.configPath, _ = flags.GetString("config")
		case "locale":
			opts.locale, _ = flags.GetString("locale")
		case "log-level":
			opts.logLevel, _ = flags.GetString("log-level")
		case "json":
			opts.jsonOutput, _ = flags.GetBool("json")
		}
	})
	if env := os.Getenv("VERSA_CONFIG"); env != "" && opts.configPath == "" {
		opts.configPath = env
	}
}

func withRuntime(ctx context.Context, opts *cliOptions, fn func(*app.Runtime) error) error {
	runtime, cleanup, err := app.New(opts.logger).OpenRuntime(ctx, app.ServeConfig{ConfigPath: opts.configPath})
	if err != nil {
		return err
	}
	defer cleanup()
	return fn(runtime)
}

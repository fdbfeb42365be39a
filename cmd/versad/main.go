package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"versa/internal/app"
	"versa/internal/domain"
)

type serveOptions struct {
	configPath string
	listen     string
	logLevel   string
	logFormat  string
	logger     *zap.Logger
}

func main() {
	opts := &serveOptions{logger: zap.NewNop()}
	root := newRootCmd(opts)
	err := root.Execute()
	_ = opts.logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func newRootCmd(opts *serveOptions) *cobra.Command {
	opts.configPath = "versa.yaml"
	opts.logLevel = "info"
	opts.logFormat = "json"

	root := &cobra.Command{
		Use:           "versad",
		Short:         "Image tool processing service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("config") {
				if _, err := os.Stat(opts.configPath); os.IsNotExist(err) {
					opts.configPath = ""
				}
			}
			logger, err := app.BuildLogger(opts.logLevel, opts.logFormat)
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}
			opts.logger = logger
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", opts.configPath, "path to config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", opts.logLevel, "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", opts.logFormat, "log format (json or console)")

	root.AddCommand(
		newServeCmd(opts),
		newValidateCmd(opts),
		newVersionCmd(),
	)

	return root
}

func newServeCmd(opts *serveOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP processing service",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalAwareContext(cmd.Context())
			defer cancel()

			serveCfg := app.ServeConfig{ConfigPath: opts.configPath}
			if opts.listen != "" {
				listen := opts.listen
				serveCfg.Override = func(cfg *domain.Config) {
					cfg.ListenAddress = listen
				}
			}
			return app.New(opts.logger).Serve(ctx, serveCfg)
		},
	}

	cmd.Flags().StringVar(&opts.listen, "listen", "", "override the configured listen address")
	return cmd
}

func newValidateCmd(opts *serveOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and tool catalog without serving",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.New(opts.logger).ValidateConfig(cmd.Context(), app.ValidateConfig{
				ConfigPath: opts.configPath,
			})
		},
	}

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "versad %s (%s)\n", app.Version, app.Build)
		},
	}
}

func signalAwareContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

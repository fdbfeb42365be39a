package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"versa/internal/app"
	"versa/internal/domain"
	"versa/internal/infra/progress"
)

type processOptions struct {
	image    string
	mask     string
	prompt   string
	image2   string
	settings []string
	timeout  time.Duration
	quiet    bool
}

func newProcessCmd(opts *cliOptions) *cobra.Command {
	var popts processOptions
	cmd := &cobra.Command{
		Use:   "process <tool-id>",
		Short: "Run one tool request and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := parseSettings(popts.settings)
			if err != nil {
				return exitWith(2, err.Error())
			}
			req := domain.ProcessRequest{
				ToolID:   args[0],
				Image:    popts.image,
				Mask:     popts.mask,
				Prompt:   popts.prompt,
				Image2:   popts.image2,
				Settings: settings,
			}

			ctx := cmd.Context()
			if popts.timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, popts.timeout)
				defer cancel()
			}

			return withRuntime(ctx, opts, func(runtime *app.Runtime) error {
				recorder := progress.NewRecorder()
				sinks := []domain.ProgressFunc{recorder.Func()}
				if !popts.quiet {
					sinks = append(sinks, progressPrinter(cmd.ErrOrStderr()))
				}

				result := runtime.Service.Process(ctx, req, progress.Tee(sinks...))
				if err := printResult(cmd.OutOrStdout(), result, recorder.Events(), opts.jsonOutput); err != nil {
					return err
				}
				if !result.Success {
					return exitSilent(1)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&popts.image, "image", "", "primary image handle")
	cmd.Flags().StringVar(&popts.mask, "mask", "", "mask handle")
	cmd.Flags().StringVar(&popts.prompt, "prompt", "", "text prompt")
	cmd.Flags().StringVar(&popts.image2, "image2", "", "secondary image handle")
	cmd.Flags().StringArrayVar(&popts.settings, "set", nil, "tool setting key=value (repeatable)")
	cmd.Flags().DurationVar(&popts.timeout, "timeout", 0, "cancel processing after this duration")
	cmd.Flags().BoolVarP(&popts.quiet, "quiet", "q", false, "do not stream progress to stderr")
	return cmd
}

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"versa/internal/app"
	"versa/internal/domain"
	"versa/internal/infra/history"
)

func newHistoryCmd(opts *cliOptions) *cobra.Command {
	var query history.Query
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded transformations, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd.Context(), opts, func(runtime *app.Runtime) error {
				records, err := runtime.Service.History(cmd.Context(), query)
				if err != nil {
					return err
				}
				if opts.jsonOutput {
					return writeJSON(cmd.OutOrStdout(), records)
				}
				if len(records) == 0 {
					_, err := fmt.Fprintln(cmd.OutOrStdout(), "no history")
					return err
				}
				return renderTable(cmd.OutOrStdout(), []string{"WHEN", "TOOL", "RESULT", "DURATION", "MESSAGE"}, historyRows(records))
			})
		},
	}
	cmd.Flags().IntVar(&query.Limit, "limit", domain.DefaultHistoryListLimit, "maximum records")
	cmd.Flags().StringVar(&query.ToolID, "tool", "", "only records for this tool id")
	return cmd
}

func historyRows(records []domain.HistoryRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		result := "ok"
		if !record.Success {
			result = "failed"
		}
		rows = append(rows, []string{
			record.CreatedAt.Local().Format(time.DateTime),
			record.ToolID,
			result,
			record.Duration.Round(time.Millisecond).String(),
			record.Message,
		})
	}
	return rows
}

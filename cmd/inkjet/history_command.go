package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"inkjet/internal/api"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var statuses []string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded conversions",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			items, err := client.History(cmd.Context(), limit, statuses...)
			if err != nil {
				return wrapDaemonError(err, ctx.daemonAddress())
			}

			if asJSON {
				return writeJSON(cmd, api.HistoryResponse{Items: items})
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No conversions recorded")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderHistoryTable(items))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum rows to show (0 for all)")
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Filter by status (succeeded, failed, timed_out, rejected)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func renderHistoryTable(items []api.ConversionItem) string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		detail := item.Title
		if item.ErrorMessage != "" {
			detail = item.ErrorMessage
		}
		rows = append(rows, []string{
			strconv.FormatInt(item.ID, 10),
			formatTimestamp(item.FinishedAt),
			item.Status,
			formatByteCount(item.OutputBytes),
			strconv.Itoa(item.PollAttempts),
			formatDurationMS(item.DurationMS),
			detail,
		})
	}
	return renderTable(
		[]string{"ID", "Finished", "Status", "PDF Size", "Polls", "Duration", "Title / Error"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
	)
}

func formatTimestamp(value string) string {
	if value == "" {
		return "-"
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return value
	}
	return parsed.Local().Format("2006-01-02 15:04:05")
}

func formatDurationMS(ms int64) string {
	if ms <= 0 {
		return "-"
	}
	return time.Duration(ms * int64(time.Millisecond)).Round(10 * time.Millisecond).String()
}

func formatByteCount(n int64) string {
	switch {
	case n <= 0:
		return "-"
	case n < 1<<10:
		return fmt.Sprintf("%d B", n)
	case n < 1<<20:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	}
}

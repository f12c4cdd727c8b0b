package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"inkjet/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var withChecks bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon state and readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			status, statusErr := client.Status(cmd.Context())

			if asJSON {
				payload := map[string]any{"running": statusErr == nil}
				if statusErr == nil {
					payload["daemon"] = status
				} else {
					payload["error"] = statusErr.Error()
				}
				return writeJSON(cmd, payload)
			}

			for _, line := range renderSectionHeader("Daemon", colorize) {
				fmt.Fprintln(out, line)
			}
			if statusErr != nil {
				fmt.Fprintln(out, renderStatusLine("Daemon", statusError, "not reachable at "+ctx.daemonAddress(), colorize))
			} else {
				fmt.Fprintln(out, renderStatusLine("Daemon", statusOK, fmt.Sprintf("running (pid %d, version %s)", status.PID, status.Version), colorize))
				fmt.Fprintln(out, renderStatusLine("Address", statusInfo, status.Bind, colorize))
				if status.StartedAt != "" {
					fmt.Fprintln(out, renderStatusLine("Started", statusInfo, formatTimestamp(status.StartedAt), colorize))
				}
				totals := status.Conversions
				fmt.Fprintln(out, renderStatusLine("Conversions", statusInfo,
					fmt.Sprintf("%d total (%d succeeded, %d failed, %d timed out, %d rejected)",
						totals.Total, totals.Succeeded, totals.Failed, totals.TimedOut, totals.Rejected), colorize))
			}

			if !withChecks {
				return nil
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(out)
			for _, line := range renderSectionHeader("Preflight", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				kind := statusOK
				if !result.Passed {
					kind = statusError
					if result.Optional {
						kind = statusWarn
					}
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of formatted text")
	cmd.Flags().BoolVar(&withChecks, "checks", false, "Run local preflight checks too")
	return cmd
}

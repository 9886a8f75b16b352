package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewRematchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rematch <report-id>",
		Short: "Re-run matching for an existing report",
		Long: `Score an active report against every active report of the opposite kind.
Pairs that already have a match record are skipped, so no notification is sent twice.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			recs, err := a.reports.Rematch(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("rematch %s: %w", args[0], err)
			}

			wait, _ := cmd.Flags().GetDuration("wait")
			waitCtx, cancel := context.WithTimeout(cmd.Context(), wait)
			defer cancel()
			if err := a.runner.Wait(waitCtx); err != nil {
				a.logger.Warn("Notifications still pending", zap.Error(err))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d new match(es) for %s\n", len(recs), args[0])
			for i := range recs {
				fmt.Fprintf(out, "  %s  %.1f%%\n", recs[i].Counterpart(args[0]), recs[i].Score()*100)
			}
			return nil
		},
	}

	cmd.Flags().Duration("wait", 30*time.Second, "How long to wait for notifications to be sent")
	return cmd
}

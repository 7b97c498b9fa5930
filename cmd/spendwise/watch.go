package main

import (
	"github.com/spf13/cobra"

	"github.com/jask/spendwise/internal/ledger"
	"github.com/jask/spendwise/internal/watch"
)

func newWatchCmd(with wrap) *cobra.Command {
	var (
		schedule string
		once     bool
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Check the spending limit on a schedule until interrupted",
		Args:  cobra.NoArgs,
		RunE: with(func(a *app, cmd *cobra.Command, _ []string) error {
			if schedule == "" {
				schedule = a.cfg.Watch.Schedule
			}
			notify := func(alert ledger.Alert) {
				style := a.theme.warning
				if alert.Level == ledger.AlertExceeded {
					style = a.theme.errorS
				}
				a.println(style.Render(alert.Message))
			}
			w, err := watch.New(a.store, schedule, notify, a.log)
			if err != nil {
				return err
			}
			if once {
				if w.RunOnce() == nil {
					a.println(a.theme.success.Render("Spending is within the limit."))
				}
				return nil
			}

			w.Start()
			a.println(a.theme.info.Render("Watching spending (" + schedule + "). Press Ctrl+C to stop."))
			<-cmd.Context().Done()
			<-w.Stop().Done()
			return nil
		}),
	}
	cmd.Flags().StringVar(&schedule, "schedule", "", "cron schedule (default from config, @daily)")
	cmd.Flags().BoolVar(&once, "once", false, "run a single check and exit")
	return cmd
}

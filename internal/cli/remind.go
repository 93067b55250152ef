package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/syndic/internal/services"
)

// RemindCmd runs the monthly auto reminder job once, for hosts that prefer
// an external scheduler over the in-process one.
func RemindCmd(open RuntimeOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Log auto reminders for unpaid apartments of the current month",
		RunE: func(cmd *cobra.Command, args []string) error {
			runtime, err := open()
			if err != nil {
				return err
			}
			defer runtime.Close()

			scheduler := services.NewReminderScheduler(runtime.Reconciler, runtime.Config.AutoReminderSpec, runtime.Config.Location, runtime.Logger)
			logged := scheduler.RunOnce()
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %d reminders\n", logged)
			return nil
		},
	}
}

package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show renewal summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.client.Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("error loading stats: %w", err)
			}
			w := out(cmd)
			fmt.Fprintf(w, "Total accounts: %d\n", st.Total)
			color.New(color.FgRed).Fprintf(w, "Overdue:        %d\n", st.Overdue)
			color.New(color.FgYellow).Fprintf(w, "Due today:      %d\n", st.DueToday)
			color.New(color.FgGreen).Fprintf(w, "Due this week:  %d\n", st.DueThisWeek)
			fmt.Fprintf(w, "Monthly total:  %s %.2f\n", a.cfg.Currency, st.TotalPrice)
			return nil
		},
	}
}

package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/renewal-tracker/internal/models"
	"github.com/magabrotheeeer/renewal-tracker/internal/tracker"
)

func newListCmd(a *app) *cobra.Command {
	var search, bucket, sortOrder string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Long: `List accounts ordered by renewal date.
Buckets: all, overdue, today, week, month, future.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := tracker.ParseBucket(bucket)
			if err != nil {
				return err
			}
			s, err := tracker.ParseSortOrder(sortOrder)
			if err != nil {
				return err
			}

			accounts, err := a.client.Search(cmd.Context(), tracker.Query{Search: search, Bucket: b, Sort: s})
			if err != nil {
				return fmt.Errorf("error listing accounts: %w", err)
			}
			if len(accounts) == 0 {
				fmt.Fprintln(out(cmd), "No accounts found.")
				return nil
			}
			printAccounts(out(cmd), accounts, a.now(), a.cfg.Currency)
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "match email or notes")
	cmd.Flags().StringVar(&bucket, "bucket", string(tracker.BucketAll), "renewal range filter")
	cmd.Flags().StringVar(&sortOrder, "sort", string(tracker.SortAsc), "asc or desc by renewal date")
	return cmd
}

func printAccounts(w io.Writer, accounts []models.Account, now time.Time, currency string) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tRENEWAL\tPRICE\tSTATUS")
	for _, acc := range accounts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			acc.ID, acc.Email, acc.RenewalDate, formatPrice(acc.Price, currency), dueText(acc, now))
	}
	tw.Flush()
}

func dueText(acc models.Account, now time.Time) string {
	days, ok := tracker.DaysUntil(acc, now)
	if !ok {
		return "invalid renewal date"
	}
	label := tracker.DueLabel(days)
	switch tracker.UrgencyOf(days) {
	case tracker.UrgencyOverdue:
		return color.RedString(label)
	case tracker.UrgencyUrgent:
		return color.YellowString(label)
	default:
		return color.GreenString(label)
	}
}

func formatPrice(p models.Price, currency string) string {
	if p == "" {
		return "-"
	}
	return fmt.Sprintf("%s %.2f", currency, p.Amount())
}

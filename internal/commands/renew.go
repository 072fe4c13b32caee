package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/renewal-tracker/internal/models"
)

func newRenewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "renew <id>",
		Short: "Move the renewal date of an account one month forward",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, err := a.client.Renew(cmd.Context(), models.Account{ID: args[0]})
			if err != nil {
				return fmt.Errorf("error renewing account: %w", err)
			}
			color.New(color.FgGreen).Fprintf(out(cmd), "Renewed %s: next renewal %s (was %s)\n",
				acc.Email, acc.RenewalDate, acc.LastRenewalDate)
			return nil
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if !yes {
				fmt.Fprintf(out(cmd), "Are you sure you want to delete account %s? [y/N] ", id)
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				answer = strings.ToLower(strings.TrimSpace(answer))
				if answer != "y" && answer != "yes" {
					fmt.Fprintln(out(cmd), "Aborted.")
					return nil
				}
			}

			deleted, err := a.client.Delete(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("error deleting account: %w", err)
			}
			color.New(color.FgYellow).Fprintf(out(cmd), "Deleted %s\n", deleted)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

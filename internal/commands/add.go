package commands

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/renewal-tracker/internal/lib/validation"
	"github.com/magabrotheeeer/renewal-tracker/internal/models"
)

func newAddCmd(a *app) *cobra.Command {
	var draft models.AccountDraft
	var price string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			draft.Price = models.Price(strings.TrimSpace(price))
			draft = draft.Normalize()
			if err := validation.New().Struct(draft); err != nil {
				return fmt.Errorf("invalid account: %w", err)
			}

			acc, err := a.client.Create(cmd.Context(), draft)
			if err != nil {
				return fmt.Errorf("error adding account: %w", err)
			}
			color.New(color.FgGreen).Fprintf(out(cmd), "Added %s (%s), renews %s\n", acc.Email, acc.ID, acc.RenewalDate)
			return nil
		},
	}
	cmd.Flags().StringVar(&draft.Email, "email", "", "account email (required)")
	cmd.Flags().StringVar(&draft.RenewalDate, "renewal-date", "", "next renewal date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&price, "price", "", "monthly price")
	cmd.Flags().StringVar(&draft.Notes, "notes", "", "free-form notes")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("renewal-date")
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var email, renewalDate, price, notes string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of an account",
		Long:  `Only the flags passed on the command line are changed.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch models.AccountPatch
			flags := cmd.Flags()
			if flags.Changed("email") {
				patch.Email = &email
			}
			if flags.Changed("renewal-date") {
				patch.RenewalDate = &renewalDate
			}
			if flags.Changed("price") {
				p := models.Price(price)
				patch.Price = &p
			}
			if flags.Changed("notes") {
				patch.Notes = &notes
			}
			if patch.IsEmpty() {
				return fmt.Errorf("nothing to change: pass at least one of --email, --renewal-date, --price, --notes")
			}
			patch = patch.Normalize()
			if err := validation.New().Struct(patch); err != nil {
				return fmt.Errorf("invalid account: %w", err)
			}

			acc, err := a.client.Update(cmd.Context(), args[0], patch)
			if err != nil {
				return fmt.Errorf("error updating account: %w", err)
			}
			color.New(color.FgGreen).Fprintf(out(cmd), "Updated %s (%s)\n", acc.Email, acc.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&renewalDate, "renewal-date", "", "next renewal date, YYYY-MM-DD")
	cmd.Flags().StringVar(&price, "price", "", "monthly price")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	return cmd
}

// Package commands собирает cobra-команды консольного клиента трекера.
package commands

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/renewal-tracker/internal/config"
	"github.com/magabrotheeeer/renewal-tracker/internal/models"
	"github.com/magabrotheeeer/renewal-tracker/internal/storeclient"
	"github.com/magabrotheeeer/renewal-tracker/internal/tracker"
	"github.com/magabrotheeeer/renewal-tracker/internal/tui"
)

// Client - операции сервера, которые использует консольный клиент.
type Client interface {
	tui.Store
	Search(ctx context.Context, q tracker.Query) ([]models.Account, error)
	Stats(ctx context.Context) (models.Stats, error)
}

type app struct {
	cfg       *config.Client
	log       *slog.Logger
	serverURL string
	client    Client
	now       func() time.Time

	newClient func(serverURL string, timeout time.Duration) Client
	dashboard func(ctx context.Context, store tui.Store, log *slog.Logger, currency string) error
}

// Execute запускает корневую команду с аргументами процесса.
func Execute(ctx context.Context, cfg *config.Client, log *slog.Logger) error {
	return newRootCmd(newApp(cfg, log)).ExecuteContext(ctx)
}

func newApp(cfg *config.Client, log *slog.Logger) *app {
	return &app{
		cfg: cfg,
		log: log,
		now: time.Now,
		newClient: func(serverURL string, timeout time.Duration) Client {
			return storeclient.New(serverURL, timeout)
		},
		dashboard: tui.Run,
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tracker",
		Short: "Track Netflix account renewals",
		Long: `tracker keeps a list of Netflix accounts with their monthly renewal dates.
Without a subcommand it opens the interactive dashboard.`,
		Version:       "1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.client = a.newClient(a.serverURL, a.cfg.Timeout)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.dashboard(cmd.Context(), a.client, a.log, a.cfg.Currency)
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.serverURL, "server", a.cfg.ServerURL, "tracker server URL (env TRACKER_SERVER_URL)")

	rootCmd.AddCommand(newListCmd(a))
	rootCmd.AddCommand(newAddCmd(a))
	rootCmd.AddCommand(newEditCmd(a))
	rootCmd.AddCommand(newRenewCmd(a))
	rootCmd.AddCommand(newDeleteCmd(a))
	rootCmd.AddCommand(newStatsCmd(a))
	return rootCmd
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"jellyterm/internal/bootstrap"
	catalogdto "jellyterm/internal/modules/catalog/dto"
	"jellyterm/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configDir string

	root := &cobra.Command{
		Use:           "jellyterm",
		Short:         "Terminal client for Jellyfin media servers",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI(configDir)
		},
	}
	root.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default: OS user config dir)")

	root.AddCommand(newTUICmd(&configDir))
	root.AddCommand(newLoginCmd(&configDir))
	root.AddCommand(newLogoutCmd(&configDir))
	root.AddCommand(newLsCmd(&configDir))
	root.AddCommand(newSearchCmd(&configDir))
	root.AddCommand(newPlayCmd(&configDir))
	root.AddCommand(newWatchedCmd(&configDir))
	root.AddCommand(newMarkersCmd(&configDir))
	root.AddCommand(newHistoryCmd(&configDir))
	return root
}

func loadApp(configDir string) (*bootstrap.App, config.Config, error) {
	cfg, err := config.Load(configDir)
	if err != nil {
		return nil, config.Config{}, err
	}
	app, err := bootstrap.New(cfg)
	if err != nil {
		return nil, config.Config{}, err
	}
	return app, cfg, nil
}

func runTUI(configDir string) error {
	app, _, err := loadApp(configDir)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()
	return bootstrap.RunTUI(app)
}

func newTUICmd(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the interactive terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI(*configDir)
		},
	}
}

func newLoginCmd(configDir *string) *cobra.Command {
	var server, username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against a Jellyfin server and store the token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configDir)
			if err != nil {
				return err
			}
			if server != "" {
				cfg.Settings.ServerURL = server
			}
			if cfg.Settings.ServerURL == "" {
				return fmt.Errorf("no server url: pass --server or set server_url in config")
			}
			app, err := bootstrap.New(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			identity, err := app.CatalogCLI.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			if err := cfg.SetCredentials(cfg.Settings.ServerURL, identity.Token, identity.UserID); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", identity.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&server, "server", "", "server base URL, e.g. https://jellyfin.example.org")
	cmd.Flags().StringVar(&username, "username", "", "account username")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newLogoutCmd(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token, keep preferences",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configDir)
			if err != nil {
				return err
			}
			if err := cfg.ClearCredentials(); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func newLsCmd(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "ls [parent-id]",
		Short: "List libraries, or the children of an item",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, _, err := loadApp(*configDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			var items []catalogItem
			if len(args) == 0 {
				out, err := app.CatalogCLI.Libraries(cmd.Context())
				if err != nil {
					return err
				}
				items = toCatalogItems(out)
			} else {
				out, err := app.CatalogCLI.Children(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				items = toCatalogItems(out)
			}
			printItems(cmd, items)
			return nil
		},
	}
}

func newSearchCmd(configDir *string) *cobra.Command {
	var kinds []string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the whole catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, _, err := loadApp(*configDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			out, err := app.CatalogCLI.Search(cmd.Context(), args[0], kinds)
			if err != nil {
				return err
			}
			printItems(cmd, toCatalogItems(out))
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&kinds, "kinds", nil, "limit to kinds: movie,show,episode")
	return cmd
}

func newPlayCmd(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "play <item-id>",
		Short: "Play an item in mpv and report progress until it ends",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, _, err := loadApp(*configDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := app.PlaybackTUI.Play(ctx, args[0]); err != nil {
				return err
			}

			// Block until the player exits, or until the user interrupts us
			// and we shut the session down ourselves.
			ticker := time.NewTicker(500 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
					defer cancel()
					return app.PlaybackTUI.Stop(stopCtx)
				case <-ticker.C:
					if !app.PlaybackTUI.Status().Active {
						return nil
					}
				}
			}
		},
	}
}

func newWatchedCmd(configDir *string) *cobra.Command {
	watched := &cobra.Command{Use: "watched", Short: "Mark items watched or unwatched"}

	set := func(use string, value bool) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <item-id>",
			Short: use + " the watched flag",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				app, _, err := loadApp(*configDir)
				if err != nil {
					return err
				}
				defer func() { _ = app.Close() }()
				return app.CatalogCLI.SetWatched(cmd.Context(), args[0], value)
			},
		}
	}
	watched.AddCommand(set("set", true), set("clear", false))
	return watched
}

func newMarkersCmd(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "markers <item-id>",
		Short: "Show the skippable segments of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, _, err := loadApp(*configDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			markers, err := app.CatalogCLI.Markers(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, m := range markers {
				source := "server"
				if m.FromChapters {
					source = "chapters"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-8s %8s - %8s  (%s)\n",
					m.Kind, clock(m.StartSecs), clock(m.EndSecs), source)
			}
			return nil
		},
	}
}

func newHistoryCmd(configDir *string) *cobra.Command {
	var limit int

	history := &cobra.Command{
		Use:   "history",
		Short: "Show recently played items",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, _, err := loadApp(*configDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			entries, err := app.HistoryCLI.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			for _, e := range entries {
				mark := " "
				if e.Completed {
					mark = "✓"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s  %s / %s\n",
					mark, e.EndedAt.Local().Format("2006-01-02 15:04"), e.Title,
					clock(e.PositionSecs), clock(e.RuntimeSecs))
			}
			return nil
		},
	}
	history.Flags().IntVar(&limit, "limit", 20, "max entries to show")

	history.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Wipe the local playback history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, _, err := loadApp(*configDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			return app.HistoryCLI.Clear(cmd.Context())
		},
	})
	return history
}

// ─── output helpers ──────────────────────────────────────────────────────────

type catalogItem struct {
	id      string
	kind    string
	label   string
	watched bool
	runtime float64
}

func toCatalogItems(out []catalogdto.ItemOutput) []catalogItem {
	items := make([]catalogItem, len(out))
	for i, o := range out {
		items[i] = catalogItem{
			id:      o.ID,
			kind:    o.Kind,
			label:   o.Label,
			watched: o.Watched,
			runtime: o.RuntimeSecs,
		}
	}
	return items
}

func printItems(cmd *cobra.Command, items []catalogItem) {
	for _, it := range items {
		mark := " "
		if it.watched {
			mark = "✓"
		}
		line := fmt.Sprintf("%s %-36s %-8s %s", mark, it.id, it.kind, it.label)
		if it.runtime > 0 {
			line += "  (" + clock(it.runtime) + ")"
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
	}
}

func clock(secs float64) string {
	d := time.Duration(secs * float64(time.Second)).Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return strconv.Itoa(m) + ":" + fmt.Sprintf("%02d", s)
}

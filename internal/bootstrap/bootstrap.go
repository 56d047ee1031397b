package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	browseinadapter "jellyterm/internal/modules/browse/adapter/in"
	browseoutadapter "jellyterm/internal/modules/browse/adapter/out"
	browseservice "jellyterm/internal/modules/browse/service"
	browseusecase "jellyterm/internal/modules/browse/usecase"
	cataloginadapter "jellyterm/internal/modules/catalog/adapter/in"
	catalogoutadapter "jellyterm/internal/modules/catalog/adapter/out"
	catalogservice "jellyterm/internal/modules/catalog/service"
	catalogusecase "jellyterm/internal/modules/catalog/usecase"
	historyinadapter "jellyterm/internal/modules/history/adapter/in"
	historyoutadapter "jellyterm/internal/modules/history/adapter/out"
	historyout "jellyterm/internal/modules/history/port/out"
	historyservice "jellyterm/internal/modules/history/service"
	historyusecase "jellyterm/internal/modules/history/usecase"
	playbackinadapter "jellyterm/internal/modules/playback/adapter/in"
	playbackoutadapter "jellyterm/internal/modules/playback/adapter/out"
	playbackdomain "jellyterm/internal/modules/playback/domain"
	playbackservice "jellyterm/internal/modules/playback/service"
	playbackusecase "jellyterm/internal/modules/playback/usecase"
	playeroutadapter "jellyterm/internal/modules/player/adapter/out"
	playerservice "jellyterm/internal/modules/player/service"
	playerusecase "jellyterm/internal/modules/player/usecase"
	"jellyterm/internal/platform/clock"
	"jellyterm/internal/platform/config"
	apperrors "jellyterm/internal/platform/errors"
	"jellyterm/internal/platform/id"
	uiapp "jellyterm/internal/ui/app"
)

// App holds the wired inbound handlers plus the resources that outlive a
// single call.
type App struct {
	CatalogCLI  cataloginadapter.CLIHandler
	BrowseTUI   browseinadapter.TUIHandler
	PlaybackTUI playbackinadapter.TUIHandler
	HistoryCLI  historyinadapter.CLIHandler

	// Notices carries playback advisories for the UI status bar.
	Notices <-chan string

	store historyout.Store
}

func New(cfg config.Config) (*App, error) {
	clk := clock.SystemClock{}
	ids := id.UUID{}

	// The device id identifies this install to the server across restarts;
	// mint one on first run.
	if cfg.Settings.DeviceID == "" {
		cfg.Settings.DeviceID = ids.New()
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("persist device id: %w", err)
		}
	}
	s := cfg.Settings

	server := catalogoutadapter.NewJellyfinServer(
		s.ServerURL, s.Token, s.UserID, s.DeviceID, time.Duration(s.RequestTimeout))
	catalogUC := catalogusecase.NewInteractor(
		catalogservice.NewCatalogService(server), s.CompletionThreshold)

	nav := browseservice.NewNavigatorService(browseoutadapter.NewCatalogAdapter(catalogUC))
	browseUC := browseusecase.NewInteractor(nav)

	supervisor := playerservice.NewSupervisorService(
		playeroutadapter.NewMPVLauncher(s.PlayerCommand, s.PlayerExtraArgs),
		playeroutadapter.NewMPVRemote(),
		ids, clk,
		playerservice.Timeouts{
			SampleInterval: time.Duration(s.SampleInterval),
			IPCReady:       time.Duration(s.IPCReadyTimeout),
			Stop:           time.Duration(s.StopTimeout),
		},
	)
	playerUC := playerusecase.NewInteractor(supervisor)

	store, err := historyoutadapter.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}
	historyUC := historyusecase.NewInteractor(historyservice.NewHistoryService(store))

	kinds, err := parseSkipKinds(s.SkipSegments)
	if err != nil {
		return nil, err
	}

	notices := make(chan string, 8)
	controller := playbackservice.NewController(
		playbackoutadapter.NewCatalogAdapter(catalogUC),
		playbackoutadapter.NewPlayerAdapter(playerUC, map[string]string{
			"X-MediaBrowser-Token": s.Token,
		}),
		playbackoutadapter.NewHistoryAdapter(historyUC),
		playbackoutadapter.NewBrowseAdapter(browseUC),
		clk,
		playbackservice.Config{
			EnabledKinds:        kinds,
			CompletionThreshold: s.CompletionThreshold,
			ReportInterval:      time.Duration(s.ReportInterval),
			StopTimeout:         time.Duration(s.StopTimeout),
		},
		func(text string) {
			// Drop rather than block: a stalled UI must never stall playback.
			select {
			case notices <- text:
			default:
			}
		},
	)
	playbackUC := playbackusecase.NewInteractor(controller)

	return &App{
		CatalogCLI:  cataloginadapter.NewCLIHandler(catalogUC),
		BrowseTUI:   browseinadapter.NewTUIHandler(browseUC),
		PlaybackTUI: playbackinadapter.NewTUIHandler(playbackUC),
		HistoryCLI:  historyinadapter.NewCLIHandler(historyUC),
		Notices:     notices,
		store:       store,
	}, nil
}

// Close releases held resources. Call it once the process is done with the App.
func (a *App) Close() error {
	return a.store.Close()
}

func parseSkipKinds(names []string) ([]playbackdomain.SegmentKind, error) {
	kinds := make([]playbackdomain.SegmentKind, 0, len(names))
	for _, name := range names {
		kind, err := playbackdomain.ParseSegmentKind(name)
		if err != nil {
			return nil, fmt.Errorf("config skip_segments: %w", err)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

// RunTUI runs the interactive client until the user quits, then tears down
// any playback still running so its final report lands.
func RunTUI(app *App) error {
	model := uiapp.NewModel(app.BrowseTUI, app.PlaybackTUI, app.HistoryCLI, app.Notices)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, runErr := program.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.PlaybackTUI.Stop(ctx); err != nil && !errors.Is(err, apperrors.ErrNoActiveSession) {
		if runErr == nil {
			runErr = err
		}
	}
	return runErr
}

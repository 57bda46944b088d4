package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/skysync/skysync-tui/internal/app/config"
	"github.com/skysync/skysync-tui/internal/app/dto"
	"github.com/skysync/skysync-tui/internal/app/service"
	"github.com/skysync/skysync-tui/internal/pkg/apiclient"
	"github.com/skysync/skysync-tui/internal/pkg/lastsearch"
	"github.com/skysync/skysync-tui/internal/pkg/logger"
	"github.com/skysync/skysync-tui/internal/pkg/session"
	"github.com/skysync/skysync-tui/internal/pkg/tracing"
	"github.com/skysync/skysync-tui/internal/tui"
)

func main() {
	cfg := config.MustInitConfig(".env")

	// The terminal is owned by the TUI renderer; logs go to a file.
	logger.InitFileLogger(cfg.LogLevel, cfg.LogFile)

	slog.Debug("config loaded successfully", slog.Any("config", cfg))
	runApp(cfg)
}

func runApp(cfg config.Config) {
	ctx := context.Background()

	if err := dto.InitValidator(); err != nil {
		slog.ErrorContext(ctx, "failed to init validator", slog.String("error", err.Error()))
		os.Exit(1)
	}

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		slog.ErrorContext(ctx, "failed to init tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTracing(ctx); err != nil {
			slog.WarnContext(ctx, "failed to shut down tracing", slog.String("error", err.Error()))
		}
	}()

	store, err := openSessionStore(cfg.Session)
	if err != nil {
		slog.ErrorContext(ctx, "failed to open session store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	api := apiclient.New(cfg.API.BaseURL, cfg.API.Timeout, store)

	auth := service.NewAuthService(api, store)
	auth.Init()

	// A 401 from any call drops the in-memory session; the UI learns of
	// it through the expired-session error on the failed operation.
	api.OnSessionExpired(auth.DropSession)

	services := tui.Services{
		Auth:               auth,
		Flights:            service.NewFlightService(api, cfg.Search),
		Checkout:           service.NewCheckoutService(api, cfg.Checkout),
		LastSearches:       lastsearch.New(store),
		SuggestionDebounce: cfg.Search.SuggestionDebounce,
	}

	program := tea.NewProgram(tui.NewModel(services), tea.WithAltScreen())

	if _, err := program.Run(); err != nil {
		slog.ErrorContext(ctx, "program exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func openSessionStore(cfg config.Session) (session.Store, error) {
	if cfg.Ephemeral {
		return session.NewMemoryStore(), nil
	}

	return session.NewFileStore(cfg.File)
}

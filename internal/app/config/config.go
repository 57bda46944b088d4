package config

import (
	"log/slog"
	"time"
)

type LogLeveler string

func (l LogLeveler) Level() slog.Level {
	var level slog.Level

	_ = level.UnmarshalText([]byte(l))

	return level
}

// Config holds the client configuration.
type Config struct {
	LogLevel LogLeveler `mapstructure:"LOG_LEVEL"`
	LogFile  string     `mapstructure:"LOG_FILE"`
	API      API        `mapstructure:",squash"`
	Session  Session    `mapstructure:",squash"`
	Tracing  Tracing    `mapstructure:",squash"`
	Search   Search     `mapstructure:",squash"`
	Checkout Checkout   `mapstructure:",squash"`
	MockAPI  MockAPI    `mapstructure:",squash"`
}

// API points at the booking backend. All endpoint paths are resolved
// relative to BaseURL.
type API struct {
	BaseURL string        `mapstructure:"API_BASE_URL"`
	Timeout time.Duration `mapstructure:"API_TIMEOUT"`
}

// Session configures the durable client-side record (token, user profile,
// recent searches). Ephemeral keeps everything in memory for throwaway runs.
type Session struct {
	File      string `mapstructure:"SESSION_FILE"`
	Ephemeral bool   `mapstructure:"SESSION_EPHEMERAL"`
}

type Tracing struct {
	Enabled     bool   `mapstructure:"OTEL_ENABLED"`
	EndpointURL string `mapstructure:"OTEL_TRACE_URL"`
	ServiceName string `mapstructure:"OTEL_SERVICE_NAME"`
}

type Search struct {
	PageSize           int           `mapstructure:"FLIGHT_PAGE_SIZE"`
	SuggestionPageSize int           `mapstructure:"AIRPORT_SUGGESTION_PAGE_SIZE"`
	SuggestionDebounce time.Duration `mapstructure:"AIRPORT_SUGGESTION_DEBOUNCE"`
}

type Checkout struct {
	// CompensateOnFailure cancels already-created reservations when a later
	// seat in the same batch fails to reserve. Off by default: the backend
	// owns booking consistency and orphaned reservations expire server-side.
	CompensateOnFailure bool `mapstructure:"CHECKOUT_COMPENSATE_ON_FAILURE"`
}

// MockAPI configures the bundled stand-in backend (cmd/mockapi).
type MockAPI struct {
	Port    int           `mapstructure:"MOCKAPI_PORT"`
	Timeout time.Duration `mapstructure:"MOCKAPI_TIMEOUT"`
}

package logging

import (
	"log/slog"
	"os"
)

// SetupJSON sets slog's default logger to JSON output at the given
// level, tagged with the service name so the api and migrator logs are
// distinguishable in an aggregated stream.
func SetupJSON(level slog.Level) {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})

	logger := slog.New(handler).With("service", serviceName())

	slog.SetDefault(logger)
}

func serviceName() string {
	name := os.Getenv("APP_SERVICE_NAME")
	if name != "" {
		return name
	}

	return "wallet"
}

package application

import "log/slog"

// ComponentName tags every record this service logs.
const ComponentName = "upload-service"

// ResolveLogger falls back to the process default and tags the result with the component.
func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With("component", ComponentName)
}

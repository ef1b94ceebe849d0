// Package logging is a thin subsystem-aware wrapper around log/slog.
//
// Call InitForCLI once at startup; until then every log call is a no-op.
// Each entry carries a "subsystem" attribute so output from the lima
// adapter, the brew adapter and the container manager can be told apart:
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//	logging.Info("Sol", "Created container %s", name)
//	logging.Error("Lima", err, "Failed to stop %s", name)
//
// NewFileWriter returns a rotating file writer that can be combined with
// stderr through io.MultiWriter.
package logging

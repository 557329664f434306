package errors

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

// CLIErrorAdapter handles error presentation and exit code determination for CLI applications.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}

	if te, ok := AsThemeError(err); ok {
		return a.exitCodeFromTheme(te)
	}

	return 1
}

// exitCodeFromTheme maps ThemeError to exit codes.
func (a *CLIErrorAdapter) exitCodeFromTheme(err *ThemeError) int {
	switch err.Category {
	case CategoryValidation:
		return 2 // Invalid configuration input
	case CategoryConfig:
		return 7 // Configuration error
	case CategoryPlugin:
		return 8 // Plugin setup error
	case CategoryInvariant, CategoryConflict:
		return 9 // Runtime invariant breached
	case CategoryFileSystem:
		return 11 // Filesystem error
	case CategoryInternal:
		return 10 // Internal error
	default:
		return 1 // General error
	}
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	if te, ok := AsThemeError(err); ok {
		return a.formatTheme(te)
	}

	return fmt.Sprintf("Error: %v", err)
}

// formatTheme formats a ThemeError for display.
func (a *CLIErrorAdapter) formatTheme(err *ThemeError) string {
	if a.verbose {
		return err.Error()
	}

	switch err.Category {
	case CategoryConfig, CategoryValidation, CategoryConflict:
		return err.Message
	default:
		return fmt.Sprintf("%s: %s", err.Category, err.Message)
	}
}

// HandleError processes an error and exits the program with appropriate code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}

	exitCode := a.ExitCodeFor(err)
	message := a.FormatError(err)

	if a.shouldLog(err) {
		a.logError(err)
	}

	fmt.Fprintf(os.Stderr, "%s\n", message)
	os.Exit(exitCode)
}

// shouldLog determines if an error should be logged.
func (a *CLIErrorAdapter) shouldLog(err error) bool {
	if a.verbose {
		return true
	}

	if te, ok := AsThemeError(err); ok {
		return te.Category == CategoryInternal ||
			te.Category == CategoryInvariant ||
			te.Severity == SeverityFatal
	}

	return true
}

// logError logs an error with appropriate level and context.
func (a *CLIErrorAdapter) logError(err error) {
	if te, ok := AsThemeError(err); ok {
		level := a.slogLevelFromSeverity(te.Severity)
		attrs := []slog.Attr{
			slog.String("category", string(te.Category)),
		}
		if plugin, ok := te.Context["plugin"]; ok {
			attrs = append(attrs, slog.Any("plugin", plugin))
		}

		a.logger.LogAttrs(context.Background(), level, te.Message, attrs...)
		return
	}

	a.logger.Error("Unclassified error", "error", err)
}

// slogLevelFromSeverity converts ThemeError severity to slog level.
func (a *CLIErrorAdapter) slogLevelFromSeverity(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityWarning:
		return slog.LevelWarn
	case SeverityFatal:
		return slog.LevelError
	default:
		return slog.LevelError
	}
}

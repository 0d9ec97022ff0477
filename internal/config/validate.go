package config

import (
	"fmt"
	"path/filepath"
)

// Validate enforces settings invariants and returns non-fatal warnings.
func Validate(settings Settings) ([]Warning, error) {
	warnings := make([]Warning, 0)

	if settings.DebounceMS <= 0 {
		return nil, fmt.Errorf("debounce_ms must be > 0, got %d", settings.DebounceMS)
	}
	if settings.DebounceMS < 50 {
		warnings = append(warnings, Warning{
			Message: fmt.Sprintf("debounce_ms=%d is very small; rapid editor saves may trigger repeated reloads", settings.DebounceMS),
		})
	}

	if settings.LogFile != "" && !filepath.IsAbs(settings.LogFile) {
		return nil, fmt.Errorf("log_file must be an absolute path, got %q", settings.LogFile)
	}
	if settings.Socket != "" && !filepath.IsAbs(settings.Socket) {
		return nil, fmt.Errorf("socket must be an absolute path, got %q", settings.Socket)
	}

	return warnings, nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolveDir applies CLI/XDG/home fallback rules for the configuration
// directory location.
func ResolveDir(explicit string) (string, error) {
	if strings.TrimSpace(explicit) != "" {
		return explicit, nil
	}

	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, "marquee"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.New("unable to resolve user home for config fallback")
	}

	return filepath.Join(home, ".config", "marquee"), nil
}

// resolveStateDir selects XDG_STATE_HOME when available, otherwise
// ~/.local/state.
func resolveStateDir() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_STATE_HOME")); xdg != "" {
		return filepath.Join(xdg, "marquee"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.New("unable to resolve user home for state fallback")
	}
	return filepath.Join(home, ".local", "state", "marquee"), nil
}

// resolveSocketPath prefers the user runtime directory and falls back to a
// per-user path under the system temp directory.
func resolveSocketPath() string {
	if runtimeDir := strings.TrimSpace(os.Getenv("XDG_RUNTIME_DIR")); runtimeDir != "" {
		return filepath.Join(runtimeDir, socketName)
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("marquee-%d.sock", os.Getuid()))
}

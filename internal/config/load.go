package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Load resolves the config directory, reads marquee.toml when present, and
// derives every runtime path. A missing settings file is a warning with
// defaults, never an error; a malformed one is fatal.
func Load(explicitDir string) (Loaded, error) {
	dir, err := ResolveDir(explicitDir)
	if err != nil {
		return Loaded{}, err
	}

	settingsPath := filepath.Join(dir, settingsName)
	settings := Default()
	warnings := make([]Warning, 0)
	exists := true

	content, err := os.ReadFile(settingsPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		exists = false
		warnings = append(warnings, Warning{
			Message: fmt.Sprintf("settings file %q not found; using defaults", settingsPath),
		})
	case err != nil:
		return Loaded{}, fmt.Errorf("read settings %q: %w", settingsPath, err)
	default:
		if err := toml.Unmarshal(content, &settings); err != nil {
			return Loaded{}, fmt.Errorf("parse settings %q: %w", settingsPath, err)
		}
	}

	validationWarnings, err := Validate(settings)
	if err != nil {
		return Loaded{}, fmt.Errorf("validate settings %q: %w", settingsPath, err)
	}
	warnings = append(warnings, validationWarnings...)

	paths, err := buildPaths(dir, settings)
	if err != nil {
		return Loaded{}, err
	}
	paths.Settings = settingsPath

	return Loaded{
		Dir:      dir,
		Paths:    paths,
		Settings: settings,
		Warnings: warnings,
		Exists:   exists,
	}, nil
}

func buildPaths(dir string, settings Settings) (Paths, error) {
	stateDir, err := resolveStateDir()
	if err != nil {
		return Paths{}, err
	}

	logFile := settings.LogFile
	if logFile == "" {
		logFile = filepath.Join(stateDir, logName)
	}

	socket := settings.Socket
	if socket == "" {
		socket = resolveSocketPath()
	}

	return Paths{
		ConfigDir: dir,
		Yuck:      filepath.Join(dir, yuckName),
		Scss:      filepath.Join(dir, scssName),
		LogFile:   logFile,
		Socket:    socket,
		LockFile:  filepath.Join(stateDir, lockName),
	}, nil
}

// Package doctor runs readiness diagnostics for the config tree, state
// paths, and control socket.
package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"marquee/internal/config"
	"marquee/internal/ipc"
)

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Run executes environment and configuration checks for a loaded config.
func Run(ctx context.Context, loaded config.Loaded) Report {
	checks := []Check{}

	checks = append(checks, checkDir("config_dir", loaded.Paths.ConfigDir))
	checks = append(checks, checkFile("widget_document", loaded.Paths.Yuck, true))
	checks = append(checks, checkFile("stylesheet", loaded.Paths.Scss, false))

	if loaded.Exists {
		checks = append(checks, Check{
			Name:    "settings",
			Pass:    true,
			Message: fmt.Sprintf("loaded %q", loaded.Paths.Settings),
		})
	} else {
		checks = append(checks, Check{
			Name:    "settings",
			Pass:    true,
			Message: fmt.Sprintf("%q not found, defaults in effect", loaded.Paths.Settings),
		})
	}

	checks = append(checks, checkSocket(ctx, loaded.Paths.Socket))
	checks = append(checks, checkLock(loaded.Paths.LockFile))

	return Report{Checks: checks}
}

func checkDir(name, path string) Check {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return Check{Name: name, Message: fmt.Sprintf("%q does not exist", path)}
	case err != nil:
		return Check{Name: name, Message: err.Error()}
	case !info.IsDir():
		return Check{Name: name, Message: fmt.Sprintf("%q is not a directory", path)}
	}
	return Check{Name: name, Pass: true, Message: fmt.Sprintf("%q", path)}
}

func checkFile(name, path string, required bool) Check {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if required {
			return Check{Name: name, Message: fmt.Sprintf("%q does not exist", path)}
		}
		return Check{Name: name, Pass: true, Message: fmt.Sprintf("%q not present (optional)", path)}
	case err != nil:
		return Check{Name: name, Message: err.Error()}
	case info.IsDir():
		return Check{Name: name, Message: fmt.Sprintf("%q is a directory, expected a file", path)}
	}
	return Check{Name: name, Pass: true, Message: fmt.Sprintf("%q", path)}
}

func checkLock(path string) Check {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Check{Name: "instance_lock", Pass: true, Message: "not held"}
	}

	lock := flock.New(path)
	locked, err := lock.TryLock()
	if err != nil {
		return Check{Name: "instance_lock", Message: fmt.Sprintf("probe %q: %v", path, err)}
	}
	if !locked {
		return Check{Name: "instance_lock", Pass: true, Message: fmt.Sprintf("held by a running daemon (%q)", path)}
	}
	_ = lock.Unlock()
	return Check{Name: "instance_lock", Pass: true, Message: "not held"}
}

func checkSocket(ctx context.Context, path string) Check {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Check{Name: "daemon", Pass: true, Message: "not running"}
	}

	alive, err := ipc.Probe(ctx, path, 300*time.Millisecond)
	switch {
	case err != nil:
		return Check{Name: "daemon", Message: fmt.Sprintf("probe %q: %v", path, err)}
	case alive:
		return Check{Name: "daemon", Pass: true, Message: fmt.Sprintf("running on %q", path)}
	default:
		return Check{Name: "daemon", Pass: true, Message: fmt.Sprintf("stale socket %q, will be replaced on next start", path)}
	}
}

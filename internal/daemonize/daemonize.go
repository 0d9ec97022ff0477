// Package daemonize detaches the process from its controlling terminal and
// points terminal-backed standard streams at the daemon log file.
package daemonize

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/mattn/go-isatty"
	"golang.org/x/sys/unix"
)

// childEnv marks the re-executed daemon child. Go cannot fork a threaded
// runtime, so "fork and continue in the child" is rendered as re-exec-self
// in a new session while the parent exits.
const childEnv = "MARQUEE_DETACHED"

// Detached reports whether this process is the re-executed daemon child.
func Detached() bool {
	return os.Getenv(childEnv) == "1"
}

// Detach performs the terminal detachment step. Called in the launching
// process it spawns a detached copy of the current invocation and exits with
// status 0; called in the spawned child it redirects any terminal-backed
// stdout/stderr to the append-mode log file and returns. It must run before
// any other component allocates watchers, sockets, or worker goroutines.
func Detach(logPath string) error {
	if Detached() {
		return RedirectTerminals(logPath,
			[]int{int(os.Stdout.Fd()), int(os.Stderr.Fd())},
			func(fd int) bool { return isatty.IsTerminal(uintptr(fd)) },
			unix.Dup2,
		)
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable for detach: %w", err)
	}

	cmd := exec.Command(exe, os.Args[1:]...)
	cmd.Env = append(os.Environ(), childEnv+"=1")
	cmd.Stdin = nil
	// The child inherits the launcher's stdout/stderr and decides per
	// descriptor whether to remap it onto the log file.
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("spawn detached daemon: %w", err)
	}

	os.Exit(0)
	return nil
}

// logFile pins the redirect target for the process lifetime so the runtime
// finalizer cannot close the descriptor backing fds 1 and 2.
var logFile *os.File

// RedirectTerminals opens logPath in append mode and remaps every descriptor
// in fds that isTerminal reports as a terminal onto it. Descriptors already
// pointing at a file or pipe are left untouched.
func RedirectTerminals(logPath string, fds []int, isTerminal func(int) bool, dup2 func(oldfd, newfd int) error) error {
	target := -1
	for _, fd := range fds {
		if !isTerminal(fd) {
			continue
		}
		if target < 0 {
			f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
			if err != nil {
				return fmt.Errorf("open log file %q: %w", logPath, err)
			}
			logFile = f
			target = int(f.Fd())
		}
		if err := dup2(target, fd); err != nil {
			return fmt.Errorf("redirect fd %d to log file: %w", fd, err)
		}
	}
	return nil
}

// Package app wires the CLI surface to the daemon and to a running
// daemon's control socket.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"time"

	"marquee/internal/cli"
	"marquee/internal/config"
	"marquee/internal/doctor"
	"marquee/internal/ipc"
	"marquee/internal/server"
	"marquee/internal/version"
)

// forwardTimeout bounds each client roundtrip. Reload waits for the daemon
// to re-read both files, so it gets more headroom than a ping.
const (
	forwardTimeout = 2 * time.Second
	probeTimeout   = 300 * time.Millisecond
)

type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
}

func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	r := Runner{Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

func (r Runner) Execute(ctx context.Context, args []string) int {
	parsed, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n\n", err)
		fmt.Fprint(r.Stderr, cli.HelpText("marquee"))
		return 2
	}

	if parsed.ShowHelp {
		fmt.Fprint(r.Stdout, cli.HelpText("marquee"))
		return 0
	}

	if parsed.Command == cli.CommandVersion {
		fmt.Fprintln(r.Stdout, version.String())
		return 0
	}

	loaded, err := config.Load(parsed.ConfigDir)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	for _, w := range loaded.Warnings {
		fmt.Fprintf(r.Stderr, "warning: %s\n", w.Message)
	}

	switch parsed.Command {
	case cli.CommandDaemon:
		return r.commandDaemon(ctx, loaded, parsed.NoDetach)
	case cli.CommandDoctor:
		report := doctor.Run(ctx, loaded)
		fmt.Fprintln(r.Stdout, report.String())
		if report.OK() {
			return 0
		}
		return 1
	case cli.CommandPing:
		return r.commandPing(ctx, loaded.Paths.Socket)
	case cli.CommandReload:
		return r.forwardOrFail(ctx, loaded.Paths.Socket, ipc.Request{Command: ipc.CommandReload})
	case cli.CommandKill:
		return r.forwardOrFail(ctx, loaded.Paths.Socket, ipc.Request{Command: ipc.CommandKill})
	case cli.CommandOpen:
		return r.forwardOrFail(ctx, loaded.Paths.Socket, ipc.Request{Command: ipc.CommandOpen, Args: parsed.Args})
	case cli.CommandClose:
		return r.forwardOrFail(ctx, loaded.Paths.Socket, ipc.Request{Command: ipc.CommandClose, Args: parsed.Args})
	case cli.CommandUpdate:
		return r.forwardOrFail(ctx, loaded.Paths.Socket, ipc.Request{Command: ipc.CommandUpdate, Args: parsed.Args})
	case cli.CommandState:
		return r.forwardOrFail(ctx, loaded.Paths.Socket, ipc.Request{Command: ipc.CommandState})
	case cli.CommandWindows:
		return r.forwardOrFail(ctx, loaded.Paths.Socket, ipc.Request{Command: ipc.CommandWindows})
	default:
		fmt.Fprintf(r.Stderr, "error: unsupported command %q\n", parsed.Command)
		return 2
	}
}

func (r Runner) commandDaemon(ctx context.Context, loaded config.Loaded, noDetach bool) int {
	err := server.Run(ctx, loaded, server.Options{NoDetach: noDetach})
	if err != nil {
		if errors.Is(err, server.ErrAlreadyRunning) {
			fmt.Fprintln(r.Stderr, "error: a marquee daemon is already running")
			return 1
		}
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func (r Runner) commandPing(ctx context.Context, socketPath string) int {
	alive, err := ipc.Probe(ctx, socketPath, probeTimeout)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if !alive {
		fmt.Fprintln(r.Stdout, "marquee daemon is not running")
		return 1
	}
	fmt.Fprintln(r.Stdout, "marquee daemon is running")
	return 0
}

func (r Runner) forwardOrFail(ctx context.Context, socketPath string, req ipc.Request) int {
	resp, handled, err := tryForward(ctx, socketPath, req)
	if !handled {
		fmt.Fprintln(r.Stderr, "error: no running marquee daemon")
		return 1
	}
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if resp.Payload != "" {
		fmt.Fprintln(r.Stdout, resp.Payload)
	}
	return 0
}

func tryForward(ctx context.Context, socketPath string, req ipc.Request) (ipc.Response, bool, error) {
	resp, err := ipc.Send(ctx, socketPath, req, forwardTimeout)
	if err == nil {
		if resp.OK {
			return resp, true, nil
		}
		return resp, true, errors.New(resp.Error)
	}

	if isSocketMissing(err) || isConnectionRefused(err) {
		return ipc.Response{}, false, nil
	}

	return ipc.Response{}, true, fmt.Errorf("forward command %q: %w", req.Command, err)
}

func isSocketMissing(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, os.ErrNotExist) ||
		strings.Contains(err.Error(), "no such file or directory")
}

func isConnectionRefused(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, syscall.ECONNREFUSED)
}

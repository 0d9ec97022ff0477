// Package server assembles and runs the marquee daemon: terminal
// detachment, signal translation, the supervised background tasks, and the
// serialized UI loop they all feed.
package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"marquee/internal/command"
	"marquee/internal/config"
	"marquee/internal/daemonize"
	"marquee/internal/debounce"
	"marquee/internal/exitsignal"
	"marquee/internal/ipc"
	"marquee/internal/logging"
	"marquee/internal/ui"
	"marquee/internal/watcher"
)

// ErrAlreadyRunning mirrors the socket-level sentinel for callers that only
// import this package.
var ErrAlreadyRunning = ipc.ErrAlreadyRunning

const socketProbeTimeout = 200 * time.Millisecond

// Options controls one daemon run.
type Options struct {
	// NoDetach keeps the daemon in the foreground, logging to stderr.
	NoDetach bool
	// Renderer overrides the widget-toolkit seam; nil selects the
	// logging renderer.
	Renderer ui.Renderer
}

// Run starts the daemon and blocks until shutdown. Detachment happens
// before any watcher, socket, or worker goroutine exists.
func Run(ctx context.Context, loaded config.Loaded, opts Options) error {
	var rt logging.Runtime
	if opts.NoDetach {
		rt = logging.NewStderr()
	} else {
		if err := daemonize.Detach(loaded.Paths.LogFile); err != nil {
			return fmt.Errorf("detach from terminal: %w", err)
		}
		var err error
		rt, err = logging.New(loaded.Paths.LogFile)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
	}
	defer func() { _ = rt.Close() }()
	logger := rt.Logger

	logger.Info("initializing marquee daemon",
		"config_dir", loaded.Paths.ConfigDir,
		"socket", loaded.Paths.Socket,
		"log", loaded.Paths.LogFile,
	)
	for _, w := range loaded.Warnings {
		logger.Warn("config warning", "message", w.Message)
	}

	exit := exitsignal.New()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		for range sigCh {
			logger.Info("shutting down marquee daemon")
			exit.Signal()
		}
	}()

	if err := os.Chdir(loaded.Paths.ConfigDir); err != nil {
		return fmt.Errorf("change working directory to %q: %w", loaded.Paths.ConfigDir, err)
	}

	if err := os.MkdirAll(filepath.Dir(loaded.Paths.LockFile), 0o700); err != nil {
		return fmt.Errorf("ensure state dir: %w", err)
	}
	lock := flock.New(loaded.Paths.LockFile)
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire instance lock: %w", err)
	}
	if !locked {
		return ErrAlreadyRunning
	}
	defer func() { _ = lock.Unlock() }()

	queue := command.NewQueue()
	defer queue.Close()

	loader := ui.FileLoader{YuckPath: loaded.Paths.Yuck, ScssPath: loaded.Paths.Scss}
	app := ui.New(logger, loader, opts.Renderer)
	if err := app.LoadInitial(); err != nil {
		return fmt.Errorf("load initial configuration: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	listener, err := ipc.Acquire(runCtx, loaded.Paths.Socket, socketProbeTimeout, 4)
	if err != nil {
		if errors.Is(err, ipc.ErrAlreadyRunning) {
			return err
		}
		return fmt.Errorf("acquire control socket: %w", err)
	}
	defer func() { _ = os.Remove(loaded.Paths.Socket) }()

	gate := debounce.NewGate(time.Duration(loaded.Settings.DebounceMS) * time.Millisecond)
	fileWatcher := watcher.New(loaded.Paths.ConfigDir, queue.Sink(), gate, logger)
	handler := ipc.NewQueueHandler(queue.Sink(), logger)

	// The three producers run on the worker domain; the UI loop below is
	// the only consumer. Fail-fast join: the first task error cancels the
	// group and converges on KillServer via the forwarder.
	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error { return fileWatcher.Run(gctx) })
	g.Go(func() error { return ipc.Serve(gctx, listener, handler) })
	g.Go(func() error { return ForwardExit(gctx, exit, queue.Sink(), logger) })

	joined := make(chan error, 1)
	go func() { joined <- g.Wait() }()

	app.Run(queue)
	queue.Close()
	cancel()

	if err := <-joined; err != nil {
		logger.Error("daemon exiting with error", "error", err)
		return err
	}
	logger.Info("main application loop finished")
	return nil
}

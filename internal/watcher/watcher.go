// Package watcher observes the configuration tree and emits debounced
// reload commands.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"marquee/internal/command"
	"marquee/internal/debounce"
)

// relevantExtensions are the configuration-language and stylesheet suffixes
// that trigger a reload. Changes to any other file are discarded.
var relevantExtensions = map[string]struct{}{
	".yuck": {},
	".scss": {},
}

// Watcher drives one recursive filesystem watch feeding the command queue.
type Watcher struct {
	root   string
	sink   command.Sink
	gate   *debounce.Gate
	logger *slog.Logger
}

// New builds a watcher over root emitting into sink, rate-limited by gate.
func New(root string, sink command.Sink, gate *debounce.Gate, logger *slog.Logger) *Watcher {
	return &Watcher{root: root, sink: sink, gate: gate, logger: logger}
}

// Run watches until the context is canceled. Setup failures are fatal and
// returned; per-event errors from the notification source are logged and the
// watch continues.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create filesystem watcher: %w", err)
	}
	defer fw.Close()

	if err := addRecursive(fw, w.root); err != nil {
		return fmt.Errorf("watch config directory %q: %w", w.root, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fw, event)
		case watchErr, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("error while watching files", "error", watchErr)
		}
	}
}

func (w *Watcher) handleEvent(fw *fsnotify.Watcher, event fsnotify.Event) {
	// Directories created after startup join the watch so nested config
	// fragments keep triggering reloads.
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := addRecursive(fw, event.Name); err != nil {
				w.logger.Warn("watch new directory", "path", event.Name, "error", err)
			}
		}
	}

	// Reload fires only for watched config and style extensions.
	if !relevant(event.Name) {
		return
	}
	if !w.gate.TryClose() {
		// Coalesced into the reload already in flight this window.
		return
	}
	w.emitReload(event.Name)
}

func (w *Watcher) emitReload(path string) {
	resp := command.NewResponseChannel()
	if err := w.sink.Send(command.ReloadConfigAndCss{Resp: resp}); err != nil {
		w.logger.Warn("forward file update event", "error", err)
		return
	}
	w.logger.Info("configuration change detected", "path", path)

	go func() {
		r, ok := <-resp
		switch {
		case !ok:
			w.logger.Error("no response to configuration-reload request")
		case r.OK():
			w.logger.Info("reloaded config successfully")
		default:
			w.logger.Error("failed to reload config", "error", r.Err)
		}
	}()
}

func relevant(path string) bool {
	_, ok := relevantExtensions[filepath.Ext(path)]
	return ok
}

func addRecursive(fw *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return fw.Add(path)
		}
		return nil
	})
}

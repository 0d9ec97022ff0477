// Package ui owns all mutable application state and applies queued commands
// one at a time on a single logical thread of control.
package ui

import (
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"strings"

	"marquee/internal/command"
)

// App holds the daemon's UI-side state. Nothing outside the UI loop may
// touch it; producers influence it only by sending commands.
type App struct {
	logger *slog.Logger
	loader Loader
	render Renderer

	doc         Document
	openWindows map[string]struct{}
	vars        map[string]string
}

// New builds an app around the given loader and renderer.
func New(logger *slog.Logger, loader Loader, render Renderer) *App {
	if render == nil {
		render = NewLogRenderer(logger)
	}
	return &App{
		logger:      logger,
		loader:      loader,
		render:      render,
		openWindows: make(map[string]struct{}),
		vars:        make(map[string]string),
	}
}

// LoadInitial performs the startup configuration load. A failure here is a
// fatal startup error, unlike reloads which leave the previous state active.
func (a *App) LoadInitial() error {
	doc, err := a.loader.Load()
	if err != nil {
		return err
	}
	if err := a.render.ApplyConfig(doc); err != nil {
		return err
	}
	a.doc = doc
	return nil
}

// Run drains the queue on a locked OS thread, applying each command to
// completion before receiving the next. It returns when KillServer arrives
// or the queue closes.
func (a *App) Run(queue *command.Queue) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	for cmd := range queue.Receive() {
		if a.Handle(cmd) {
			return
		}
	}
}

// Handle applies one command synchronously and reports whether it was the
// terminal command.
func (a *App) Handle(cmd command.Command) bool {
	switch c := cmd.(type) {
	case command.KillServer:
		a.logger.Info("exiting main loop")
		return true

	case command.ReloadConfigAndCss:
		command.Reply(c.Resp, a.reload())

	case command.OpenWindow:
		if err := a.render.OpenWindow(c.Name); err != nil {
			a.logger.Error("open window", "window", c.Name, "error", err)
			break
		}
		a.openWindows[c.Name] = struct{}{}

	case command.CloseWindow:
		if err := a.render.CloseWindow(c.Name); err != nil {
			a.logger.Error("close window", "window", c.Name, "error", err)
			break
		}
		delete(a.openWindows, c.Name)

	case command.UpdateVar:
		if err := a.render.SetVar(c.Name, c.Value); err != nil {
			a.logger.Error("update variable", "name", c.Name, "error", err)
			break
		}
		a.vars[c.Name] = c.Value

	case command.PrintState:
		command.Reply(c.Resp, command.Success(a.formatState()))

	case command.PrintWindows:
		command.Reply(c.Resp, command.Success(a.formatWindows()))

	default:
		a.logger.Warn("unhandled command", "command", fmt.Sprintf("%T", cmd))
	}
	return false
}

// reload re-reads the configuration documents and applies them. On any
// failure the previously applied configuration stays active.
func (a *App) reload() command.Response {
	doc, err := a.loader.Load()
	if err != nil {
		return command.Failure(err.Error())
	}
	if err := a.render.ApplyConfig(doc); err != nil {
		return command.Failure(err.Error())
	}
	a.doc = doc
	return command.Success(fmt.Sprintf("loaded %d bytes of widgets, %d bytes of style", len(doc.Yuck), len(doc.Css)))
}

func (a *App) formatState() string {
	if len(a.vars) == 0 {
		return "no variables set"
	}
	names := make([]string, 0, len(a.vars))
	for name := range a.vars {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "%s: %s\n", name, a.vars[name])
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (a *App) formatWindows() string {
	if len(a.openWindows) == 0 {
		return "no windows open"
	}
	names := make([]string, 0, len(a.openWindows))
	for name := range a.openWindows {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, "\n")
}

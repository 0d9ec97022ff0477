package ui

import "log/slog"

// Renderer is the widget-toolkit seam. The daemon serializes every call on
// the UI loop; implementations never see concurrent invocations.
type Renderer interface {
	ApplyConfig(doc Document) error
	OpenWindow(name string) error
	CloseWindow(name string) error
	SetVar(name, value string) error
}

// LogRenderer records rendering operations without a toolkit attached. It is
// the default seam implementation and the one used by headless tests.
type LogRenderer struct {
	logger *slog.Logger
}

// NewLogRenderer builds a renderer that logs each operation.
func NewLogRenderer(logger *slog.Logger) *LogRenderer {
	return &LogRenderer{logger: logger}
}

func (r *LogRenderer) ApplyConfig(doc Document) error {
	r.logger.Info("applied configuration", "yuck_bytes", len(doc.Yuck), "css_bytes", len(doc.Css))
	return nil
}

func (r *LogRenderer) OpenWindow(name string) error {
	r.logger.Info("opened window", "window", name)
	return nil
}

func (r *LogRenderer) CloseWindow(name string) error {
	r.logger.Info("closed window", "window", name)
	return nil
}

func (r *LogRenderer) SetVar(name, value string) error {
	r.logger.Info("set variable", "name", name, "value", value)
	return nil
}

package ui

import (
	"errors"
	"fmt"
	"os"
)

// Document is one loaded configuration bundle: the raw widget markup and
// stylesheet text. Parsing either document is the configuration language's
// concern, not the daemon's.
type Document struct {
	Yuck string
	Css  string
}

// Loader produces the current configuration documents.
type Loader interface {
	Load() (Document, error)
}

// FileLoader reads the widget document and stylesheet from disk. The
// stylesheet is optional; the widget document is not.
type FileLoader struct {
	YuckPath string
	ScssPath string
}

func (l FileLoader) Load() (Document, error) {
	yuck, err := os.ReadFile(l.YuckPath)
	if err != nil {
		return Document{}, fmt.Errorf("read widget document %q: %w", l.YuckPath, err)
	}

	css, err := os.ReadFile(l.ScssPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Document{}, fmt.Errorf("read stylesheet %q: %w", l.ScssPath, err)
	}

	return Document{Yuck: string(yuck), Css: string(css)}, nil
}

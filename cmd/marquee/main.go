// Package main provides the marquee CLI process entrypoint.
package main

import (
	"context"
	"os"

	"marquee/internal/app"
)

// main hands the process arguments to the application runner. The daemon
// path installs its own signal handling, so the root context stays plain.
func main() {
	exitCode := app.Execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(exitCode)
}

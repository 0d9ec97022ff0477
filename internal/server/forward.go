package server

import (
	"context"
	"log/slog"

	"marquee/internal/command"
	"marquee/internal/exitsignal"
)

// ForwardExit waits for the shutdown broadcast and injects the terminal
// command into the queue, converging every shutdown path on the UI loop. The
// send is best-effort: a closed queue means the loop is already gone. The
// task ends after one forward.
func ForwardExit(ctx context.Context, exit *exitsignal.Signal, sink command.Sink, logger *slog.Logger) error {
	select {
	case <-exit.Wait():
		logger.Info("forward task received exit event")
	case <-ctx.Done():
		// A sibling task failed; route its teardown through the same
		// terminal command.
	}

	if err := sink.Send(command.KillServer{}); err != nil {
		logger.Warn("failed to send kill command to main loop", "error", err)
	}
	return nil
}

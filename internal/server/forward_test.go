package server

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"marquee/internal/command"
	"marquee/internal/exitsignal"
)

func TestForwardExitSendsKillOnce(t *testing.T) {
	queue := command.NewQueue()
	defer queue.Close()
	exit := exitsignal.New()

	done := make(chan error, 1)
	go func() {
		done <- ForwardExit(context.Background(), exit, queue.Sink(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	}()

	exit.Signal()
	exit.Signal()

	select {
	case cmd := <-queue.Receive():
		_, ok := cmd.(command.KillServer)
		require.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("no kill command forwarded")
	}

	require.NoError(t, <-done)

	// One forward only, regardless of repeated signals.
	select {
	case cmd := <-queue.Receive():
		t.Fatalf("unexpected second command %T", cmd)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestForwardExitBestEffortOnClosedQueue(t *testing.T) {
	queue := command.NewQueue()
	queue.Close()
	exit := exitsignal.New()
	exit.Signal()

	err := ForwardExit(context.Background(), exit, queue.Sink(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err, "a failed best-effort send must not escalate")
}

func TestForwardExitConvergesOnSiblingFailure(t *testing.T) {
	queue := command.NewQueue()
	defer queue.Close()
	exit := exitsignal.New()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ForwardExit(ctx, exit, queue.Sink(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	}()

	cancel()

	select {
	case cmd := <-queue.Receive():
		_, ok := cmd.(command.KillServer)
		require.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("no kill command forwarded after group cancellation")
	}
	require.NoError(t, <-done)
}

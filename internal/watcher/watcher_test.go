package watcher

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"marquee/internal/command"
	"marquee/internal/debounce"
)

func startWatcher(t *testing.T, root string, window time.Duration) (*command.Queue, *debounce.Gate) {
	t.Helper()

	queue := command.NewQueue()
	t.Cleanup(queue.Close)

	gate := debounce.NewGate(window)
	w := New(root, queue.Sink(), gate, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("watcher did not stop")
		}
	})

	// Give the recursive watch time to register before mutating files.
	time.Sleep(50 * time.Millisecond)
	return queue, gate
}

func expectReload(t *testing.T, queue *command.Queue) command.ReloadConfigAndCss {
	t.Helper()
	select {
	case cmd, ok := <-queue.Receive():
		require.True(t, ok)
		reload, isReload := cmd.(command.ReloadConfigAndCss)
		require.True(t, isReload, "expected reload command, got %T", cmd)
		return reload
	case <-time.After(2 * time.Second):
		t.Fatal("no reload command observed")
		return command.ReloadConfigAndCss{}
	}
}

func expectNoCommand(t *testing.T, queue *command.Queue, wait time.Duration) {
	t.Helper()
	select {
	case cmd := <-queue.Receive():
		t.Fatalf("unexpected command %T", cmd)
	case <-time.After(wait):
	}
}

func TestRelevantChangeEmitsOneReload(t *testing.T) {
	root := t.TempDir()
	queue, _ := startWatcher(t, root, time.Minute)

	require.NoError(t, os.WriteFile(filepath.Join(root, "panel.yuck"), []byte("(defwindow panel)"), 0o600))

	reload := expectReload(t, queue)
	require.NotNil(t, reload.Resp)

	command.Reply(reload.Resp, command.Success("reloaded"))
	expectNoCommand(t, queue, 200*time.Millisecond)
}

func TestIrrelevantExtensionsIgnored(t *testing.T) {
	root := t.TempDir()
	queue, gate := startWatcher(t, root, time.Minute)

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("ignored"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "panel.yuck.swp"), []byte("ignored"), 0o600))

	expectNoCommand(t, queue, 300*time.Millisecond)
	require.False(t, gate.Closed())
}

func TestBurstCoalescesToSingleReload(t *testing.T) {
	root := t.TempDir()
	queue, _ := startWatcher(t, root, time.Minute)

	for i := 0; i < 10; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(root, "style.scss"), []byte("body {}"), 0o600))
	}

	expectReload(t, queue)
	expectNoCommand(t, queue, 300*time.Millisecond)
}

func TestGateReopensForNextEvent(t *testing.T) {
	root := t.TempDir()
	queue, gate := startWatcher(t, root, 100*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(root, "panel.yuck"), []byte("a"), 0o600))
	expectReload(t, queue)

	require.Eventually(t, func() bool { return !gate.Closed() }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(root, "panel.yuck"), []byte("b"), 0o600))
	expectReload(t, queue)
}

func TestChangesInNestedDirectoriesObserved(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "widgets")
	require.NoError(t, os.MkdirAll(nested, 0o700))

	queue, _ := startWatcher(t, root, time.Minute)

	require.NoError(t, os.WriteFile(filepath.Join(nested, "clock.yuck"), []byte("(defwidget clock)"), 0o600))
	expectReload(t, queue)
}

func TestMissingRootIsFatal(t *testing.T) {
	queue := command.NewQueue()
	defer queue.Close()

	w := New(filepath.Join(t.TempDir(), "absent"), queue.Sink(), debounce.NewGate(0), slog.New(slog.NewTextHandler(io.Discard, nil)))
	err := w.Run(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "watch config directory")
}

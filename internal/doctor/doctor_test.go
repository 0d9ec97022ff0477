package doctor

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/require"

	"marquee/internal/config"
	"marquee/internal/ipc"
)

func loadedFixture(t *testing.T) config.Loaded {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	loaded, err := config.Load(dir)
	require.NoError(t, err)
	return loaded
}

func TestRunReportsMissingWidgetDocument(t *testing.T) {
	loaded := loadedFixture(t)

	report := Run(context.Background(), loaded)
	require.False(t, report.OK())
	require.Contains(t, report.String(), "[FAIL] widget_document")
	require.Contains(t, report.String(), "[OK] config_dir")
}

func TestRunAllChecksPassWithCompleteConfig(t *testing.T) {
	loaded := loadedFixture(t)
	require.NoError(t, os.WriteFile(loaded.Paths.Yuck, []byte("(defwindow bar)"), 0o600))
	require.NoError(t, os.WriteFile(loaded.Paths.Scss, []byte("* {}"), 0o600))

	report := Run(context.Background(), loaded)
	require.True(t, report.OK(), report.String())
	require.Contains(t, report.String(), "not running")
}

func TestRunDetectsLiveDaemon(t *testing.T) {
	loaded := loadedFixture(t)
	require.NoError(t, os.WriteFile(loaded.Paths.Yuck, []byte("(defwindow bar)"), 0o600))

	listener, err := net.Listen("unix", loaded.Paths.Socket)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	serveDone := make(chan error, 1)
	go func() {
		serveDone <- ipc.Serve(ctx, listener, ipc.HandlerFunc(func(context.Context, ipc.Request) ipc.Response {
			return ipc.Response{OK: true, Payload: "pong"}
		}))
	}()

	report := Run(context.Background(), loaded)
	require.Contains(t, report.String(), "running on")

	cancel()
	select {
	case err := <-serveDone:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("ipc server did not stop")
	}
}

func TestRunDetectsStaleSocket(t *testing.T) {
	loaded := loadedFixture(t)
	require.NoError(t, os.WriteFile(loaded.Paths.Yuck, []byte("(defwindow bar)"), 0o600))

	listener, err := net.Listen("unix", loaded.Paths.Socket)
	require.NoError(t, err)
	listener.(*net.UnixListener).SetUnlinkOnClose(false)
	require.NoError(t, listener.Close())

	report := Run(context.Background(), loaded)
	require.True(t, report.OK())
	require.Contains(t, report.String(), "stale socket")
}

func TestRunReportsHeldInstanceLock(t *testing.T) {
	loaded := loadedFixture(t)
	require.NoError(t, os.WriteFile(loaded.Paths.Yuck, []byte("(defwindow bar)"), 0o600))

	require.NoError(t, os.MkdirAll(filepath.Dir(loaded.Paths.LockFile), 0o700))
	lock := flock.New(loaded.Paths.LockFile)
	locked, err := lock.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	defer func() { _ = lock.Unlock() }()

	report := Run(context.Background(), loaded)
	require.True(t, report.OK())
	require.Contains(t, report.String(), "held by a running daemon")
}

func TestRunReportsAbsentInstanceLock(t *testing.T) {
	loaded := loadedFixture(t)
	require.NoError(t, os.WriteFile(loaded.Paths.Yuck, []byte("(defwindow bar)"), 0o600))

	report := Run(context.Background(), loaded)
	require.True(t, report.OK())
	require.Contains(t, report.String(), "[OK] instance_lock: not held")
}

func TestReportStringRendersStatusPerCheck(t *testing.T) {
	report := Report{Checks: []Check{
		{Name: "a", Pass: true, Message: "fine"},
		{Name: "b", Pass: false, Message: "broken"},
	}}
	rendered := report.String()
	require.Contains(t, rendered, "[OK] a: fine")
	require.Contains(t, rendered, "[FAIL] b: broken")
}

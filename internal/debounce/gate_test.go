package debounce

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTryCloseSingleWinner(t *testing.T) {
	g := NewGate(time.Minute)

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.TryClose() {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), wins.Load())
	require.True(t, g.Closed())
}

func TestGateReopensAfterWindow(t *testing.T) {
	g := NewGate(20 * time.Millisecond)

	require.True(t, g.TryClose())
	require.False(t, g.TryClose())

	require.Eventually(t, func() bool { return !g.Closed() }, time.Second, 5*time.Millisecond)
	require.True(t, g.TryClose())
}

func TestReopenUnblocksNextClose(t *testing.T) {
	g := NewGate(time.Minute)

	require.True(t, g.TryClose())
	g.Reopen()
	require.True(t, g.TryClose())
}

func TestZeroWindowFallsBackToDefault(t *testing.T) {
	g := NewGate(0)
	require.Equal(t, DefaultWindow, g.Window())
}

package gate

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoRunsSerially(t *testing.T) {
	g := New()
	defer g.Close()

	var (
		inside  atomic.Int32
		overlap atomic.Bool
		total   int
		wg      sync.WaitGroup
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := g.Do(func() {
				if inside.Add(1) != 1 {
					overlap.Store(true)
				}
				total++ // unsynchronized on purpose: the gate is the lock
				time.Sleep(time.Millisecond)
				inside.Add(-1)
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.False(t, overlap.Load(), "closures overlapped")
	assert.Equal(t, 50, total)
	assert.EqualValues(t, 50, g.Calls())
}

func TestDoRunsOnGateThread(t *testing.T) {
	g := New()
	defer g.Close()
	if g.ThreadID() == 0 {
		t.Skip("thread identification unavailable on this platform")
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var tid int64
			assert.NoError(t, g.Do(func() { tid = threadID() }))
			assert.Equal(t, g.ThreadID(), tid)
		}()
	}
	wg.Wait()
	assert.False(t, g.OnThread())
}

func TestReentrantDoRunsInline(t *testing.T) {
	g := New()
	defer g.Close()
	if g.ThreadID() == 0 {
		t.Skip("thread identification unavailable on this platform")
	}

	var (
		inner    bool
		innerErr error
	)
	done := make(chan error, 1)
	go func() {
		done <- g.Do(func() {
			innerErr = g.Do(func() { inner = true })
		})
	}()

	select {
	case err := <-done:
		assert.NoError(t, err)
		assert.NoError(t, innerErr)
		assert.True(t, inner)
	case <-time.After(time.Second):
		t.Fatal("reentrant Do deadlocked")
	}
}

func TestPanicPropagatesToCaller(t *testing.T) {
	g := New()
	defer g.Close()

	assert.PanicsWithValue(t, "native crash", func() {
		_ = g.Do(func() { panic("native crash") })
	})

	// The gate survives the panic.
	var ran bool
	require.NoError(t, g.Do(func() { ran = true }))
	assert.True(t, ran)
}

func TestCallReturnsClosureError(t *testing.T) {
	g := New()
	defer g.Close()

	want := errors.New("sp_track_release failed")
	assert.Equal(t, want, g.Call(func() error { return want }))
	assert.NoError(t, g.Call(func() error { return nil }))
}

func TestDoAfterClose(t *testing.T) {
	g := New()
	g.Close()
	g.Close()

	assert.True(t, g.Closed())
	err := g.Do(func() { t.Error("closure ran after Close") })
	assert.True(t, errors.Is(err, ErrClosed))
	assert.True(t, errors.Is(g.Call(func() error { return nil }), ErrClosed))
}

func TestCloseWaitsForRunningCall(t *testing.T) {
	g := New()

	entered := make(chan struct{})
	var finished atomic.Bool
	go func() {
		_ = g.Do(func() {
			close(entered)
			time.Sleep(20 * time.Millisecond)
			finished.Store(true)
		})
	}()
	<-entered
	g.Close()
	assert.True(t, finished.Load())
}

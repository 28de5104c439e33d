// Package gate serializes calls into libspotify.
//
// libspotify may only be entered from one thread at a time. A Gate owns a
// goroutine locked to a single OS thread and runs every submitted closure on
// it, one after the other. Callbacks fired by libspotify while a closure is
// running arrive on that same thread; a Do issued from there runs inline
// instead of deadlocking on itself.
package gate

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
)

// ErrClosed is returned by Do after Close.
var ErrClosed = errors.New("spgo: call gate is closed")

// Gate runs closures on one dedicated OS thread.
type Gate struct {
	calls chan func()
	quit  chan struct{}
	done  chan struct{}

	tid    atomic.Int64
	served atomic.Uint64

	closeOnce sync.Once
}

// New starts the gate thread and returns once it is serving.
func New() *Gate {
	g := &Gate{
		calls: make(chan func()),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	ready := make(chan struct{})
	go g.loop(ready)
	<-ready
	return g
}

func (g *Gate) loop(ready chan<- struct{}) {
	// The thread is never unlocked; it exits together with the goroutine.
	runtime.LockOSThread()
	g.tid.Store(threadID())
	close(ready)
	defer close(g.done)

	for {
		select {
		case fn := <-g.calls:
			fn()
		case <-g.quit:
			return
		}
	}
}

// Do runs fn on the gate thread and waits for it to return. A panic in fn is
// re-raised in the caller; the gate keeps serving.
func (g *Gate) Do(fn func()) error {
	if g.OnThread() {
		g.served.Add(1)
		fn()
		return nil
	}

	var (
		finished = make(chan struct{})
		panicked any
	)
	call := func() {
		defer close(finished)
		defer func() { panicked = recover() }()
		g.served.Add(1)
		fn()
	}

	select {
	case g.calls <- call:
	case <-g.done:
		return ErrClosed
	case <-g.quit:
		return ErrClosed
	}
	<-finished
	if panicked != nil {
		panic(panicked)
	}
	return nil
}

// Call runs fn on the gate thread and returns its error.
func (g *Gate) Call(fn func() error) error {
	var err error
	if gerr := g.Do(func() { err = fn() }); gerr != nil {
		return gerr
	}
	return err
}

// OnThread reports whether the caller is running on the gate thread.
// It is always false on platforms without thread identification.
func (g *Gate) OnThread() bool {
	tid := g.tid.Load()
	return tid != 0 && tid == threadID()
}

// ThreadID returns the OS thread id of the gate, or 0 if unknown.
func (g *Gate) ThreadID() int64 {
	return g.tid.Load()
}

// Calls returns how many closures the gate has run.
func (g *Gate) Calls() uint64 {
	return g.served.Load()
}

// Close stops the gate after the closure currently running, if any.
func (g *Gate) Close() {
	g.closeOnce.Do(func() {
		close(g.quit)
	})
	if !g.OnThread() {
		<-g.done
	}
}

// Closed reports whether Close has been called.
func (g *Gate) Closed() bool {
	select {
	case <-g.quit:
		return true
	default:
		return false
	}
}

// Package reaper releases foreign references in the background.
//
// Garbage collector finalizers must never wait on the lock that serializes
// calls into libspotify: the finalizer goroutine may run while another
// goroutine holds it. Finalizers therefore only Mark an entry, which pushes it
// onto a lock-free stack. A dedicated worker goroutine drains the stack in
// batches and performs the actual release calls.
package reaper

import (
	"math"
	"runtime"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

// DefaultIdleInterval is how long the worker sleeps between drain cycles when
// nothing wakes it.
const DefaultIdleInterval = 300 * time.Millisecond

// Forever is the unbounded wait. Terminate rejects it.
const Forever time.Duration = math.MaxInt64

var (
	// ErrTerminationTimeout is returned when the worker did not stop in time.
	ErrTerminationTimeout = errors.New("spgo: reaper did not terminate in time")

	// ErrInvalidTerminationWait is returned for zero, negative or unbounded waits.
	ErrInvalidTerminationWait = errors.New("spgo: reaper termination wait must be finite and positive")
)

// Releaser is a pending foreign release.
type Releaser interface {
	Release() error
}

// State is the lifecycle state of a Reaper.
type State int32

const (
	Running State = iota
	Stopping
	Stopped
	Killed // worker exited on a panic
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	case Killed:
		return "killed"
	default:
		return "unknown"
	}
}

type node struct {
	entry Releaser
	next  *node
}

// Reaper owns the pending release stack and its worker goroutine.
type Reaper struct {
	head  atomic.Pointer[node]
	state atomic.Int32

	// marks counts Mark calls between their state check and their push.
	marks atomic.Int32

	wake chan struct{}
	done chan struct{}

	idle time.Duration
	log  Logger

	released atomic.Uint64
	failed   atomic.Uint64
}

// New starts a reaper worker.
func New(opts ...Option) *Reaper {
	o := Options{
		IdleInterval: DefaultIdleInterval,
		Logger:       DefaultLogger,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.IdleInterval <= 0 {
		o.IdleInterval = DefaultIdleInterval
	}
	if o.Logger == nil {
		o.Logger = DefaultLogger
	}

	r := &Reaper{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
		idle: o.IdleInterval,
		log:  o.Logger,
	}
	go r.run()
	return r
}

// Mark queues e for release. It never blocks and takes no locks, so it is safe
// to call from a finalizer. It returns false if the worker is gone, in which
// case e is leaked and the leak is logged from a separate goroutine.
//
// Every Mark that returns true is released unless the worker is killed.
func (r *Reaper) Mark(e Releaser) bool {
	r.marks.Add(1)
	defer r.marks.Add(-1)

	switch st := r.State(); st {
	case Stopped, Killed:
		go r.log.Errorf("reaper: worker is %s; %v will never be released", st, e)
		return false
	}

	n := &node{entry: e}
	for {
		old := r.head.Load()
		n.next = old
		if r.head.CompareAndSwap(old, n) {
			break
		}
	}

	select {
	case r.wake <- struct{}{}:
	default:
	}
	return true
}

// State returns the current lifecycle state.
func (r *Reaper) State() State {
	return State(r.state.Load())
}

// Alive reports whether the worker is still accepting entries.
func (r *Reaper) Alive() bool {
	st := r.State()
	return st == Running || st == Stopping
}

// Pending returns the number of queued entries.
func (r *Reaper) Pending() int {
	n := 0
	for p := r.head.Load(); p != nil; p = p.next {
		n++
	}
	return n
}

// Released returns how many entries were released successfully.
func (r *Reaper) Released() uint64 {
	return r.released.Load()
}

// Failed returns how many release calls returned an error.
func (r *Reaper) Failed() uint64 {
	return r.failed.Load()
}

// Done is closed once the worker has exited.
func (r *Reaper) Done() <-chan struct{} {
	return r.done
}

// Terminate asks the worker to drain and stop, waiting at most wait.
//
// The wait must be bounded: a worker blocked on the call gate while the
// caller holds that gate would otherwise hang forever.
func (r *Reaper) Terminate(wait time.Duration) error {
	if wait <= 0 || wait == Forever {
		return errors.Wrapf(ErrInvalidTerminationWait, "wait %v", wait)
	}

	r.state.CompareAndSwap(int32(Running), int32(Stopping))
	select {
	case r.wake <- struct{}{}:
	default:
	}

	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-r.done:
		return nil
	case <-t.C:
		return errors.Wrapf(ErrTerminationTimeout, "after %v (%d pending)", wait, r.Pending())
	}
}

// MustTerminate is Terminate that panics on failure.
func (r *Reaper) MustTerminate(wait time.Duration) {
	if err := r.Terminate(wait); err != nil {
		panic(err)
	}
}

func (r *Reaper) run() {
	defer close(r.done)
	defer func() {
		if p := recover(); p != nil {
			r.state.Store(int32(Killed))
			r.settle()
			r.log.Errorf("reaper: worker killed by panic: %v\n%s", p, debug.Stack())
			if n := r.discard(); n > 0 {
				r.log.Errorf("reaper: %d queued handles leaked", n)
			}
		}
	}()

	t := time.NewTimer(r.idle)
	defer t.Stop()
	for {
		r.drain()
		if r.State() != Running {
			break
		}

		select {
		case <-r.wake:
		case <-t.C:
		}
		if !t.Stop() {
			select {
			case <-t.C:
			default:
			}
		}
		t.Reset(r.idle)
	}

	// Refuse new entries first, then release everything accepted so far.
	r.state.Store(int32(Stopped))
	r.settle()
	r.drain()
	r.log.Debugf("reaper: stopped after %d releases", r.released.Load())
}

// drain releases everything queued at the time of the swap.
func (r *Reaper) drain() {
	for n := r.head.Swap(nil); n != nil; n = n.next {
		if err := n.entry.Release(); err != nil {
			r.failed.Add(1)
			r.log.Errorf("reaper: releasing %v: %v", n.entry, err)
			continue
		}
		r.released.Add(1)
	}
}

// settle waits for Mark calls that passed the state check before it changed.
// Their pushes are short and lock-free.
func (r *Reaper) settle() {
	for r.marks.Load() != 0 {
		runtime.Gosched()
	}
}

func (r *Reaper) discard() int {
	n := 0
	for p := r.head.Swap(nil); p != nil; p = p.next {
		n++
	}
	return n
}

// Package managed ties the lifetime of libspotify objects to the Go garbage
// collector.
//
// A Runtime bundles the three pieces every handle needs: the registry of type
// tags, the call gate that serializes foreign calls and the reaper that
// performs releases for handles collected by the GC. Create one per process
// (spgo.Init does this) and pass it to every handle constructor.
package managed

import (
	"sync"
	"time"

	"github.com/obinnaokechukwu/spgo/internal/gate"
	"github.com/obinnaokechukwu/spgo/reaper"
	"github.com/pkg/errors"
)

// ErrClosed is returned by foreign calls after the runtime is closed.
var ErrClosed = gate.ErrClosed

// Options configures a Runtime.
type Options struct {
	// Registry holds the known type tags. Defaults to an empty registry.
	Registry *Registry

	// IdleInterval is the reaper's sleep between drain cycles.
	IdleInterval time.Duration

	// Logger receives reaper diagnostics.
	Logger reaper.Logger
}

// Option is a functional option for NewRuntime.
type Option func(*Options)

// WithRegistry sets the type registry.
func WithRegistry(r *Registry) Option {
	return func(o *Options) {
		o.Registry = r
	}
}

// WithIdleInterval sets the reaper idle interval.
func WithIdleInterval(d time.Duration) Option {
	return func(o *Options) {
		o.IdleInterval = d
	}
}

// WithLogger sets the reaper logger.
func WithLogger(l reaper.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// Runtime owns the call gate and the reaper.
type Runtime struct {
	types  *Registry
	gate   *gate.Gate
	reaper *reaper.Reaper

	closeMu sync.Mutex
	closed  bool
}

// NewRuntime starts a gate and a reaper.
func NewRuntime(opts ...Option) *Runtime {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	if o.Registry == nil {
		o.Registry = &Registry{}
	}

	var ropts []reaper.Option
	if o.IdleInterval > 0 {
		ropts = append(ropts, reaper.WithIdleInterval(o.IdleInterval))
	}
	if o.Logger != nil {
		ropts = append(ropts, reaper.WithLogger(o.Logger))
	}

	return &Runtime{
		types:  o.Registry,
		gate:   gate.New(),
		reaper: reaper.New(ropts...),
	}
}

// Types returns the type registry.
func (rt *Runtime) Types() *Registry {
	return rt.types
}

// Reaper returns the runtime's reaper.
func (rt *Runtime) Reaper() *reaper.Reaper {
	return rt.reaper
}

// Invoke runs fn with exclusive access to the native library.
func (rt *Runtime) Invoke(fn func()) error {
	return rt.gate.Do(fn)
}

// Call runs fn with exclusive access to the native library and returns its
// error.
func (rt *Runtime) Call(fn func() error) error {
	return rt.gate.Call(fn)
}

// OnGate reports whether the caller is already inside an Invoke.
func (rt *Runtime) OnGate() bool {
	return rt.gate.OnThread()
}

// NewPointer wraps addr as a handle of type tag. With retain set the foreign
// refcount is incremented before NewPointer returns, which is what accessors
// returning borrowed references need. An unknown tag fails before any
// foreign call is made. A zero addr never reaches add_ref or release.
func (rt *Runtime) NewPointer(addr uintptr, tag string, retain bool) (*Pointer, error) {
	t, err := rt.types.Lookup(tag)
	if err != nil {
		return nil, err
	}
	if retain && t.AddRef == nil {
		return nil, &InvalidTypeError{Type: tag, Reason: "type cannot be retained"}
	}

	if retain && addr != 0 {
		if err := rt.gate.Call(func() error { return t.AddRef(addr) }); err != nil {
			return nil, errors.Wrapf(err, "%s_add_ref(0x%x)", t.Name, addr)
		}
	}
	return newPointer(rt, addr, t), nil
}

// Wrap takes over an owned reference, as returned by create functions.
func (rt *Runtime) Wrap(addr uintptr, tag string) (*Pointer, error) {
	return rt.NewPointer(addr, tag, false)
}

// Retain takes a new reference to a borrowed address.
func (rt *Runtime) Retain(addr uintptr, tag string) (*Pointer, error) {
	return rt.NewPointer(addr, tag, true)
}

// Close terminates the reaper, waiting at most wait, then stops the gate.
// If the reaper does not stop in time the gate is left running so the
// reaper can still finish, and the error is returned.
func (rt *Runtime) Close(wait time.Duration) error {
	rt.closeMu.Lock()
	defer rt.closeMu.Unlock()
	if rt.closed {
		return nil
	}
	if rt.gate.OnThread() {
		return errors.New("spgo: runtime closed from inside a native call")
	}

	if err := rt.reaper.Terminate(wait); err != nil {
		return err
	}
	rt.gate.Close()
	rt.closed = true
	return nil
}

package managed

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/pkg/errors"
)

// ErrReleased is returned by Do once the reference has been dropped.
var ErrReleased = errors.New("spgo: handle released")

// Pointer is a reference to a libspotify object. The reference is dropped
// exactly once: by Free, or by the reaper after the Pointer is collected.
type Pointer struct {
	addr     uintptr
	typ      Type
	rt       *Runtime
	released atomic.Bool
}

func newPointer(rt *Runtime, addr uintptr, t Type) *Pointer {
	p := &Pointer{addr: addr, typ: t, rt: rt}
	if addr != 0 && !t.AutoReleaseExempt {
		runtime.SetFinalizer(p, (*Pointer).finalize)
	}
	return p
}

// Addr returns the raw foreign address.
func (p *Pointer) Addr() uintptr {
	if p == nil {
		return 0
	}
	return p.addr
}

// Type returns the type tag.
func (p *Pointer) Type() string {
	return p.typ.Name
}

// Runtime returns the runtime the pointer belongs to.
func (p *Pointer) Runtime() *Runtime {
	return p.rt
}

// IsNull reports whether the pointer wraps a null address.
func (p *Pointer) IsNull() bool {
	return p == nil || p.addr == 0
}

// Released reports whether the foreign reference has been dropped.
func (p *Pointer) Released() bool {
	return p.released.Load()
}

// Equal reports whether p and o refer to the same object of the same type.
func (p *Pointer) Equal(o *Pointer) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.typ.Name == o.typ.Name && p.addr == o.addr
}

func (p *Pointer) String() string {
	return fmt.Sprintf("%s(0x%x)", p.typ.Name, p.addr)
}

// Do runs fn with the address on the call gate, keeping p reachable until
// fn has returned. It returns ErrReleased without calling fn once Free has
// run. The check happens on the gate, where Free's release also runs.
func (p *Pointer) Do(fn func(addr uintptr)) error {
	released := false
	err := p.rt.Invoke(func() {
		if p.released.Load() {
			released = true
			return
		}
		fn(p.addr)
	})
	runtime.KeepAlive(p)
	if err != nil {
		return err
	}
	if released {
		return errors.Wrapf(ErrReleased, "%s", p)
	}
	return nil
}

// Free releases the foreign reference now instead of waiting for the GC.
// Calling Free more than once is a no-op.
func (p *Pointer) Free() error {
	if p == nil || p.addr == 0 {
		return nil
	}
	if !p.released.CompareAndSwap(false, true) {
		return nil
	}
	runtime.SetFinalizer(p, nil)
	return p.rt.gate.Call(func() error { return p.typ.Release(p.addr) })
}

// finalize runs on the finalizer goroutine. It must not touch the gate.
func (p *Pointer) finalize() {
	if !p.released.CompareAndSwap(false, true) {
		return
	}
	p.rt.reaper.Mark(release{addr: p.addr, typ: p.typ, rt: p.rt})
}

// release is the reaper entry for a collected Pointer.
type release struct {
	addr uintptr
	typ  Type
	rt   *Runtime
}

func (r release) Release() error {
	return r.rt.gate.Call(func() error { return r.typ.Release(r.addr) })
}

func (r release) String() string {
	return fmt.Sprintf("%s(0x%x)", r.typ.Name, r.addr)
}

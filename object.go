//go:build (darwin || linux) && (amd64 || arm64)

package spgo

import (
	"runtime"

	"github.com/obinnaokechukwu/spgo/managed"
	"github.com/pkg/errors"
)

// peek wraps an object that fn borrows from parent. libspotify keeps
// ownership of the result, so the reference is taken in the same gate call
// that resolved it; nothing else can run in between and drop the object.
func peek(parent *managed.Pointer, tag string, fn func(addr uintptr) uintptr) (*managed.Pointer, error) {
	var (
		p    *managed.Pointer
		rerr error
	)
	addr, err := resolve(parent, tag, func(a uintptr) uintptr {
		child := fn(a)
		if child != 0 {
			p, rerr = parent.Runtime().Retain(child, tag)
		}
		return child
	})
	if err != nil {
		return nil, err
	}
	if rerr != nil {
		return nil, errors.Wrapf(rerr, "%s of %s at 0x%x", tag, parent, addr)
	}
	return p, nil
}

// create wraps an object fn returns with a reference already held.
func create(parent *managed.Pointer, tag string, fn func(addr uintptr) uintptr) (*managed.Pointer, error) {
	addr, err := resolve(parent, tag, fn)
	if err != nil {
		return nil, err
	}
	return parent.Runtime().Wrap(addr, tag)
}

func resolve(parent *managed.Pointer, tag string, fn func(addr uintptr) uintptr) (uintptr, error) {
	var addr uintptr
	err := parent.Do(func(a uintptr) { addr = fn(a) })
	runtime.KeepAlive(parent)
	if err != nil {
		return 0, err
	}
	if addr == 0 {
		return 0, errors.Wrapf(ErrNotAvailable, "%s of %s", tag, parent)
	}
	return addr, nil
}

// getString runs a string accessor on the gate. A closed runtime yields "".
func getString(p *managed.Pointer, fn func(addr uintptr) string) string {
	var v string
	_ = p.Do(func(a uintptr) { v = fn(a) })
	return v
}

func getInt(p *managed.Pointer, fn func(addr uintptr) int) int {
	var v int
	_ = p.Do(func(a uintptr) { v = fn(a) })
	return v
}

func getBool(p *managed.Pointer, fn func(addr uintptr) bool) bool {
	var v bool
	_ = p.Do(func(a uintptr) { v = fn(a) })
	return v
}

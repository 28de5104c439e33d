package managed

import (
	"fmt"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// ErrInvalidType matches every *InvalidTypeError.
var ErrInvalidType = errors.New("spgo: invalid handle type")

// InvalidTypeError reports a type tag with no usable add_ref/release pair.
type InvalidTypeError struct {
	Type   string
	Reason string
}

func (e *InvalidTypeError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("spgo: invalid handle type %q", e.Type)
	}
	return fmt.Sprintf("spgo: invalid handle type %q: %s", e.Type, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidType) hold.
func (e *InvalidTypeError) Is(target error) bool {
	return target == ErrInvalidType
}

// Type binds a type tag to the foreign functions that adjust its refcount.
type Type struct {
	// Name is the tag, e.g. "track" for sp_track_add_ref/sp_track_release.
	Name string

	// AddRef increments the foreign refcount. Required unless AutoReleaseExempt.
	AddRef func(addr uintptr) error

	// Release decrements the foreign refcount.
	Release func(addr uintptr) error

	// AutoReleaseExempt disables the finalizer; such handles are only
	// released through Pointer.Free. The session is the only exempt type.
	AutoReleaseExempt bool
}

func (t Type) validate() error {
	if t.Name == "" {
		return &InvalidTypeError{Reason: "empty name"}
	}
	if t.Release == nil {
		return &InvalidTypeError{Type: t.Name, Reason: "no release function"}
	}
	if t.AddRef == nil && !t.AutoReleaseExempt {
		return &InvalidTypeError{Type: t.Name, Reason: "no add_ref function"}
	}
	return nil
}

// Registry maps type tags to their refcount functions. Types are validated
// when registered, not when a handle is released.
type Registry struct {
	mu    sync.RWMutex
	types map[string]Type
}

// NewRegistry returns a registry holding types.
func NewRegistry(types ...Type) (*Registry, error) {
	r := &Registry{types: make(map[string]Type)}
	for _, t := range types {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds t. Registering a name twice is an error.
func (r *Registry) Register(t Type) error {
	if err := t.validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.types == nil {
		r.types = make(map[string]Type)
	}
	if _, dup := r.types[t.Name]; dup {
		return &InvalidTypeError{Type: t.Name, Reason: "already registered"}
	}
	r.types[t.Name] = t
	return nil
}

// MustRegister is Register that panics on error.
func (r *Registry) MustRegister(t Type) {
	if err := r.Register(t); err != nil {
		panic(err)
	}
}

// Lookup returns the type registered under name.
func (r *Registry) Lookup(name string) (Type, error) {
	r.mu.RLock()
	t, ok := r.types[name]
	r.mu.RUnlock()
	if !ok {
		return Type{}, &InvalidTypeError{Type: name, Reason: "not registered"}
	}
	return t, nil
}

// Names returns the registered tags in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

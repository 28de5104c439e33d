//go:build (darwin || linux) && (amd64 || arm64)

package spgo

import (
	"github.com/obinnaokechukwu/spgo/managed"
	"github.com/obinnaokechukwu/spgo/sp"
)

// Image is an sp_image. Images load asynchronously; Data is empty until
// IsLoaded.
type Image struct {
	ptr *managed.Pointer
}

func (i *Image) IsLoaded() bool { return getBool(i.ptr, sp.ImageIsLoaded) }

// Data returns a copy of the encoded image (usually JPEG).
func (i *Image) Data() []byte {
	var data []byte
	_ = i.ptr.Do(func(a uintptr) { data = sp.ImageData(a) })
	return data
}

func (i *Image) Pointer() *managed.Pointer { return i.ptr }
func (i *Image) Free() error               { return i.ptr.Free() }

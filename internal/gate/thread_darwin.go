//go:build darwin

package gate

import (
	"sync"

	"github.com/ebitengine/purego"
)

var (
	pthreadOnce       sync.Once
	pthreadThreadIDNP func(thread uintptr, id *uint64) int32
)

func loadPthread() {
	lib, err := purego.Dlopen("/usr/lib/libSystem.B.dylib", purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return
	}
	purego.RegisterLibFunc(&pthreadThreadIDNP, lib, "pthread_threadid_np")
}

// threadID uses pthread_threadid_np; a zero thread means the calling thread.
func threadID() int64 {
	pthreadOnce.Do(loadPthread)
	if pthreadThreadIDNP == nil {
		return 0
	}
	var id uint64
	if pthreadThreadIDNP(0, &id) != 0 {
		return 0
	}
	return int64(id)
}

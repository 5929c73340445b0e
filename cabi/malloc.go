// Package cabi exports the four classic heap entry points under their libc
// names, so this module can be built as a shared object and preloaded ahead
// of the platform allocator. The exported functions are a thin pointer/size
// translation layer; every byte of actual bookkeeping lives in internal/heap.
package cabi

import (
	"sync"
	"unsafe"

	"github.com/segalloc/segalloc/config"
	"github.com/segalloc/segalloc/internal/heap"
)

var configureOnce sync.Once

func ensureConfigured() {
	configureOnce.Do(func() {
		opts, err := config.Load()
		if err != nil {
			// config.Load rejected something in the process's own
			// environment (an unreadable SEGALLOC_CONFIG file or a setting
			// that fails Options.Verify); there is no caller to report it to, so fall back
			// to defaults rather than refuse to serve allocations.
			opts = config.Default()
		}
		opts.Apply()
	})
}

//export malloc
func libc_malloc(size uintptr) unsafe.Pointer {
	ensureConfigured()
	if size == 0 {
		return nil
	}
	p := heap.Malloc(size)
	if p == 0 {
		return nil
	}
	return unsafe.Pointer(p)
}

//export free
func libc_free(ptr unsafe.Pointer) {
	ensureConfigured()
	heap.Free(uintptr(ptr))
}

//export calloc
func libc_calloc(nmemb, size uintptr) unsafe.Pointer {
	ensureConfigured()
	p := heap.Calloc(nmemb, size)
	if p == 0 {
		return nil
	}
	return unsafe.Pointer(p)
}

//export realloc
func libc_realloc(oldPtr unsafe.Pointer, size uintptr) unsafe.Pointer {
	ensureConfigured()
	p := heap.Realloc(uintptr(oldPtr), size)
	if p == 0 {
		return nil
	}
	return unsafe.Pointer(p)
}

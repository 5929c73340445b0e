package heap

import (
	"golang.org/x/sys/unix"
)

// programBreak abstracts the process's data-segment break so tests can
// inject a fake backing store without actually growing the test binary's
// address space. Swapping the platform primitive behind a seam like this is
// the same idiom the teacher uses per-target in src/runtime/runtime_*.go,
// selected here by indirection rather than by build tag since this package
// targets one real platform (hosted Linux) plus an in-memory fake for tests.
var programBreak breakMover = realProgramBreak{}

// breakMover is the program-break syscall primitive: it moves the process
// break and reports the resulting break, or failure.
type breakMover interface {
	// current returns the process's current program break.
	current() (uintptr, error)
	// move requests the break be moved, up or down, to addr (an absolute
	// address, not a delta — callers add the delta themselves so the fake in tests
	// doesn't need to track cumulative state differently from the real one).
	// It returns the resulting break, which callers compare against addr to
	// detect the partial-failure semantics of the raw syscall.
	move(addr uintptr) (uintptr, error)
	// pageSize reports the platform page size.
	pageSize() uintptr
}

type realProgramBreak struct{}

func (realProgramBreak) current() (uintptr, error) {
	return rawBrk(0)
}

func (realProgramBreak) move(addr uintptr) (uintptr, error) {
	return rawBrk(addr)
}

func (realProgramBreak) pageSize() uintptr {
	return uintptr(unix.Getpagesize())
}

// rawBrk issues the raw SYS_BRK syscall directly. golang.org/x/sys/unix does
// not expose a brk(2) wrapper (the Go runtime itself never calls brk — it
// grows its own heap exclusively through mmap), so this talks to the kernel
// the same way the teacher's compiler emits raw syscalls for its compiled
// targets (compiler/syscall.go): one inline syscall instruction, untouched by
// any libc.
//
// Linux's brk syscall never reports failure through errno in the usual way:
// it silently leaves the break unchanged and returns the old value. Callers
// detect failure by comparing the returned break against the address they
// asked for.
func rawBrk(addr uintptr) (uintptr, error) {
	r1, _, errno := unix.RawSyscall(unix.SYS_BRK, addr, 0, 0)
	if errno != 0 {
		return 0, errno
	}
	return r1, nil
}

// pageSize returns the configured page size, honouring a test/bench override
// (see SetPageSizeOverride) before falling back to the platform value.
func pageSize() uintptr {
	if override := pageSizeOverride(); override != 0 {
		return override
	}
	return programBreak.pageSize()
}

// pageSizeOverride is replaced by the config package at process start; it
// returns 0 when no override is configured.
var pageSizeOverride = func() uintptr { return 0 }

// growArena is invoked when every placement policy returns none. It grows
// the break by whole pages and returns the address of the start of the
// now-sufficient trailing gap.
func growArena(footprint uintptr) (uintptr, error) {
	d := directoryHeaderPtr()

	var trailingFree uintptr
	if d.first == 0 {
		trailingFree = d.end - (base + headerSize)
	} else {
		lastTail := lastTailPtr()
		trailingFree = lastTail.freeFollowing
	}

	if footprint <= trailingFree {
		// Shouldn't be reached — policies already found room — but keep the
		// function correct standing alone.
		if d.first == 0 {
			return base + headerSize, nil
		}
		return lastTailAddr() + tailSize, nil
	}

	need := footprint - trailingFree
	ps := pageSize()
	grow := roundUp(need, ps)

	newBreak, err := programBreak.move(d.end + grow)
	if err != nil || newBreak != d.end+grow {
		return 0, errOutOfMemory
	}

	d.end += grow

	if d.first == 0 {
		return base + headerSize, nil
	}
	lastTail := lastTailPtr()
	lastTail.freeFollowing += grow
	return lastTailAddr() + tailSize, nil
}

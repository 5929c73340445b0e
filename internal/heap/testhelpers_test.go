package heap

import (
	"testing"
	"unsafe"
)

// fakeBreakMover simulates the program-break syscall over a fixed backing
// buffer obtained from Go's own allocator, so tests can grow and shrink a
// heap without touching the real process break. It never reports a break
// outside its buffer — an attempt to do so is treated the way the real
// syscall treats an impossible request: the break is left unchanged.
type fakeBreakMover struct {
	buf     []byte // keeps the backing array reachable; bufBase/bufEnd are uintptrs the GC can't trace
	bufBase uintptr
	bufEnd  uintptr
	curBreak uintptr
	pgSize  uintptr
}

func newFakeBreakMover(size int, pgSize uintptr) *fakeBreakMover {
	buf := make([]byte, size)
	b := uintptr(unsafe.Pointer(&buf[0]))
	return &fakeBreakMover{
		buf:     buf,
		bufBase:  b,
		bufEnd:   b + uintptr(size),
		curBreak: b,
		pgSize:   pgSize,
	}
}

func (f *fakeBreakMover) current() (uintptr, error) { return f.curBreak, nil }

func (f *fakeBreakMover) move(addr uintptr) (uintptr, error) {
	if addr < f.bufBase || addr > f.bufEnd {
		return f.curBreak, nil
	}
	f.curBreak = addr
	return addr, nil
}

func (f *fakeBreakMover) pageSize() uintptr { return f.pgSize }

// withFakeHeap installs a fresh fake break mover and resets base, the
// placement policy and the next-fit cursor for the duration of a test,
// restoring them afterward so tests never leak that state into one another.
// The page-size override and the fatal hook are left as they are.
func withFakeHeap(t *testing.T, bufSize int) *fakeBreakMover {
	t.Helper()
	oldMover := programBreak
	oldBase := base
	oldPolicy := currentPolicy
	oldCursor := lastTailCursor

	fake := newFakeBreakMover(bufSize, 4096)
	programBreak = fake
	base = 0
	currentPolicy = firstFit
	lastTailCursor = 0

	t.Cleanup(func() {
		programBreak = oldMover
		base = oldBase
		currentPolicy = oldPolicy
		lastTailCursor = oldCursor
	})

	return fake
}

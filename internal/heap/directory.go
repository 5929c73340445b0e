package heap

import "unsafe"

// directoryHeader is the single on-heap record at base. first is the
// address of the lowest-addressed allocated block's head, or 0 (the "none"
// sentinel — base is never a valid block address since the header itself
// occupies it). end is the current program break.
type directoryHeader struct {
	first uintptr
	end   uintptr
}

// blockHead precedes every allocated block's payload. The trailing pad
// field exists only so sizeof(blockHead) is a multiple of alignment; it
// carries no data.
type blockHead struct {
	prevTail uintptr
	nextTail uintptr
	size     uintptr
	_        uintptr
}

// blockTail follows every allocated block's payload.
type blockTail struct {
	prevHead      uintptr
	nextHead      uintptr
	freeFollowing uintptr
	_             uintptr
}

const (
	headerSize = unsafe.Sizeof(directoryHeader{})
	headSize   = unsafe.Sizeof(blockHead{})
	tailSize   = unsafe.Sizeof(blockTail{})
)

// base is the fixed address of the directory header, set on first use and
// held for the process lifetime. Zero means no heap has been created yet.
// Every access to base, and every mutation reachable from it, happens under
// globalLock (see lock.go).
var base uintptr

func directoryHeaderPtr() *directoryHeader {
	return (*directoryHeader)(unsafe.Pointer(base))
}

func headPtr(addr uintptr) *blockHead {
	return (*blockHead)(unsafe.Pointer(addr))
}

func tailPtr(addr uintptr) *blockTail {
	return (*blockTail)(unsafe.Pointer(addr))
}

// footprint is sizeof(head) + roundup(s, alignment) + sizeof(tail): the
// total bytes a new block of requested payload size s occupies.
func footprint(s uintptr) uintptr {
	return headSize + roundUp(s, alignment) + tailSize
}

// createDirectory allocates the directory header itself, the first time
// any entry point touches the heap. It must only be called once base == 0;
// callers under globalLock enforce that.
func createDirectory() error {
	oldBreak, err := programBreak.current()
	if err != nil {
		return errOutOfMemory
	}

	// Ask for the header plus A bytes of slack, exactly as much as is needed
	// to place the header at the next A-aligned address above oldBreak.
	target := oldBreak + headerSize + alignment
	newBreak, err := programBreak.move(target)
	if err != nil || newBreak != target {
		return errOutOfMemory
	}

	base = roundUp(oldBreak, alignment)
	d := directoryHeaderPtr()
	d.first = 0
	d.end = base + headerSize
	return nil
}

// lastTailAddr returns the tail address of the highest-addressed block.
// Requires first != none.
func lastTailAddr() uintptr {
	return headPtr(directoryHeaderPtr().first).prevTail
}

func lastTailPtr() *blockTail {
	return tailPtr(lastTailAddr())
}

// prevRef returns the header address, when nothing precedes addr in the
// chain, or the prevHead of the tail record immediately below addr.
func prevRef(addr uintptr) uintptr {
	d := directoryHeaderPtr()
	if d.first == 0 || d.first > addr {
		return base
	}
	return tailPtr(addr - tailSize).prevHead
}

// resetDirectory releases every block and returns the break to its
// just-created state.
func resetDirectory() error {
	d := directoryHeaderPtr()
	d.first = 0
	target := base + headerSize
	newBreak, err := programBreak.move(target)
	if err != nil || newBreak != target {
		return errOutOfMemory
	}
	d.end = target
	return nil
}

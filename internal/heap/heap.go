// Package heap implements a boundary-tag heap engine backed by the
// process's program break: allocate, free, zero-allocate, and resize,
// serialised by a single process-wide mutex and placed by one of four
// interchangeable policies (first-fit, best-fit, worst-fit, next-fit).
//
// The engine never itself allocates through Go's runtime allocator once a
// heap exists — every mutating path works entirely in raw uintptr
// arithmetic over the arena and the stack, so it is safe to reach from
// underneath an interposed libc entry point (see the cabi package).
package heap

// Malloc returns the address of a new block able to hold at least n
// payload bytes, or 0 when n is zero or the arena cannot grow to fit it.
func Malloc(n uintptr) uintptr {
	if n == 0 {
		return 0
	}
	globalLock.Lock()
	defer globalLock.Unlock()
	return allocateLocked(n)
}

// allocateLocked requires globalLock held.
func allocateLocked(n uintptr) uintptr {
	if base == 0 {
		if err := createDirectory(); err != nil {
			return 0
		}
	}

	fp := footprint(n)
	addr := findGap(fp)
	if addr == 0 {
		grown, err := growArena(fp)
		if err != nil {
			return 0
		}
		addr = grown
	}
	return insert(addr, n)
}

// Free releases the block at user address p. p must be 0 or an address
// previously returned by Malloc, Calloc, or Realloc and not yet freed;
// anything else is undefined behaviour, per the classic heap contract.
func Free(p uintptr) {
	if p == 0 {
		return
	}
	globalLock.Lock()
	defer globalLock.Unlock()
	remove(p)
}

// Calloc returns a new block sized for n elements of size elemSize each,
// zero-filled, or 0 when either argument is zero or allocation fails.
func Calloc(n, elemSize uintptr) uintptr {
	if n == 0 || elemSize == 0 {
		return 0
	}
	total := n * elemSize
	p := Malloc(total)
	if p == 0 {
		return 0
	}
	zeroFill(p, total)
	return p
}

// Realloc resizes the block at p to hold n payload bytes, preferring an
// in-place shrink or expand and falling back to allocate-copy-free. It
// returns 0 when n is zero (p is leaked by design in that case) or when the
// out-of-place path cannot find room; on the latter failure p is untouched
// and remains valid.
func Realloc(p, n uintptr) uintptr {
	if n == 0 {
		return 0
	}
	if p == 0 {
		return Malloc(n)
	}

	globalLock.Lock()

	hAddr := p - headSize
	h := headPtr(hAddr)
	size := h.size

	if n == size {
		globalLock.Unlock()
		return p
	}

	if n < size {
		shrinkInPlace(hAddr, size-n)
		globalLock.Unlock()
		return p
	}

	tail := tailPtr(h.nextTail)
	if roundUp(size, alignment)+roundUp(tail.freeFollowing, alignment) >= roundUp(n, alignment) {
		err := expandInPlace(hAddr, n-size)
		globalLock.Unlock()
		if err != nil {
			return 0
		}
		return p
	}

	globalLock.Unlock()

	newAddr := Malloc(n)
	if newAddr == 0 {
		return 0
	}

	copyLen := size
	if n < copyLen {
		copyLen = n
	}
	forwardCopy(newAddr, p, copyLen)
	Free(p)
	return newAddr
}

package heap

// insert places a new block's head at addr — the gap-start address
// returned by a placement policy — for a requested payload size s. It
// wires the block into the directory according to which reference precedes
// the gap, and returns the user address (one byte past the head).
func insert(addr, s uintptr) uintptr {
	d := directoryHeaderPtr()
	fp := footprint(s)
	newTailAddr := addr + headSize + roundUp(s, alignment)
	pref := prevRef(addr)

	switch {
	case pref == base && d.first == 0:
		// The entire arena is one gap.
		offset := addr - (base + headerSize)
		arenaGap := d.end - (base + headerSize)

		nh := headPtr(addr)
		nt := tailPtr(newTailAddr)
		nh.prevTail = newTailAddr
		nh.nextTail = newTailAddr
		nt.prevHead = addr
		nt.nextHead = addr
		nt.freeFollowing = arenaGap - (fp + offset)

		d.first = addr

	case pref == base:
		// The initial gap, before the current first block.
		lastTail := lastTailAddr()
		initialGapSize := d.first - (base + headerSize)
		offset := addr - (base + headerSize)
		oldFirst := d.first

		nh := headPtr(addr)
		nt := tailPtr(newTailAddr)

		nh.prevTail = lastTail
		nt.nextHead = oldFirst
		headPtr(oldFirst).prevTail = newTailAddr
		tailPtr(lastTail).nextHead = addr
		nt.freeFollowing = initialGapSize - (offset + fp)

		d.first = addr

	default:
		// The gap trailing an existing block whose head is pref.
		prevTailAddr := headPtr(pref).nextTail
		pt := tailPtr(prevTailAddr)
		offset := addr - (prevTailAddr + tailSize)
		oldFree := pt.freeFollowing
		oldNextHead := pt.nextHead

		nh := headPtr(addr)
		nt := tailPtr(newTailAddr)

		nh.prevTail = prevTailAddr
		nt.nextHead = oldNextHead
		pt.nextHead = addr
		headPtr(oldNextHead).prevTail = newTailAddr
		pt.freeFollowing = offset
		nt.freeFollowing = oldFree - (offset + fp)
	}

	headPtr(addr).nextTail = newTailAddr
	tailPtr(newTailAddr).prevHead = addr
	headPtr(addr).size = s
	lastTailCursor = newTailAddr
	return addr + headSize
}

// remove splices the block whose user address is u out of the directory,
// folding its footprint and its own trailing gap into the preceding tail's
// free_following (or, when it is the sole block, resetting the directory
// outright). When it is the first of several blocks there is no preceding
// tail: the initial gap grows implicitly as first moves up.
func remove(u uintptr) {
	h := u - headSize
	d := directoryHeaderPtr()
	target := headPtr(h)
	targetTailAddr := target.nextTail
	targetTail := tailPtr(targetTailAddr)

	if h != d.first {
		p := target.prevTail
		pt := tailPtr(p)
		pt.freeFollowing += footprint(target.size) + targetTail.freeFollowing
		pt.nextHead = targetTail.nextHead
		headPtr(pt.nextHead).prevTail = p

		if targetTailAddr == lastTailCursor {
			lastTailCursor = p
		}

		if p == headPtr(d.first).prevTail && pt.freeFollowing >= pageSize() {
			shrinkTrailingGap(pt)
		}
		return
	}

	if targetTail.nextHead == h {
		// The only block.
		d.first = 0
		lastTailCursor = 0
		if err := resetDirectory(); err != nil {
			fatal(err)
		}
		return
	}

	endTailAddr := target.prevTail // first.prevTail: the last block's tail
	endTail := tailPtr(endTailAddr)
	endTail.nextHead = targetTail.nextHead
	headPtr(endTail.nextHead).prevTail = endTailAddr
	d.first = endTail.nextHead

	if targetTailAddr == lastTailCursor {
		lastTailCursor = endTailAddr
	}
}

// shrinkTrailingGap lowers the program break when the last block's trailing
// gap has grown past a whole page, reclaiming it from the operating system.
// A syscall failure here is fatal: the directory has already been spliced
// and there is no way back to a consistent state without the memory it
// describes.
func shrinkTrailingGap(pt *blockTail) {
	d := directoryHeaderPtr()
	shrink := roundDown(pt.freeFollowing, pageSize())
	if shrink == 0 {
		return
	}

	target := d.end - shrink
	newBreak, err := programBreak.move(target)
	if err != nil || newBreak != target {
		fatal(errOutOfMemory)
		return
	}

	pt.freeFollowing -= shrink
	d.end -= shrink
}

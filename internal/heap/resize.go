package heap

// shrinkInPlace moves a block's tail d bytes closer to its head, growing
// the trailing gap by the bytes reclaimed. Callers guarantee d <= h.size.
func shrinkInPlace(hAddr uintptr, d uintptr) {
	h := headPtr(hAddr)
	newSize := h.size - d
	oldTailAddr := h.nextTail
	oldTail := tailPtr(oldTailAddr)

	newTailAddr := hAddr + headSize + roundUp(newSize, alignment)
	gained := oldTailAddr - newTailAddr

	nt := tailPtr(newTailAddr)
	nt.prevHead = oldTail.prevHead
	nt.nextHead = oldTail.nextHead
	nt.freeFollowing = oldTail.freeFollowing + gained

	headPtr(nt.nextHead).prevTail = newTailAddr
	h.nextTail = newTailAddr
	h.size = newSize

	if oldTailAddr == lastTailCursor {
		lastTailCursor = newTailAddr
	}
}

// expandInPlace moves a block's tail d bytes away from its head, consuming
// part of the trailing gap. It fails without mutating anything when the
// gap is too small.
func expandInPlace(hAddr uintptr, d uintptr) error {
	h := headPtr(hAddr)
	oldTailAddr := h.nextTail
	oldTail := tailPtr(oldTailAddr)
	newSize := h.size + d

	if roundUp(newSize, alignment) > roundUp(h.size, alignment)+roundUp(oldTail.freeFollowing, alignment) {
		return errInvalidResize
	}

	newTailAddr := hAddr + headSize + roundUp(newSize, alignment)
	consumed := newTailAddr - oldTailAddr

	// The new tail can overlap the old one, so read every field first.
	prevHead, nextHead, free := oldTail.prevHead, oldTail.nextHead, oldTail.freeFollowing
	nt := tailPtr(newTailAddr)
	nt.prevHead = prevHead
	nt.nextHead = nextHead
	nt.freeFollowing = free - consumed

	headPtr(nt.nextHead).prevTail = newTailAddr
	h.nextTail = newTailAddr
	h.size = newSize

	if oldTailAddr == lastTailCursor {
		lastTailCursor = newTailAddr
	}
	return nil
}

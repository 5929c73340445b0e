package heap

import "errors"

var (
	// errOverlap signals a forwardCopy call whose destination range overlaps
	// its source range in a direction the copy cannot handle correctly.
	errOverlap = errors.New("heap: overlapping copy range")

	// errOutOfMemory signals that the program-break syscall failed while
	// growing the arena or creating the directory. Public entry points turn
	// this into a nil-sentinel return.
	errOutOfMemory = errors.New("heap: program break syscall failed")

	// errInvalidResize signals an in-place expand into a gap that isn't big
	// enough. shrinkInPlace does not check its argument and never returns
	// it. Realloc turns it into a 0 return, leaving the block unchanged.
	errInvalidResize = errors.New("heap: invalid in-place resize")
)

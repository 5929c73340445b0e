package heap

// alignment is the fundamental alignment: the largest required alignment
// for any scalar type on the target. Every user address and every on-heap
// record size is a multiple of this value.
const alignment = 16

// roundUp returns the smallest multiple of mult that is >= n. mult of zero
// returns n unchanged, matching the original C round_up's behaviour.
func roundUp(n, mult uintptr) uintptr {
	if mult == 0 {
		return n
	}
	if rem := n % mult; rem != 0 {
		return n + mult - rem
	}
	return n
}

// roundDown returns the largest multiple of mult that is <= n.
func roundDown(n, mult uintptr) uintptr {
	if mult == 0 {
		return n
	}
	if rem := n % mult; rem != 0 {
		return n - rem
	}
	return n
}

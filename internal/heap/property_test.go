package heap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// checkInvariants walks the live directory and asserts the universal
// invariants that must hold after every public call returns.
func checkInvariants(t *testing.T) {
	t.Helper()
	r := require.New(t)

	d := directoryHeaderPtr()
	if d.first == 0 {
		r.Zero((d.end-(base+headerSize))%pageSize(), "arena growth must be a whole number of pages")
		return
	}

	seen := map[uintptr]bool{}
	// The initial gap between the header and the first block is not recorded
	// in any tail, so it starts the sum.
	total := d.first - (base + headerSize)
	head := d.first
	prevAddr := uintptr(0)
	first := true

	for {
		if seen[head] {
			t.Fatalf("chain revisits head %d before returning to first", head)
		}
		seen[head] = true

		if !first && head <= prevAddr {
			t.Fatalf("chain not in strictly increasing address order: %d then %d", prevAddr, head)
		}
		first = false
		prevAddr = head

		h := headPtr(head)
		tail := tailPtr(h.nextTail)

		r.Equal(head, tail.prevHead, "tail.prevHead must reference its own head")
		nextHead := headPtr(tail.nextHead)
		r.Equal(h.nextTail, nextHead.prevTail, "next block's prevTail must reference this tail")

		expectedTail := head + headSize + roundUp(h.size, alignment)
		r.Equal(expectedTail, h.nextTail, "tail position inconsistent with size and alignment")

		userAddr := head + headSize
		r.Zero(userAddr%alignment, "user address must be a multiple of alignment")

		total += footprint(h.size) + tail.freeFollowing

		head = tail.nextHead
		if head == d.first {
			break
		}
	}

	r.Equal(d.end-(base+headerSize), total, "footprints + gaps must cover the whole arena")
	r.Zero((d.end-(base+headerSize))%pageSize(), "arena growth must be a whole number of pages")
}

func TestInvariantsHoldAcrossMixedTraffic(t *testing.T) {
	withFakeHeap(t, 4<<20)

	var live []uintptr
	for i := 0; i < 50; i++ {
		p := Malloc(uintptr(1 + i%37))
		require.NotZero(t, p)
		live = append(live, p)
		checkInvariants(t)

		if i%3 == 0 && len(live) > 1 {
			victim := live[0]
			live = live[1:]
			Free(victim)
			checkInvariants(t)
		}
	}
	for _, p := range live {
		Free(p)
		checkInvariants(t)
	}
}

func TestResizeToSameSizeIsNoop(t *testing.T) {
	withFakeHeap(t, 1<<20)

	p := Malloc(64)
	require.NotZero(t, p)
	for i := 0; i < 64; i++ {
		writeByte(p+uintptr(i), byte(i))
	}

	p2 := Realloc(p, 64)
	require.Equal(t, p, p2)
	for i := 0; i < 64; i++ {
		require.Equal(t, byte(i), readByte(p+uintptr(i)))
	}
	checkInvariants(t)
}

func TestAllocateFreeRoundTripReusesAddress(t *testing.T) {
	withFakeHeap(t, 1<<20)

	p1 := Malloc(1)
	require.NotZero(t, p1)
	p2 := Malloc(1)
	require.NotZero(t, p2)

	Free(p2)
	p3 := Malloc(1)
	require.Equal(t, p2, p3, "freeing the most recent block and reallocating the same size must reuse its address")
	checkInvariants(t)
}

func TestAllocateZeroReturnsNone(t *testing.T) {
	withFakeHeap(t, 1<<20)
	require.Zero(t, Malloc(0))
}

func TestResizeNilEqualsAllocate(t *testing.T) {
	withFakeHeap(t, 1<<20)
	p := Realloc(0, 32)
	require.NotZero(t, p)
	checkInvariants(t)
}

func TestResizeToZeroReturnsNone(t *testing.T) {
	withFakeHeap(t, 1<<20)
	p := Malloc(32)
	require.NotZero(t, p)
	require.Zero(t, Realloc(p, 0))
}

func TestFreeNilIsNoop(t *testing.T) {
	withFakeHeap(t, 1<<20)
	require.NotPanics(t, func() { Free(0) })
}

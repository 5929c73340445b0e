package heap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScenarioSingleAllocation(t *testing.T) {
	withFakeHeap(t, 1<<20)

	u1 := Malloc(1)
	require.NotZero(t, u1)
	require.Zero(t, u1%alignment)

	d := directoryHeaderPtr()
	require.Equal(t, pageSize(), d.end-(base+headerSize), "a single tiny allocation grows the break by exactly one page")
}

func TestScenarioAdjacency(t *testing.T) {
	withFakeHeap(t, 1<<20)

	u1 := Malloc(1)
	u2 := Malloc(1)
	require.Equal(t, u1+alignment+headSize+tailSize, u2)

	Free(u2)
	again := Malloc(1)
	require.Equal(t, u2, again)
}

func TestScenarioAdjacencyUnderBestFit(t *testing.T) {
	withFakeHeap(t, 1<<20)
	SetPolicy(BestFit)

	u1 := Malloc(1)
	u2 := Malloc(1)
	require.Equal(t, u1+alignment+headSize+tailSize, u2)

	Free(u2)
	again := Malloc(1)
	require.Equal(t, u2, again)
}

func TestScenarioHolePlacementUnderFirstFit(t *testing.T) {
	withFakeHeap(t, 1<<20)

	var addrs [8]uintptr
	for i := range addrs {
		addrs[i] = Malloc(1)
		require.NotZero(t, addrs[i])
	}

	Free(addrs[3])
	got := Malloc(1)
	require.Equal(t, addrs[3], got)
}

func TestScenarioNextFitCursorSkipsFreedHole(t *testing.T) {
	withFakeHeap(t, 1<<20)
	SetPolicy(NextFit)

	barrier := Malloc(200)
	Free(barrier)

	a := Malloc(100)
	b := Malloc(1)
	Free(a)

	after := Malloc(1)
	require.Greater(t, after, b, "next-fit must not return to the hole left below the cursor")
}

func TestScenarioBestFitPicksSmallestSufficientGap(t *testing.T) {
	withFakeHeap(t, 1<<20)
	SetPolicy(FirstFit)

	// Build four holes of strictly increasing footprint, each isolated by a
	// one-byte barrier so freeing a hole leaves a gap exactly as large as
	// that hole's own footprint, not merged with its neighbours.
	holeSizes := []uintptr{1, 20, 40, 100}
	var toFree []uintptr

	_ = Malloc(1)
	for _, s := range holeSizes {
		toFree = append(toFree, Malloc(s))
		_ = Malloc(1)
	}
	for _, h := range toFree {
		Free(h)
	}

	SetPolicy(BestFit)
	// Requesting exactly holeSizes[1]'s footprint must land there: it is
	// too big for the smaller gap and strictly smaller than the larger two.
	got := Malloc(holeSizes[1])
	require.Equal(t, toFree[1], got, "best-fit must choose the smallest gap that still fits")
}

func TestScenarioResizeInPlaceThenOutOfPlace(t *testing.T) {
	withFakeHeap(t, 1<<20)

	p := Malloc(16)
	require.NotZero(t, p)
	for i := 0; i < 16; i++ {
		writeByte(p+uintptr(i), byte(i%256))
	}
	barrier := Malloc(1)
	require.NotZero(t, barrier)

	p2 := Realloc(p, 17)
	require.NotZero(t, p2)
	require.NotEqual(t, p, p2)
	for i := 0; i < 16; i++ {
		require.Equal(t, byte(i%256), readByte(p2+uintptr(i)))
	}
}

func TestCallocZerosPayload(t *testing.T) {
	withFakeHeap(t, 1<<20)

	p := Calloc(8, 4)
	require.NotZero(t, p)
	for i := 0; i < 32; i++ {
		require.Zero(t, readByte(p+uintptr(i)))
	}
}

func TestCallocZeroArgumentsReturnNone(t *testing.T) {
	withFakeHeap(t, 1<<20)
	require.Zero(t, Calloc(0, 4))
	require.Zero(t, Calloc(4, 0))
}

func TestResetClearsHeap(t *testing.T) {
	withFakeHeap(t, 1<<20)

	_ = Malloc(64)
	_ = Malloc(64)
	Reset()

	d := directoryHeaderPtr()
	require.Zero(t, d.first)
	require.Equal(t, base+headerSize, d.end)
}

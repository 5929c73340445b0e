package heap

// Policy names one of the four placement algorithms for SetPolicy. Exposed
// for tests and benchmarks; production callers normally leave the default
// (FirstFit) in place.
type Policy placementPolicy

const (
	FirstFit Policy = Policy(firstFit)
	BestFit  Policy = Policy(bestFit)
	WorstFit Policy = Policy(worstFit)
	NextFit  Policy = Policy(nextFit)
)

// SetPolicy switches the process-wide placement policy.
func SetPolicy(p Policy) {
	globalLock.Lock()
	defer globalLock.Unlock()
	currentPolicy = placementPolicy(p)
}

// CurrentPolicy reports the active placement policy.
func CurrentPolicy() Policy {
	globalLock.Lock()
	defer globalLock.Unlock()
	return Policy(currentPolicy)
}

// Reset clears every block and lowers the program break back to the
// directory header, as if no allocation had ever been made. It is exposed
// for tests and benchmarks that need a clean heap between runs; production
// callers have no use for it, since the classic heap contract has no
// "destroy the heap" operation. A syscall failure here is fatal, matching
// remove's tail-shrink: there is no way back to a consistent state.
func Reset() {
	globalLock.Lock()
	defer globalLock.Unlock()

	lastTailCursor = 0
	if base == 0 {
		return
	}
	if err := resetDirectory(); err != nil {
		fatal(err)
	}
}

// SetFatalHandler installs the function called when a program-break
// syscall fails mid-mutation, a state the engine cannot recover from on
// its own. The default handler panics; process boundaries (cmd/, cabi/)
// normally replace it with something that logs through the diagnostics
// package before exiting.
func SetFatalHandler(f func(error)) {
	globalLock.Lock()
	defer globalLock.Unlock()
	fatalHook = f
}

// SetPageSizeOverride forces the page size used for arena growth and
// shrink-on-free decisions, bypassing the platform query. Passing 0
// restores the platform value. Intended for configuration and benchmarks.
func SetPageSizeOverride(n uintptr) {
	globalLock.Lock()
	defer globalLock.Unlock()
	pageSizeOverride = func() uintptr { return n }
}

package heap

import "sync"

// globalLock serialises every mutating path: allocate, free, zero-allocate,
// resize, the policy selector, and the diagnostic reset. A single global
// mutex rather than per-arena locking, since the heap is a single process-
// wide singleton by design (one arena, one break, one directory).
var globalLock sync.Mutex

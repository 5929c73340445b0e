package heap

// fatalHook runs when a mutating operation cannot preserve heap invariants
// after a program-break syscall failure: remove's optional tail-shrink, and
// directory reset. Both happen after the directory has already been
// mutated, so there is no safe return path — the design notes rule out any
// module that itself allocates from being reachable inside the public entry
// points, which is why this stays a function variable overridden from the
// process boundary rather than a call into a logging package. The
// zero-value hook panics, which is adequate for library callers and tests.
var fatalHook = func(err error) {
	panic(err)
}

func fatal(err error) {
	fatalHook(err)
}

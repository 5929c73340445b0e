// Command segalloc-bench drives the heap engine directly through a
// synthetic allocation workload under one placement policy and reports how
// many allocations and frees it made and the payload size range it used. It
// does not measure how much of the arena stays resident, and it does not
// count syscalls.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	bytesize "github.com/inhies/go-bytesize"

	"github.com/segalloc/segalloc/config"
	"github.com/segalloc/segalloc/diagnostics"
	"github.com/segalloc/segalloc/internal/heap"
)

var (
	policyFlag = flag.String("policy", "first-fit", "placement policy: first-fit, best-fit, worst-fit, next-fit")
	countFlag  = flag.Int("count", 10000, "number of allocate/free operations to run")
	minSize    = flag.Int("min-size", 8, "minimum payload size in bytes")
	maxSize    = flag.Int("max-size", 4096, "maximum payload size in bytes")
	freeChance = flag.Float64("free-chance", 0.5, "probability of freeing a live block instead of allocating")
	seed       = flag.Int64("seed", 1, "random seed, for reproducible runs")
)

func main() {
	flag.Parse()

	opts := config.Default()
	opts.Policy = *policyFlag
	if err := (&opts).Verify(); err != nil {
		fmt.Fprintln(os.Stderr, "segalloc-bench:", err)
		os.Exit(1)
	}
	opts.Apply()

	diagnostics.Infof("running %d operations under %s", *countFlag, *policyFlag)

	rng := rand.New(rand.NewSource(*seed))
	var live []uintptr
	var allocated, freed int

	for i := 0; i < *countFlag; i++ {
		if len(live) > 0 && rng.Float64() < *freeChance {
			idx := rng.Intn(len(live))
			heap.Free(live[idx])
			live[idx] = live[len(live)-1]
			live = live[:len(live)-1]
			freed++
			continue
		}

		size := *minSize + rng.Intn(*maxSize-*minSize+1)
		p := heap.Malloc(uintptr(size))
		if p == 0 {
			diagnostics.Warnf("allocation of %d bytes failed at operation %d", size, i)
			continue
		}
		live = append(live, p)
		allocated++
	}

	for _, p := range live {
		heap.Free(p)
	}

	fmt.Printf("policy:     %s\n", *policyFlag)
	fmt.Printf("operations: %d (allocated %d, freed %d, %d left live before final drain)\n",
		*countFlag, allocated, freed, len(live))
	fmt.Printf("min size:   %s\n", bytesize.New(float64(*minSize)))
	fmt.Printf("max size:   %s\n", bytesize.New(float64(*maxSize)))
}

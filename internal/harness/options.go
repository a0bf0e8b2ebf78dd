// Package harness models the external validation command as a typed
// invocation contract. The runner depends on the Invoker interface, not
// on a concrete binary, so tests can substitute a recording fake.
package harness

import "strconv"

// Option values forwarded verbatim on every invocation.
const (
	// SplitTrain is the dataset split every batch invocation targets.
	SplitTrain = "train"

	// CacheLevelInstance keeps per-instance images cached between runs.
	CacheLevelInstance = "instance"
)

// Invocation is the full option set for one harness run. It is built
// fresh per dataset file and discarded once the process exits.
type Invocation struct {
	// DatasetPath is the dataset file handed to the harness.
	DatasetPath string

	// Split is the dataset split to validate.
	Split string

	// MaxWorkers caps the harness's internal parallelism.
	MaxWorkers int

	// TimeoutSeconds bounds each instance's test run inside the harness.
	TimeoutSeconds int

	// CacheLevel controls the harness's image caching granularity.
	CacheLevel string

	// RunID labels this execution for the harness's bookkeeping.
	RunID string
}

// Args renders the invocation as harness command-line options. Option
// names match the harness's own argument parser.
func (inv Invocation) Args() []string {
	return []string{
		"--dataset_name", inv.DatasetPath,
		"--split", inv.Split,
		"--max_workers", strconv.Itoa(inv.MaxWorkers),
		"--timeout", strconv.Itoa(inv.TimeoutSeconds),
		"--cache_level", inv.CacheLevel,
		"--run_id", inv.RunID,
	}
}

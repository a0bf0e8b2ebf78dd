package runner

import (
	"sync"
	"time"
)

// percentMultiplier is used to convert a ratio to percentage (0-100).
const percentMultiplier = 100

// Progress tracks how far through the batch the runner has gotten.
// Thread-safe so log hooks can read it while the loop advances.
type Progress struct {
	// TotalFiles is the number of dataset files discovered for this run.
	TotalFiles int

	// ProcessedFiles is the number of invocations that have completed.
	ProcessedFiles int

	// FailedFiles is the number of invocations that exited with an error.
	FailedFiles int

	// StartTime is when the batch started.
	StartTime time.Time

	// LastUpdateTime is when progress was last updated.
	LastUpdateTime time.Time

	// mu protects concurrent access to progress fields.
	mu sync.RWMutex
}

// NewProgress creates a progress tracker for a batch of totalFiles.
func NewProgress(totalFiles int) *Progress {
	now := time.Now()
	return &Progress{
		TotalFiles:     totalFiles,
		StartTime:      now,
		LastUpdateTime: now,
	}
}

// AddResult records one completed invocation. failed marks invocations
// whose harness process exited with an error.
func (p *Progress) AddResult(failed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.ProcessedFiles++
	if failed {
		p.FailedFiles++
	}
	p.LastUpdateTime = time.Now()
}

// PercentComplete returns the completion percentage (0-100).
func (p *Progress) PercentComplete() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.TotalFiles == 0 {
		return 0
	}
	return (float64(p.ProcessedFiles) / float64(p.TotalFiles)) * percentMultiplier
}

// IsComplete returns true once every discovered file has been processed.
func (p *Progress) IsComplete() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.ProcessedFiles >= p.TotalFiles
}

// ElapsedTime returns the time elapsed since the batch started.
func (p *Progress) ElapsedTime() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return time.Since(p.StartTime)
}

// FilesPerSecond returns the processing rate in files per second.
func (p *Progress) FilesPerSecond() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	elapsed := time.Since(p.StartTime).Seconds()
	if elapsed == 0 {
		return 0
	}
	return float64(p.ProcessedFiles) / elapsed
}

// Snapshot returns a thread-safe copy of the current progress state.
func (p *Progress) Snapshot() ProgressSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return ProgressSnapshot{
		TotalFiles:      p.TotalFiles,
		ProcessedFiles:  p.ProcessedFiles,
		FailedFiles:     p.FailedFiles,
		StartTime:       p.StartTime,
		LastUpdateTime:  p.LastUpdateTime,
		PercentComplete: p.percentCompleteUnsafe(),
		ElapsedTime:     time.Since(p.StartTime),
	}
}

// ProgressSnapshot is an immutable snapshot of progress state.
type ProgressSnapshot struct {
	TotalFiles      int
	ProcessedFiles  int
	FailedFiles     int
	StartTime       time.Time
	LastUpdateTime  time.Time
	PercentComplete float64
	ElapsedTime     time.Duration
}

// percentCompleteUnsafe calculates percent complete without locking.
// Should only be called when already holding the lock.
func (p *Progress) percentCompleteUnsafe() float64 {
	if p.TotalFiles == 0 {
		return 0
	}
	return (float64(p.ProcessedFiles) / float64(p.TotalFiles)) * percentMultiplier
}

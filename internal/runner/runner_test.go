package runner_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lycfight/swebatch/internal/config"
	"github.com/lycfight/swebatch/internal/harness"
	"github.com/lycfight/swebatch/internal/runner"
)

// recordedCall captures one invocation with its wall-clock bounds so
// tests can verify strict sequentiality.
type recordedCall struct {
	inv   harness.Invocation
	start time.Time
	end   time.Time
}

// recordingInvoker is a test double that records every invocation and
// can fail on selected dataset files.
type recordingInvoker struct {
	mu     sync.Mutex
	calls  []recordedCall
	failOn map[string]error
	delay  time.Duration
}

func (r *recordingInvoker) Invoke(_ context.Context, inv harness.Invocation) error {
	start := time.Now()
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	end := time.Now()

	r.mu.Lock()
	r.calls = append(r.calls, recordedCall{inv: inv, start: start, end: end})
	r.mu.Unlock()

	if err, ok := r.failOn[filepath.Base(inv.DatasetPath)]; ok {
		return err
	}
	return nil
}

// newBatchDir creates a temp directory populated with the given files.
func newBatchDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}\n"), 0o600))
	}
	return dir
}

// testRunnerConfig returns the runner config used across these tests.
func testRunnerConfig(baseDir string) config.RunnerConfig {
	return config.RunnerConfig{
		BaseDir:        baseDir,
		RunID:          "0329",
		MaxWorkers:     16,
		TimeoutSeconds: 1200,
		Pattern:        ".jsonl",
	}
}

func TestRun_OneInvocationPerFileInOrder(t *testing.T) {
	dir := newBatchDir(t, "a.jsonl", "b.jsonl")
	invoker := &recordingInvoker{}
	var out bytes.Buffer

	r := runner.New(testRunnerConfig(dir), invoker, &out, runner.NewBanners(false))
	require.NoError(t, r.Run(context.Background()))

	require.Len(t, invoker.calls, 2)
	assert.Equal(t, filepath.Join(dir, "a.jsonl"), invoker.calls[0].inv.DatasetPath)
	assert.Equal(t, filepath.Join(dir, "b.jsonl"), invoker.calls[1].inv.DatasetPath)

	for _, call := range invoker.calls {
		assert.Equal(t, "train", call.inv.Split)
		assert.Equal(t, "instance", call.inv.CacheLevel)
		assert.Equal(t, 16, call.inv.MaxWorkers)
		assert.Equal(t, 1200, call.inv.TimeoutSeconds)
		assert.Equal(t, "0329", call.inv.RunID)
	}

	assert.Contains(t, out.String(), runner.FinalMessage)
}

func TestRun_StrictlySequential(t *testing.T) {
	dir := newBatchDir(t, "a.jsonl", "b.jsonl", "c.jsonl")
	invoker := &recordingInvoker{delay: 5 * time.Millisecond}
	var out bytes.Buffer

	r := runner.New(testRunnerConfig(dir), invoker, &out, runner.NewBanners(false))
	require.NoError(t, r.Run(context.Background()))

	require.Len(t, invoker.calls, 3)
	for i := 1; i < len(invoker.calls); i++ {
		assert.False(t, invoker.calls[i].start.Before(invoker.calls[i-1].end),
			"invocation %d started before invocation %d finished", i, i-1)
	}
}

func TestRun_ZeroFiles(t *testing.T) {
	tests := []struct {
		name    string
		baseDir func(t *testing.T) string
	}{
		{
			name:    "empty directory",
			baseDir: func(t *testing.T) string { return t.TempDir() },
		},
		{
			name: "missing directory",
			baseDir: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "absent")
			},
		},
		{
			name: "no matching suffix",
			baseDir: func(t *testing.T) string {
				return newBatchDir(t, "data.csv")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invoker := &recordingInvoker{}
			var out bytes.Buffer

			r := runner.New(testRunnerConfig(tt.baseDir(t)), invoker, &out, runner.NewBanners(false))
			require.NoError(t, r.Run(context.Background()))

			assert.Empty(t, invoker.calls)
			assert.Equal(t, 1, strings.Count(out.String(), runner.FinalMessage))
		})
	}
}

func TestRun_ContinuesPastFailures(t *testing.T) {
	dir := newBatchDir(t, "a.jsonl", "b.jsonl", "c.jsonl")
	invoker := &recordingInvoker{
		failOn: map[string]error{"b.jsonl": errors.New("exit status 1")},
	}
	var out bytes.Buffer

	r := runner.New(testRunnerConfig(dir), invoker, &out, runner.NewBanners(false))
	err := r.Run(context.Background())

	// All three files were still invoked.
	require.Len(t, invoker.calls, 3)

	// The aggregate failure surfaces only after the final message.
	require.Error(t, err)
	assert.Contains(t, err.Error(), "b.jsonl")
	assert.Contains(t, out.String(), runner.FinalMessage)
}

func TestRun_BannersEmittedAroundFailure(t *testing.T) {
	dir := newBatchDir(t, "a.jsonl")
	invoker := &recordingInvoker{
		failOn: map[string]error{"a.jsonl": errors.New("exit status 2")},
	}
	var out bytes.Buffer

	r := runner.New(testRunnerConfig(dir), invoker, &out, runner.NewBanners(false))
	require.Error(t, r.Run(context.Background()))

	text := out.String()
	file := filepath.Join(dir, "a.jsonl")
	startIdx := strings.Index(text, ">>> validating "+file)
	doneIdx := strings.Index(text, "<<< finished "+file)

	require.GreaterOrEqual(t, startIdx, 0)
	require.Greater(t, doneIdx, startIdx)
	assert.Equal(t, 2, strings.Count(text, strings.Repeat("-", 60)))
	assert.Contains(t, text, runner.FinalMessage)
}

func TestRun_HaltOnError(t *testing.T) {
	dir := newBatchDir(t, "a.jsonl", "b.jsonl", "c.jsonl")
	invoker := &recordingInvoker{
		failOn: map[string]error{"a.jsonl": errors.New("exit status 1")},
	}
	var out bytes.Buffer

	cfg := testRunnerConfig(dir)
	cfg.HaltOnError = true

	r := runner.New(cfg, invoker, &out, runner.NewBanners(false))
	err := r.Run(context.Background())

	require.Error(t, err)
	assert.Len(t, invoker.calls, 1)
}

func TestRun_ContextCancellation(t *testing.T) {
	dir := newBatchDir(t, "a.jsonl")
	invoker := &recordingInvoker{}
	var out bytes.Buffer

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := runner.New(testRunnerConfig(dir), invoker, &out, runner.NewBanners(false))
	err := r.Run(ctx)

	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, invoker.calls)
}

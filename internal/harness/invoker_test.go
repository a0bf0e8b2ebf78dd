package harness_test

import (
	"bytes"
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lycfight/swebatch/internal/harness"
)

// requireTool skips the test when the named binary is not on PATH.
func requireTool(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available: %v", name, err)
	}
}

func TestNewExecInvoker_EmptyCommand(t *testing.T) {
	inv, err := harness.NewExecInvoker(nil)
	require.Error(t, err)
	assert.Nil(t, inv)
	assert.ErrorIs(t, err, harness.ErrEmptyCommand)
}

func TestExecInvoker_Invoke(t *testing.T) {
	requireTool(t, "true")

	invoker, err := harness.NewExecInvoker([]string{"true"})
	require.NoError(t, err)

	err = invoker.Invoke(context.Background(), harness.Invocation{
		DatasetPath:    "a.jsonl",
		Split:          harness.SplitTrain,
		MaxWorkers:     1,
		TimeoutSeconds: 10,
		CacheLevel:     harness.CacheLevelInstance,
		RunID:          "test",
	})
	assert.NoError(t, err)
}

func TestExecInvoker_InvokeFailure(t *testing.T) {
	requireTool(t, "false")

	invoker, err := harness.NewExecInvoker([]string{"false"})
	require.NoError(t, err)

	err = invoker.Invoke(context.Background(), harness.Invocation{DatasetPath: "a.jsonl"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a.jsonl")
}

func TestPrintInvoker(t *testing.T) {
	var out bytes.Buffer
	invoker := &harness.PrintInvoker{
		Command: []string{"python", "-m", "swebench.harness.run_validation"},
		Out:     &out,
	}

	err := invoker.Invoke(context.Background(), harness.Invocation{
		DatasetPath:    "data/tasks/a.jsonl",
		Split:          harness.SplitTrain,
		MaxWorkers:     16,
		TimeoutSeconds: 1200,
		CacheLevel:     harness.CacheLevelInstance,
		RunID:          "0329",
	})
	require.NoError(t, err)

	line := out.String()
	assert.Contains(t, line, "python -m swebench.harness.run_validation")
	assert.Contains(t, line, "--dataset_name data/tasks/a.jsonl")
	assert.Contains(t, line, "--split train")
	assert.Contains(t, line, "--cache_level instance")
	assert.Contains(t, line, "--run_id 0329")
}

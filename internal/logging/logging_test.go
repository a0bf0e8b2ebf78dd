package logging_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lycfight/swebatch/internal/logging"
)

func TestNew_LevelFallback(t *testing.T) {
	logger, cleanup, err := logging.New(logging.Config{Level: "nonsense"})
	require.NoError(t, err)
	defer func() { _ = cleanup() }()

	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}

func TestNew_DebugLevel(t *testing.T) {
	logger, cleanup, err := logging.New(logging.Config{Level: "debug"})
	require.NoError(t, err)
	defer func() { _ = cleanup() }()

	assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swebatch.log")

	logger, cleanup, err := logging.New(logging.Config{
		Level:  "info",
		Format: logging.FormatJSON,
		File:   path,
	})
	require.NoError(t, err)

	logger.Info().Msg("hello")
	require.NoError(t, cleanup())

	assert.FileExists(t, path)
}

func TestNew_UnwritableFile(t *testing.T) {
	_, _, err := logging.New(logging.Config{
		Level: "info",
		File:  filepath.Join(t.TempDir(), "missing", "swebatch.log"),
	})
	require.Error(t, err)
}

func TestComponentLogger(t *testing.T) {
	logger, cleanup, err := logging.New(logging.Config{Level: "info"})
	require.NoError(t, err)
	defer func() { _ = cleanup() }()

	child := logging.ComponentLogger(logger, "runner")
	assert.Equal(t, logger.GetLevel(), child.GetLevel())
}

func TestTraceID_RoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, logging.TraceIDFromContext(ctx))

	id := logging.NewTraceID()
	require.NotEmpty(t, id)

	ctx = logging.ContextWithTraceID(ctx, id)
	assert.Equal(t, id, logging.TraceIDFromContext(ctx))
	assert.Equal(t, id, logging.GetOrGenerateTraceID(ctx))
}

func TestGetOrGenerateTraceID_Generates(t *testing.T) {
	id := logging.GetOrGenerateTraceID(context.Background())
	assert.NotEmpty(t, id)
}

func TestFromContext_WithoutLogger(t *testing.T) {
	logger := logging.FromContext(context.Background())
	require.NotNil(t, logger)

	// Safe to use even when no logger was attached.
	logger.Info().Msg("ignored")
}

package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLoggerLevels(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"":        zapcore.InfoLevel,
		"debug":   zapcore.DebugLevel,
		" WARN ":  zapcore.WarnLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range cases {
		logger, err := NewLogger(in)
		require.NoError(t, err)
		require.True(t, logger.Core().Enabled(want), "level %q", in)
		if want > zapcore.DebugLevel {
			require.False(t, logger.Core().Enabled(want-1), "level %q", in)
		}
	}
}

func TestContextLogger(t *testing.T) {
	t.Parallel()

	require.NotNil(t, FromContext(context.Background()))

	logger := zap.NewExample()
	ctx := WithLogger(context.Background(), logger)
	require.Same(t, logger, FromContext(ctx))
}

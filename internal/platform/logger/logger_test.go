package logger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/renjie/prism-lca/internal/platform/logger"
)

func TestNew(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		level  string
		asJSON bool
		want   zapcore.Level
	}{
		{"debug", false, logger.LevelDebug},
		{"info", true, logger.LevelInfo},
		{" warn ", false, logger.LevelWarn},
		{"error", true, logger.LevelError},
	} {
		log, err := logger.New(tc.level, tc.asJSON)
		require.NoError(t, err, tc.level)
		assert.True(t, log.Core().Enabled(tc.want), tc.level)
		assert.False(t, log.Core().Enabled(tc.want-1), tc.level)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	t.Parallel()

	_, err := logger.New("loud", false)
	assert.Error(t, err)
}

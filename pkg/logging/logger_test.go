package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	config "github.com/maheshrc27/postgate/configs"
)

func TestInitLogger(t *testing.T) {
	old := Logger
	defer func() { Logger = old }()

	require.NoError(t, InitLogger(config.Logging{Level: "debug", Format: "text"}))
	assert.True(t, Logger.Core().Enabled(zapcore.DebugLevel))

	require.NoError(t, InitLogger(config.Logging{Level: "nonsense", Format: "json"}))
	assert.False(t, Logger.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, Logger.Core().Enabled(zapcore.InfoLevel))
}

func TestGetLoggerFallback(t *testing.T) {
	old := Logger
	defer func() { Logger = old }()

	Logger = nil
	assert.NotNil(t, GetLogger())
}

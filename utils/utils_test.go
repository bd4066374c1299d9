package utils

import (
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"
)

func TestLogError(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	logger := zap.New(core)

	LogError(logger, errors.New("boom"), "something failed", zap.String("k", "v"))
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "something failed", entry.Message)
	assert.Len(t, entry.Context, 2)

	LogError(logger, nil, "message only")
	require.Equal(t, 2, logs.Len())
	assert.Empty(t, logs.All()[1].Context)

	assert.Panics(t, func() {
		LogError(nil, errors.New("boom"), "no logger")
	})
}

func TestBindFlagsToViper(t *testing.T) {
	viper.Reset()
	logger := zap.NewNop()

	cmd := &cobra.Command{Use: "testcmd"}
	cmd.Flags().String("report-format", "console", "report format")
	cmd.Flags().Int("workers", 5, "worker count")

	require.NoError(t, BindFlagsToViper(logger, cmd, ""))
	assert.Equal(t, "console", viper.GetString("reportFormat"))
	assert.Equal(t, 5, viper.GetInt("workers"))

	viper.Reset()
	require.NoError(t, BindFlagsToViper(logger, cmd, "apiforge"))
	assert.Equal(t, "console", viper.GetString("apiforge.reportFormat"))
}

func TestToCamelCase(t *testing.T) {
	assert.Equal(t, "reportFormat", toCamelCase("report-format"))
	assert.Equal(t, "rateLimit", toCamelCase("rate-limit"))
	assert.Equal(t, "plain", toCamelCase("plain"))
}

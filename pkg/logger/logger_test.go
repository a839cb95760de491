package logger_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Astemirdum/bookshelf-service/pkg/logger"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger_Sink(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "bookshelf.log")

	log := logger.NewLogger(logger.Log{LogLevel: zapcore.InfoLevel, Sink: path}, "test")
	log.Debug("hidden")
	log.Info("visible")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	require.Contains(t, out, `"msg":"visible"`)
	require.Contains(t, out, `"logger":"test"`)
	require.False(t, strings.Contains(out, "hidden"))
}

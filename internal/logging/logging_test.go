package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLevel(t *testing.T) {
	require.Equal(t, zap.DebugLevel, Level("DEBUG"))
	require.Equal(t, zap.WarnLevel, Level("warn"))
	require.Equal(t, zap.ErrorLevel, Level("Error"))
	require.Equal(t, zap.InfoLevel, Level("info"))
	require.Equal(t, zap.InfoLevel, Level("verbose"))
	require.Equal(t, zap.InfoLevel, Level(""))
}

func TestNew(t *testing.T) {
	l := New("warn")
	require.NotNil(t, l)
	require.False(t, l.Core().Enabled(zap.InfoLevel))
	require.True(t, l.Core().Enabled(zap.WarnLevel))
}

package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level   string
		enabled zapcore.Level
		wantErr assert.ErrorAssertionFunc
	}{
		{level: "debug", enabled: zapcore.DebugLevel, wantErr: assert.NoError},
		{level: "info", enabled: zapcore.InfoLevel, wantErr: assert.NoError},
		{level: "WARN", enabled: zapcore.WarnLevel, wantErr: assert.NoError},
		{level: "loud", wantErr: assert.Error},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			t.Parallel()

			log, err := New(tt.level)
			if !tt.wantErr(t, err) || err != nil {
				return
			}
			require.True(t, log.Core().Enabled(tt.enabled))
			require.False(t, log.Core().Enabled(tt.enabled-1))
		})
	}
}

package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"terminal-terrace/conduit/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		conf    config.LogConfig
		wantErr bool
	}{
		{name: "json debug", conf: config.LogConfig{Level: "debug", Format: "json"}},
		{name: "console warn", conf: config.LogConfig{Level: "warn", Format: "console"}},
		{name: "未知级别", conf: config.LogConfig{Level: "loud", Format: "json"}, wantErr: true},
		{name: "未知格式", conf: config.LogConfig{Level: "info", Format: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.conf)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestNew_LevelIsApplied(t *testing.T) {
	l, err := New(config.LogConfig{Level: "warn", Format: "json"})
	require.NoError(t, err)

	assert.Nil(t, l.Check(zap.InfoLevel, "info"))
	assert.NotNil(t, l.Check(zap.ErrorLevel, "error"))
}

func TestContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	l := zap.NewExample()
	ctx := NewContext(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
}

package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/slog"

	"storeops/internal/app/server/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		env  string
	}{
		{"local env", config.EnvLocal},
		{"dev env", config.EnvDev},
		{"prod env", config.EnvProd},
		{"unknown env falls back to local", "staging"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.env)
			assert.NotNil(t, log)
		})
	}
}

func TestNew_Levels(t *testing.T) {
	ctx := context.Background()

	// prod скрывает debug, local и dev показывают
	assert.False(t, New(config.EnvProd).Enabled(ctx, slog.LevelDebug))
	assert.True(t, New(config.EnvDev).Enabled(ctx, slog.LevelDebug))
	assert.True(t, New(config.EnvLocal).Enabled(ctx, slog.LevelDebug))
}

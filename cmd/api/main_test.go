package main

import (
	"context"
	"testing"

	"github.com/serviconnect/backend/internal/config"
	appmw "github.com/serviconnect/backend/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRunRefusesWithoutAuthConfig(t *testing.T) {
	cfg := &config.Config{Port: "0"}

	err := run(cfg, zap.NewNop())
	require.Error(t, err)
	assert.ErrorIs(t, err, appmw.ErrAuthNotConfigured)
}

func TestNewAuthDevMode(t *testing.T) {
	auth, err := newAuth(context.Background(), &config.Config{AuthDevMode: true}, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, auth.DevMode())
}

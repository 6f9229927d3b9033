package observability

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestSetupDatadog_DefaultAgentHost(t *testing.T) {
	cfg := Config{
		AgentHost:   "", // empty uses default
		Environment: "test",
		ServiceName: "test-service",
	}

	ctx := context.Background()
	shutdown := SetupDatadog(ctx, cfg, testLogger())
	require.NotNil(t, shutdown)

	assert.NoError(t, shutdown(ctx))
}

func TestSetupDatadog_CustomAgentHost(t *testing.T) {
	cfg := Config{
		AgentHost:   "custom-host:4318",
		Environment: "staging",
		ServiceName: "custom-service",
	}

	ctx := context.Background()
	shutdown := SetupDatadog(ctx, cfg, testLogger())
	require.NotNil(t, shutdown)

	assert.NoError(t, shutdown(ctx))
}

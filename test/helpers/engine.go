package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/floorsense-go/internal/application/mediator"
	"github.com/andrescamacho/floorsense-go/internal/application/setup"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
	"github.com/andrescamacho/floorsense-go/internal/infrastructure/dataset"
)

// EngineStart is the boot instant every test engine starts at. Tests move
// the watermark forward by sending reads and sales with explicit timestamps
// relative to it.
var EngineStart = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

// NewEngine builds an empty engine with the default dedup window and
// presence TTL. Only the printing wall exists; tests seed the rest.
func NewEngine(t *testing.T) *setup.Engine {
	t.Helper()

	engine, err := setup.NewEngine(EngineStart, shared.DefaultParams())
	require.NoError(t, err)
	return engine
}

// NewDemoEngine builds an engine seeded with the built-in demo store and
// bootstrapped, so rules are projected and baseline snapshots published.
func NewDemoEngine(t *testing.T) *setup.Engine {
	t.Helper()

	engine := NewEngine(t)
	ctx := context.Background()
	require.NoError(t, dataset.Apply(ctx, engine, dataset.Demo(), EngineStart))
	require.NoError(t, engine.Bootstrap(ctx))
	return engine
}

// Send dispatches a request through the engine's full middleware chain and
// returns the response cast to T. Dispatch errors and type mismatches fail
// the test immediately.
func Send[T any](t *testing.T, engine *setup.Engine, request mediator.Request) T {
	t.Helper()

	response, err := engine.Mediator.Send(context.Background(), request)
	require.NoError(t, err)
	typed, ok := response.(T)
	require.True(t, ok, "response is %T, not the expected type", response)
	return typed
}

// Seed applies an inline dataset to the engine and bootstraps it. Tests
// that need tighter control than the demo store build their floor here.
func Seed(t *testing.T, engine *setup.Engine, store *dataset.Store) {
	t.Helper()

	ctx := context.Background()
	require.NoError(t, dataset.Apply(ctx, engine, store, EngineStart))
	require.NoError(t, engine.Bootstrap(ctx))
}

// At returns EngineStart shifted by d, for readable event timestamps.
func At(d time.Duration) time.Time {
	return EngineStart.Add(d)
}

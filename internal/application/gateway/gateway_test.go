package gateway_test

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	"github.com/andrescamacho/floorsense-go/internal/application/gateway"
	"github.com/andrescamacho/floorsense-go/internal/application/logging"
	"github.com/andrescamacho/floorsense-go/internal/application/mediator"
)

type bumpRequest struct{}

type bumpResponse struct {
	common.Result
}

// racyCounter deliberately splits the read and the write so unserialised
// concurrent sends would lose increments.
type racyCounter struct {
	value int
}

func (c *racyCounter) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	v := c.value
	time.Sleep(time.Millisecond)
	c.value = v + 1
	return &bumpResponse{Result: common.Result{Status: common.StatusAccepted}}, nil
}

func TestGateway_SerialiseRunsOneCommandAtATime(t *testing.T) {
	// Arrange
	m := mediator.NewMediator()
	counter := &racyCounter{}
	g := gateway.New()
	m.Use(g.Serialise())
	require.NoError(t, mediator.RegisterHandler[*bumpRequest](m, counter))

	// Act
	const senders = 16
	var wg sync.WaitGroup
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Send(context.Background(), &bumpRequest{})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// Assert: no increment was lost.
	assert.Equal(t, senders, counter.value)
}

type boomRequest struct{}

type boomHandler struct{}

func (boomHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	panic("antenna driver exploded")
}

func TestRecover_ConvertsPanicsIntoErrors(t *testing.T) {
	// Arrange
	m := mediator.NewMediator()
	m.Use(gateway.Recover())
	require.NoError(t, mediator.RegisterHandler[*boomRequest](m, boomHandler{}))

	// Act
	_, err := m.Send(context.Background(), &boomRequest{})

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic handling boomRequest")
	assert.Contains(t, err.Error(), "antenna driver exploded")
}

func TestLogging_RecordsCommandOutcomes(t *testing.T) {
	// Arrange
	m := mediator.NewMediator()
	m.Use(gateway.Logging())
	require.NoError(t, mediator.RegisterHandler[*bumpRequest](m, &racyCounter{}))

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := logging.WithLogger(context.Background(), logger)

	// Act
	_, err := m.Send(ctx, &bumpRequest{})

	// Assert
	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "command handled")
	assert.Contains(t, output, "command=bumpRequest")
	assert.Contains(t, output, "status=accepted")
}

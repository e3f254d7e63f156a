package main

import (
	"context"
	"testing"

	"code.sztanpet.net/zvpsz/schoolbell/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdownKeepsBotContext(t *testing.T) {
	a := newApp(&config.Config{})

	// what handleSignals does on SIGTERM
	a.exit()
	assert.ErrorIs(t, a.ctx.Err(), context.Canceled)
	require.NoError(t, a.botCtx.Err(), "the bot must still be able to send the shutdown lines")

	a.flushLogs()
	assert.ErrorIs(t, a.botCtx.Err(), context.Canceled)
}

func TestHandleSignalsReturnsOnDone(t *testing.T) {
	a := newApp(&config.Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, a.handleSignals(ctx))
	assert.NoError(t, a.ctx.Err())
	assert.NoError(t, a.botCtx.Err())
}

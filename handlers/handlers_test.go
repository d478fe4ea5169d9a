package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFrontendURL(t *testing.T) {
	t.Setenv("FE_ORIGIN", "")
	assert.Equal(t, "http://localhost:3000/settings", frontendURL("/settings"))

	t.Setenv("FE_ORIGIN", "https://app.example.com")
	assert.Equal(t, "https://app.example.com/settings?google=connected", frontendURL("/settings?google=connected"))
}

func TestGenerationTimeout(t *testing.T) {
	t.Setenv("REPORT_TIMEOUT", "")
	assert.Equal(t, 2*time.Minute, generationTimeout())

	t.Setenv("REPORT_TIMEOUT", "45s")
	assert.Equal(t, 45*time.Second, generationTimeout())

	t.Setenv("REPORT_TIMEOUT", "whenever")
	assert.Equal(t, 2*time.Minute, generationTimeout())
}

func TestTerminalContextOutlivesGeneration(t *testing.T) {
	genCtx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-genCtx.Done()
	assert.ErrorIs(t, genCtx.Err(), context.DeadlineExceeded)

	ctx, done := terminalContext()
	defer done()
	assert.NoError(t, ctx.Err(), "status write must survive a generation timeout")

	deadline, ok := ctx.Deadline()
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(10*time.Second), deadline, time.Second)
}

package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewIntervalFromEnv(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want time.Duration
	}{
		{name: "unset uses default", env: "", want: 6 * time.Hour},
		{name: "valid duration", env: "30m", want: 30 * time.Minute},
		{name: "garbage falls back", env: "soonish", want: 6 * time.Hour},
		{name: "non-positive falls back", env: "-1h", want: 6 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SYNC_INTERVAL", tt.env)
			s := New(nil)
			assert.Equal(t, tt.want, s.interval)
		})
	}
}

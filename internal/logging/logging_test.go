package logging

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSetup(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	tests := []struct {
		level    string
		expected zerolog.Level
	}{
		{level: "debug", expected: zerolog.DebugLevel},
		{level: "warn", expected: zerolog.WarnLevel},
		{level: "", expected: zerolog.InfoLevel},
		{level: "verbose", expected: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			Setup(tt.level, true)
			assert.Equal(t, tt.expected, zerolog.GlobalLevel())
		})
	}
}

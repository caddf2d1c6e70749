package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{in: "", want: InfoLevel},
		{in: "debug", want: DebugLevel},
		{in: " WARN ", want: WarnLevel},
		{in: "error", want: ErrorLevel},
		{in: "verbose", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLogLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetLogLevel(t *testing.T) {
	prev := GetLogLevel()
	defer SetLogLevel(prev)

	SetLogLevel(ErrorLevel)
	assert.Equal(t, ErrorLevel, GetLogLevel())
}

package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type LogEntry struct {
	Level   string `json:"level"`
	Logger  string `json:"logger"`
	Message string `json:"message"`
}

func TestLogger(t *testing.T) {
	tests := []struct {
		name           string
		verbosityLevel int
		logFunc        func(Logger)
		expectedLevel  string
		expectedMsg    string
		shouldLog      bool
	}{
		{
			name:           "warn level with default verbosity",
			verbosityLevel: 0,
			logFunc: func(l Logger) {
				l.Warn("warn message")
			},
			expectedLevel: "warn",
			expectedMsg:   "warn message",
			shouldLog:     true,
		},
		{
			name:           "info level with default verbosity is quiet",
			verbosityLevel: 0,
			logFunc: func(l Logger) {
				l.Info("info message")
			},
			shouldLog: false,
		},
		{
			name:           "info level with verbosity one",
			verbosityLevel: 1,
			logFunc: func(l Logger) {
				l.Info("info message")
			},
			expectedLevel: "info",
			expectedMsg:   "info message",
			shouldLog:     true,
		},
		{
			name:           "debug level with insufficient verbosity",
			verbosityLevel: 1,
			logFunc: func(l Logger) {
				l.Debug("debug message")
			},
			shouldLog: false,
		},
		{
			name:           "debug level with sufficient verbosity",
			verbosityLevel: 2,
			logFunc: func(l Logger) {
				l.Debug("debug message")
			},
			expectedLevel: "debug",
			expectedMsg:   "debug message",
			shouldLog:     true,
		},
		{
			name:           "trace level with insufficient verbosity",
			verbosityLevel: 2,
			logFunc: func(l Logger) {
				l.Trace("trace message")
			},
			shouldLog: false,
		},
		{
			name:           "trace level with sufficient verbosity",
			verbosityLevel: 3,
			logFunc: func(l Logger) {
				l.Trace("trace message")
			},
			expectedLevel: "debug",
			expectedMsg:   "TRACE: trace message",
			shouldLog:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			log := NewLogger(Config{
				Verbosity: tt.verbosityLevel,
				Output:    &buf,
			})

			tt.logFunc(log)

			if !tt.shouldLog {
				assert.Empty(t, buf.String())
				return
			}

			var entry LogEntry
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "raw: %s", buf.String())
			assert.Equal(t, tt.expectedLevel, entry.Level)
			assert.Equal(t, tt.expectedMsg, entry.Message)
			assert.Equal(t, "ewc", entry.Logger)
		})
	}
}

func TestLoggerWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(Config{
		Verbosity: 1,
		Output:    &buf,
	})

	log.WithFields(Fields{
		"root":  "src",
		"files": 123,
	}).Info("walk finished")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "src", entry["root"])
	assert.Equal(t, float64(123), entry["files"])
	assert.Equal(t, "walk finished", entry["message"])
}

func TestNopLogger(t *testing.T) {
	log := NewNop()
	log.WithFields(Fields{"k": "v"}).Error("dropped")
	assert.NoError(t, log.Sync())
}

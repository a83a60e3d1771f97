package main

import (
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestLogLevelFollowsEnvironmentUnlessOverridden(t *testing.T) {
	previous := log.GetLevel()
	t.Cleanup(func() { log.SetLevel(previous) })

	tests := []struct {
		name     string
		appEnv   string
		logLevel string
		expected log.Level
	}{
		{"development default", "development", "", log.DebugLevel},
		{"production default", "production", "", log.ErrorLevel},
		{"staging default", "staging", "", log.InfoLevel},
		{"explicit override", "production", "warn", log.WarnLevel},
		{"unknown override keeps default", "development", "loud", log.DebugLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_ENV", tt.appEnv)
			setUpLogger()
			applyLogLevel(tt.logLevel)
			assert.Equal(t, tt.expected, log.GetLevel())
		})
	}
}

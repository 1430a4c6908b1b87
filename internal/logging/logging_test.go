package logging

import (
	"testing"

	log "github.com/sirupsen/logrus"
)

func TestConfigure(t *testing.T) {
	defer Configure("info", "text")

	tests := []struct {
		level  string
		format string
		want   log.Level
		json   bool
	}{
		{"debug", "", log.DebugLevel, false},
		{"WARN", "json", log.WarnLevel, true},
		{"error", "text", log.ErrorLevel, false},
		{"", "", log.InfoLevel, false},
		{"chatty", "", log.InfoLevel, false},
	}

	for _, tt := range tests {
		l := Configure(tt.level, tt.format)
		if l.GetLevel() != tt.want {
			t.Errorf("Configure(%q) level = %v, want %v", tt.level, l.GetLevel(), tt.want)
		}
		_, isJSON := l.Formatter.(*log.JSONFormatter)
		if isJSON != tt.json {
			t.Errorf("Configure(%q, %q) json formatter = %v", tt.level, tt.format, isJSON)
		}
	}
}

func TestSetupReadsEnvironment(t *testing.T) {
	defer Configure("info", "text")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")

	l := Setup()
	if l.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v", l.GetLevel())
	}
	if _, ok := l.Formatter.(*log.JSONFormatter); !ok {
		t.Errorf("formatter = %T", l.Formatter)
	}
}

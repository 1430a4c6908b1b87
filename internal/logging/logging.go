// Package logging configures the process-wide logger from the environment.
// LOG_LEVEL selects debug, info, warn or error; LOG_FORMAT=json switches to
// JSON output.
package logging

import (
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Setup configures the standard logrus logger and returns it
func Setup() *log.Logger {
	return Configure(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
}

// Configure applies level and format to the standard logger.
// Unknown levels fall back to info.
func Configure(level, format string) *log.Logger {
	l := log.StandardLogger()

	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = log.InfoLevel
	}
	l.SetLevel(lvl)

	if strings.ToLower(format) == "json" {
		l.SetFormatter(&log.JSONFormatter{})
	} else {
		l.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	l.SetOutput(os.Stderr)
	return l
}

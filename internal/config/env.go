package config

import (
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// AccessTokenEnv names the variable holding the map engine's access token
const AccessTokenEnv = "MAPBOX_TOKEN"

// LoadEnv loads .env files into the process environment. Variables that are
// already set win; missing files are skipped.
func LoadEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			log.WithError(err).WithField("file", f).Warn("failed to load env file")
		}
	}
}

// AccessToken returns the map engine's access token. An empty token is
// passed on as is; the engine decides how to fail.
func AccessToken() string {
	token := os.Getenv(AccessTokenEnv)
	if token == "" {
		log.Warnf("%s is not set, the base map will not load", AccessTokenEnv)
	}
	return token
}

package testutil

import (
	"os"
	"testing"
	"time"

	"github.com/kendall-kelly/renovation-quotes-api/config"
)

// MustSetTestEnvironment sets GO_ENV to test and fails if it cannot be set.
// Use this in suite setup functions.
func MustSetTestEnvironment(t *testing.T) {
	t.Helper()

	if err := os.Setenv("GO_ENV", "test"); err != nil {
		t.Fatalf("Failed to set GO_ENV=test: %v", err)
	}
	if os.Getenv("GO_ENV") != "test" {
		t.Fatal("Failed to verify GO_ENV=test")
	}
}

// NewTestConfig returns a configuration for tests that never talk to real
// Auth0, S3 or email endpoints
func NewTestConfig() *config.Config {
	return &config.Config{
		GoEnv:           "test",
		AppTimezone:     "Asia/Seoul",
		DefaultLanguage: "en",
		EmailFrom:       "no-reply@renovation-quotes.test",
		RequestTimeout:  5 * time.Second,
		AllowedOrigins:  []string{"http://localhost:3000"},
	}
}

// UseConfig installs cfg as the global configuration until the test ends
func UseConfig(t *testing.T, cfg *config.Config) {
	t.Helper()

	previous := config.GetConfig()
	config.SetConfig(cfg)
	t.Cleanup(func() {
		config.SetConfig(previous)
	})
}

package cli

import (
	"os"
	"path/filepath"
)

// Config holds CLI configuration
type Config struct {
	ServerURL  string
	CookieFile string
	Language   string
	Output     string
	Verbose    bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:  getEnvOrDefault("WEDPLAN_SERVER", "http://localhost:8080"),
		CookieFile: getEnvOrDefault("WEDPLAN_COOKIE_FILE", defaultCookieFile()),
		Language:   os.Getenv("WEDPLAN_LANG"),
		Output:     "text",
		Verbose:    false,
	}
}

func defaultCookieFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".wedplan/cookies"
	}
	return filepath.Join(home, ".wedplan", "cookies")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

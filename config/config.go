package config

import (
	"os"
)

type Config struct {
	// Database. A non-empty DatabaseURL selects the networked MySQL backend;
	// otherwise reports go to the embedded SQLite file at SQLitePath.
	DatabaseURL string
	SQLitePath  string

	// Server
	Port string

	// Export renderer assets. Both are optional; the renderer falls back to a
	// built-in bitmap face and a drawn diagram placeholder.
	FontPath       string
	TruckImagePath string

	LogLevel string
}

func Load() *Config {
	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  getEnv("SQLITE_PATH", "reports.db"),
		Port:        getEnv("PORT", "8080"),

		FontPath:       os.Getenv("EXPORT_FONT"),
		TruckImagePath: os.Getenv("TRUCK_IMAGE"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg
}

// BackendKind names the persistence backend the loaded values select.
func (c *Config) BackendKind() string {
	if c.DatabaseURL != "" {
		return "mysql"
	}
	return "sqlite"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

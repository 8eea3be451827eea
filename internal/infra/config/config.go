// internal/infra/config/config.go
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the environment-driven settings for the whole process.
type Config struct {
	Port string

	FirestoreProjectID       string
	FirestoreCredentialsFile string
	FirebaseProjectID        string

	// Path of the local cart mirror database. Empty keeps the default
	// next to the binary.
	MirrorDBPath string

	// Bounded retry budget for the stock decrement transaction.
	DecrementMaxAttempts int

	// Per-operation deadline for remote cart reads/writes (fail fast so
	// the mirror can take over).
	CartOpTimeout time.Duration

	// Shared token gating /admin/stock. Empty disables the check.
	AdminToken string
}

// Load reads the environment and returns the resolved Config.
func Load() *Config {
	defaultProject := os.Getenv("GCP_PROJECT_ID")

	return &Config{
		Port:                     getenvDefault("PORT", "8080"),
		FirestoreProjectID:       getenvDefault("FIRESTORE_PROJECT_ID", defaultProject),
		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),
		FirebaseProjectID:        getenvDefault("FIREBASE_PROJECT_ID", defaultProject),
		MirrorDBPath:             getenvDefault("CART_MIRROR_DB", "cart_mirror.db"),
		DecrementMaxAttempts:     getenvInt("STOCK_DECREMENT_MAX_ATTEMPTS", 4),
		CartOpTimeout:            getenvDuration("CART_OP_TIMEOUT", 3*time.Second),
		AdminToken:               os.Getenv("ADMIN_TOKEN"),
	}
}

// LocalMode reports whether the process runs without a Firestore project,
// in which case in-memory adapters back every store.
func (c *Config) LocalMode() bool {
	return c.FirestoreProjectID == ""
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}

package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the dashboard server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where serenity stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string

	// Database pool bounds
	DBMaxOpenConns int // SERENITY_DB_MAX_OPEN_CONNS (default: 10)
	DBMaxIdleConns int // SERENITY_DB_MAX_IDLE_CONNS (default: 5)

	// Narrative backend configuration
	AIEnabled      bool   // SERENITY_AI_ENABLED
	AIBaseURL      string // SERENITY_AI_BASE_URL (default: https://api.openai.com/v1)
	AIAPIKey       string // SERENITY_AI_API_KEY
	AIModel        string // SERENITY_AI_MODEL (default: gpt-4o-mini)
	AIMaxRetries   int    // SERENITY_AI_MAX_RETRIES (default: 3)
	AITimeoutSecs  int    // SERENITY_AI_TIMEOUT_SECS, per-agent budget (default: 60)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled returns true if insight generation is enabled and an API key is configured.
func (p *Profile) IsAIEnabled() bool {
	return p.AIEnabled && p.AIAPIKey != ""
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnvOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

// FromEnv loads configuration from SERENITY_* environment variables.
func (p *Profile) FromEnv() {
	p.AIEnabled = os.Getenv("SERENITY_AI_ENABLED") == "true"
	p.AIBaseURL = getEnvOrDefault("SERENITY_AI_BASE_URL", "https://api.openai.com/v1")
	p.AIAPIKey = os.Getenv("SERENITY_AI_API_KEY")
	p.AIModel = getEnvOrDefault("SERENITY_AI_MODEL", "gpt-4o-mini")
	p.AIMaxRetries = getIntEnvOrDefault("SERENITY_AI_MAX_RETRIES", 3)
	p.AITimeoutSecs = getIntEnvOrDefault("SERENITY_AI_TIMEOUT_SECS", 60)

	p.DBMaxOpenConns = getIntEnvOrDefault("SERENITY_DB_MAX_OPEN_CONNS", 10)
	p.DBMaxIdleConns = getIntEnvOrDefault("SERENITY_DB_MAX_IDLE_CONNS", 5)

	if dsn := os.Getenv("SERENITY_DSN"); dsn != "" {
		p.DSN = dsn
	}
	if driver := os.Getenv("SERENITY_DRIVER"); driver != "" {
		p.Driver = driver
	}
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Driver != "sqlite" && p.Driver != "postgres" {
		return errors.Errorf("unknown db driver %q: only 'postgres' and 'sqlite' are supported", p.Driver)
	}

	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("dsn is required for the postgres driver")
	}

	if p.DBMaxOpenConns <= 0 {
		p.DBMaxOpenConns = 10
	}
	if p.DBMaxIdleConns <= 0 {
		p.DBMaxIdleConns = 5
	}
	if p.AIMaxRetries <= 0 {
		p.AIMaxRetries = 3
	}
	if p.AITimeoutSecs <= 0 {
		p.AITimeoutSecs = 60
	}

	if p.Driver == "sqlite" {
		if p.Data == "" {
			p.Data = "."
		}
		dataDir, err := checkDataDir(p.Data)
		if err != nil {
			return err
		}
		p.Data = dataDir
		if p.DSN == "" {
			dbFile := fmt.Sprintf("serenity_%s.db", p.Mode)
			p.DSN = filepath.Join(dataDir, dbFile)
		}
	}

	return nil
}

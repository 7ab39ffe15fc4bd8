package profile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateDriver(t *testing.T) {
	p := &Profile{Mode: "dev", Driver: "mysql"}
	require.Error(t, p.Validate())

	p = &Profile{Mode: "dev", Driver: "postgres"}
	require.Error(t, p.Validate(), "postgres requires a dsn")

	p = &Profile{Mode: "dev", Driver: "postgres", DSN: "postgresql://u:p@localhost/serenity"}
	require.NoError(t, p.Validate())
}

func TestValidateSQLiteDefaults(t *testing.T) {
	dir := t.TempDir()
	p := &Profile{Mode: "dev", Driver: "sqlite", Data: dir}
	require.NoError(t, p.Validate())
	require.Equal(t, filepath.Join(dir, "serenity_dev.db"), p.DSN)

	// Unknown modes collapse to demo.
	p = &Profile{Mode: "staging", Driver: "sqlite", Data: dir}
	require.NoError(t, p.Validate())
	require.Equal(t, "demo", p.Mode)
	require.Equal(t, filepath.Join(dir, "serenity_demo.db"), p.DSN)
}

func TestValidateFillsDefaults(t *testing.T) {
	p := &Profile{Mode: "dev", Driver: "sqlite", Data: t.TempDir()}
	require.NoError(t, p.Validate())
	require.Equal(t, 10, p.DBMaxOpenConns)
	require.Equal(t, 5, p.DBMaxIdleConns)
	require.Equal(t, 3, p.AIMaxRetries)
	require.Equal(t, 60, p.AITimeoutSecs)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("SERENITY_AI_ENABLED", "true")
	t.Setenv("SERENITY_AI_API_KEY", "sk-test")
	t.Setenv("SERENITY_AI_MODEL", "gpt-4o")
	t.Setenv("SERENITY_AI_TIMEOUT_SECS", "30")
	t.Setenv("SERENITY_DRIVER", "postgres")
	t.Setenv("SERENITY_DSN", "postgresql://u:p@localhost/serenity")

	p := &Profile{}
	p.FromEnv()

	require.True(t, p.AIEnabled)
	require.True(t, p.IsAIEnabled())
	require.Equal(t, "sk-test", p.AIAPIKey)
	require.Equal(t, "gpt-4o", p.AIModel)
	require.Equal(t, 30, p.AITimeoutSecs)
	require.Equal(t, "postgres", p.Driver)
}

func TestIsAIEnabledRequiresKey(t *testing.T) {
	p := &Profile{AIEnabled: true}
	require.False(t, p.IsAIEnabled())

	p.AIAPIKey = "sk-test"
	require.True(t, p.IsAIEnabled())
}

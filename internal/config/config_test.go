package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("REWARD_RATE_PER_KG", "")
	t.Setenv("POSTGRES_DSN", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "15", cfg.Reward.RatePerKg.String())
	assert.Equal(t, "PHP", cfg.Reward.Currency)
	assert.Equal(t, "v3", cfg.Reward.Version)
	assert.False(t, cfg.Identity.UniqueContact)
	assert.Equal(t, 5*time.Second, cfg.Postgres.TxTimeout())
	assert.Equal(t, time.Hour, cfg.Auth.AccessTokenTTL())
}

func TestLoadRewardPolicyFromEnv(t *testing.T) {
	t.Setenv("REWARD_RATE_PER_KG", "5.50")
	t.Setenv("REWARD_POLICY_VERSION", "v1")
	t.Setenv("IDENTITY_UNIQUE_CONTACT", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5.5", cfg.Reward.RatePerKg.String())
	assert.Equal(t, "v1", cfg.Reward.Version)
	assert.True(t, cfg.Identity.UniqueContact)
}

func TestLoadRejectsInvalidRate(t *testing.T) {
	for _, raw := range []string{"abc", "0", "-3"} {
		t.Run(raw, func(t *testing.T) {
			t.Setenv("REWARD_RATE_PER_KG", raw)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "REWARD_RATE_PER_KG")
		})
	}
}

func TestAppConfig(t *testing.T) {
	app := AppConfig{Host: "127.0.0.1", Port: "9000", RequestTimeoutSeconds: 0}
	assert.Equal(t, "127.0.0.1:9000", app.Addr())
	assert.Zero(t, app.RequestTimeout())

	app.RequestTimeoutSeconds = 3
	assert.Equal(t, 3*time.Second, app.RequestTimeout())
}

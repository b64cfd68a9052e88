package config_test

import (
	"testing"

	"fitFlowAPI/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := config.FromEnv(env(map[string]string{"CLERK_SECRET_KEY": "sk_test", "TIMEZONE": "UTC"}))
	require.NoError(t, err)

	assert.Equal(t, "3333", cfg.Port)
	assert.Equal(t, config.BackendFirestore, cfg.StoreBackend)
	assert.Equal(t, config.AuthClerk, cfg.AuthProvider)
	assert.Equal(t, []int{3, 7, 14, 30}, cfg.Milestones)
	assert.Equal(t, 64, cfg.LocalCacheMB)
	assert.Equal(t, 5.0, cfg.RateLimitRPS)
	assert.True(t, cfg.RequireVerifiedEmail)
	assert.Equal(t, "UTC", cfg.Timezone.String())
	assert.True(t, cfg.FirebaseNeeded())
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := config.FromEnv(env(map[string]string{
		"STORE_BACKEND":  "Memory",
		"AUTH_PROVIDER":  "firebase",
		"MILESTONE_DAYS": "5, 10",
		"LOCAL_CACHE_MB": "0",
		"LOG_JSON":       "true",
		"TIMEZONE":       "UTC",
	}))
	require.NoError(t, err)

	assert.Equal(t, config.BackendMemory, cfg.StoreBackend)
	assert.Equal(t, []int{5, 10}, cfg.Milestones)
	assert.Equal(t, 0, cfg.LocalCacheMB)
	assert.True(t, cfg.LogJSON)
	assert.True(t, cfg.FirebaseNeeded())
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad bool", map[string]string{"AUTH_PROVIDER": "firebase", "LOG_JSON": "maybe", "TIMEZONE": "UTC"}},
		{"bad int", map[string]string{"AUTH_PROVIDER": "firebase", "LOCAL_CACHE_MB": "lots", "TIMEZONE": "UTC"}},
		{"bad milestone list", map[string]string{"AUTH_PROVIDER": "firebase", "MILESTONE_DAYS": "3,x", "TIMEZONE": "UTC"}},
		{"negative milestone", map[string]string{"AUTH_PROVIDER": "firebase", "MILESTONE_DAYS": "3,-7", "TIMEZONE": "UTC"}},
		{"unknown backend", map[string]string{"AUTH_PROVIDER": "firebase", "STORE_BACKEND": "mongo", "TIMEZONE": "UTC"}},
		{"postgres without url", map[string]string{"AUTH_PROVIDER": "firebase", "STORE_BACKEND": "postgres", "TIMEZONE": "UTC"}},
		{"clerk without key", map[string]string{"TIMEZONE": "UTC"}},
		{"unknown zone", map[string]string{"AUTH_PROVIDER": "firebase", "TIMEZONE": "Mars/Olympus"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.FromEnv(env(tt.env))
			assert.Error(t, err)
		})
	}
}

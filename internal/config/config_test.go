package config

import (
	"testing"

	"github.com/ark-network/launchsite/internal/core/domain"
	"github.com/stretchr/testify/require"
)

const testOwner = "ff00000000000000000000000000000000000000000000000000000000000000"

func TestLoadConfig(t *testing.T) {
	datadir := t.TempDir()
	t.Setenv("LAUNCH_DATADIR", datadir)
	t.Setenv("LAUNCH_SITE_OWNER", testOwner)
	t.Setenv("LAUNCH_FIXED_ALTITUDE", "90000")
	t.Setenv("LAUNCH_SESSION_INTERVAL", "15")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, datadir, cfg.Datadir)
	require.Equal(t, uint32(DefaultPort), cfg.Port)
	require.True(t, cfg.NoTLS)
	require.Equal(t, "launch-site", cfg.SiteName)
	require.Equal(t, testOwner, cfg.SiteOwner)
	require.Equal(t, "badger", cfg.EventDbType)
	require.Equal(t, "sqlite", cfg.DbType)
	require.Equal(t, "inmemory", cfg.LiveStoreType)
	require.Equal(t, "fixed", cfg.EnvironmentType)
	require.Equal(t, domain.Environment{
		Weather:      0,
		Altitude:     90000,
		FuelPrice:    10,
		PayloadValue: 100,
	}, cfg.FixedEnvironment)
	require.Equal(t, int64(15), cfg.SessionInterval)
}

func TestValidate(t *testing.T) {
	validConfig := func(t *testing.T) *Config {
		dir := t.TempDir()
		return &Config{
			SiteName:        "Cape",
			SiteOwner:       testOwner,
			EventDbType:     "badger",
			DbType:          "sqlite",
			DbDir:           dir,
			EventDbDir:      dir,
			LiveStoreType:   "inmemory",
			EnvironmentType: "random",
			SchedulerType:   "gocron",
			SessionInterval: 10,
		}
	}

	t.Run("valid", func(t *testing.T) {
		for _, dbType := range []string{"badger", "sqlite"} {
			t.Run(dbType, func(t *testing.T) {
				cfg := validConfig(t)
				cfg.DbType = dbType
				require.NoError(t, cfg.Validate())
				defer cfg.repo.Close()

				svc, err := cfg.AppService()
				require.NoError(t, err)
				require.NotNil(t, svc)

				again, err := cfg.AppService()
				require.NoError(t, err)
				require.Equal(t, svc, again)
			})
		}
	})

	t.Run("invalid", func(t *testing.T) {
		testCases := []struct {
			name   string
			modify func(*Config)
		}{
			{"event db type", func(c *Config) { c.EventDbType = "sqlite" }},
			{"db type", func(c *Config) { c.DbType = "mysql" }},
			{"missing postgres url", func(c *Config) { c.DbType = "postgres" }},
			{"live store type", func(c *Config) { c.LiveStoreType = "memcached" }},
			{"environment type", func(c *Config) { c.EnvironmentType = "weather-api" }},
			{"scheduler type", func(c *Config) { c.SchedulerType = "block" }},
			{"session interval", func(c *Config) { c.SessionInterval = -1 }},
			{"missing redis url", func(c *Config) { c.LiveStoreType = "redis" }},
			{"missing owner", func(c *Config) { c.SiteOwner = "" }},
			{"invalid owner", func(c *Config) { c.SiteOwner = "owner" }},
			{"empty site name", func(c *Config) { c.SiteName = " " }},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				cfg := validConfig(t)
				tc.modify(cfg)
				require.Error(t, cfg.Validate())
			})
		}
	})

	t.Run("app service before validate", func(t *testing.T) {
		cfg := validConfig(t)
		_, err := cfg.AppService()
		require.Error(t, err)
	})
}

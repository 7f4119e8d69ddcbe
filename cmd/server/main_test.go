package main

import (
	"flag"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("NFS_ROOT", "/srv/export")
	t.Setenv("NFS_PORT", "7000")

	cfg, err := loadConfig([]string{"-port", "7001", "-conn-timeout", "5s", "-admin", "127.0.0.1:9999"})
	require.NoError(t, err)

	assert.Equal(t, "/srv/export", cfg.Storage.Root)
	assert.Equal(t, "7001", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ConnTimeout)
	assert.True(t, cfg.Admin.Enabled)
	assert.Equal(t, "127.0.0.1:9999", cfg.Admin.Addr)
}

func TestLoadConfigRejectsMalformedEnvironment(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{key: "NFS_CONN_TIMEOUT", value: "30"},
		{key: "RATE_LIMIT_CPS", value: "fast"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv("NFS_ROOT", "/srv/export")
			t.Setenv(tt.key, tt.value)

			cfg, err := loadConfig(nil)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.key)

			// the server must not start on a partially applied environment
			assert.Error(t, run(nil))
		})
	}
}

func TestLoadConfigBadFlag(t *testing.T) {
	_, err := loadConfig([]string{"-conn-timeout", "soon"})
	assert.Error(t, err)

	_, err = loadConfig([]string{"-h"})
	assert.ErrorIs(t, err, flag.ErrHelp)
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig drops the YAML into a temp file and returns its path.
func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	return path
}

const validSecurityYAML = `
security:
  auth:
    provider: basic
    basic:
      min_password_length: 12
      weak_passwords:
        - password
        - "12345678"
  public_endpoints:
    - /health
    - /health/ready
    - /metrics
  jwt:
    secret_env: JWT_SECRET
    expiry_hours: 24
`

func TestLoadSecurityConfig(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		cfg, err := LoadSecurityConfig(writeConfig(t, validSecurityYAML))
		require.NoError(t, err)

		assert.Equal(t, "basic", cfg.GetAuthProvider())
		assert.Equal(t, 12, cfg.GetMinPasswordLength())
		assert.Equal(t, []string{"password", "12345678"}, cfg.GetWeakPasswords())
		assert.Equal(t, []string{"/health", "/health/ready", "/metrics"}, cfg.GetPublicEndpoints())
		assert.Equal(t, "JWT_SECRET", cfg.GetJWTSecretEnv())
		assert.Equal(t, 24, cfg.GetJWTExpiryHours())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadSecurityConfig("/nonexistent/path/config.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := LoadSecurityConfig(writeConfig(t, "security:\n  auth: [unclosed"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config")
	})

	validationCases := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing provider",
			yaml:    "security:\n  jwt:\n    secret_env: JWT_SECRET\n    expiry_hours: 24\n",
			wantErr: "auth provider is required",
		},
		{
			name: "zero password length with basic provider",
			yaml: "security:\n  auth:\n    provider: basic\n" +
				"  jwt:\n    secret_env: JWT_SECRET\n    expiry_hours: 24\n",
			wantErr: "min_password_length must be positive",
		},
		{
			name: "password length below 8",
			yaml: "security:\n  auth:\n    provider: basic\n    basic:\n      min_password_length: 6\n" +
				"  jwt:\n    secret_env: JWT_SECRET\n    expiry_hours: 24\n",
			wantErr: "min_password_length must be at least 8",
		},
		{
			name:    "missing jwt secret env",
			yaml:    "security:\n  auth:\n    provider: oauth\n  jwt:\n    expiry_hours: 24\n",
			wantErr: "jwt secret_env is required",
		},
		{
			name:    "non-positive jwt expiry",
			yaml:    "security:\n  auth:\n    provider: oauth\n  jwt:\n    secret_env: JWT_SECRET\n    expiry_hours: 0\n",
			wantErr: "jwt expiry_hours must be positive",
		},
	}
	for _, tc := range validationCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadSecurityConfig(writeConfig(t, tc.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config validation failed")
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

// Non-basic providers skip the password policy checks entirely.
func TestLoadSecurityConfigNonBasicProvider(t *testing.T) {
	yaml := `
security:
  auth:
    provider: oauth
  jwt:
    secret_env: JWT_SECRET
    expiry_hours: 12
`
	cfg, err := LoadSecurityConfig(writeConfig(t, yaml))
	require.NoError(t, err)
	assert.Equal(t, "oauth", cfg.GetAuthProvider())
	assert.Zero(t, cfg.GetMinPasswordLength())
	assert.Empty(t, cfg.GetWeakPasswords())
}

func TestSecurityConfigGettersOnEmptySections(t *testing.T) {
	yaml := `
security:
  auth:
    provider: oauth
  jwt:
    secret_env: JWT_SECRET
    expiry_hours: 1
`
	cfg, err := LoadSecurityConfig(writeConfig(t, yaml))
	require.NoError(t, err)
	assert.Nil(t, cfg.GetPublicEndpoints())
	assert.Equal(t, 1, cfg.GetJWTExpiryHours())
}

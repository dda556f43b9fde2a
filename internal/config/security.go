package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SecurityConfig mirrors the security section of the YAML config file: the
// auth provider, password policy, public endpoint whitelist and JWT settings.
type SecurityConfig struct {
	Security SecuritySection `yaml:"security"`
}

type SecuritySection struct {
	Auth            AuthSection `yaml:"auth"`
	PublicEndpoints []string    `yaml:"public_endpoints"`
	JWT             JWTSection  `yaml:"jwt"`
}

type AuthSection struct {
	Provider string           `yaml:"provider"`
	Basic    BasicAuthSection `yaml:"basic"`
}

type BasicAuthSection struct {
	MinPasswordLength int      `yaml:"min_password_length"`
	WeakPasswords     []string `yaml:"weak_passwords"`
}

type JWTSection struct {
	SecretEnv   string `yaml:"secret_env"`
	ExpiryHours int    `yaml:"expiry_hours"`
}

// LoadSecurityConfig reads and validates the security YAML. The path comes
// from the CLI flag or a hardcoded default, never from request input.
func LoadSecurityConfig(path string) (*SecurityConfig, error) {
	// #nosec G304 -- path is provided by trusted source (CLI arg or config), not user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config SecurityConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := config.Security.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &config, nil
}

func (s SecuritySection) validate() error {
	if s.Auth.Provider == "" {
		return errors.New("auth provider is required")
	}
	if s.Auth.Provider == "basic" {
		switch n := s.Auth.Basic.MinPasswordLength; {
		case n <= 0:
			return errors.New("min_password_length must be positive")
		case n < 8:
			return errors.New("min_password_length must be at least 8")
		}
	}
	if s.JWT.SecretEnv == "" {
		return errors.New("jwt secret_env is required")
	}
	if s.JWT.ExpiryHours <= 0 {
		return errors.New("jwt expiry_hours must be positive")
	}
	return nil
}

func (c *SecurityConfig) GetAuthProvider() string     { return c.Security.Auth.Provider }
func (c *SecurityConfig) GetMinPasswordLength() int   { return c.Security.Auth.Basic.MinPasswordLength }
func (c *SecurityConfig) GetWeakPasswords() []string  { return c.Security.Auth.Basic.WeakPasswords }
func (c *SecurityConfig) GetPublicEndpoints() []string { return c.Security.PublicEndpoints }
func (c *SecurityConfig) GetJWTSecretEnv() string     { return c.Security.JWT.SecretEnv }
func (c *SecurityConfig) GetJWTExpiryHours() int      { return c.Security.JWT.ExpiryHours }

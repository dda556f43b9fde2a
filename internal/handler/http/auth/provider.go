package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"os"
	"strings"

	authservice "clinic-reviews/internal/service/auth"
)

// defaultWeakPasswords are rejected outright regardless of length.
var defaultWeakPasswords = []string{"password", "admin", "12345678", "qwerty"}

// EnvAdminProvider authenticates the single moderation admin against the
// ADMIN_USER and ADMIN_USER_PASSWORD environment variables.
type EnvAdminProvider struct {
	minPasswordLength int
	weakPasswords     []string
}

// NewEnvAdminProvider creates an environment-backed admin provider.
func NewEnvAdminProvider(minPasswordLength int) *EnvAdminProvider {
	return &EnvAdminProvider{
		minPasswordLength: minPasswordLength,
		weakPasswords:     defaultWeakPasswords,
	}
}

// ValidateCredentials checks the supplied credentials against the configured
// admin account using constant-time comparison.
func (p *EnvAdminProvider) ValidateCredentials(ctx context.Context, creds authservice.Credentials) error {
	if creds.Username == "" || creds.Password == "" {
		return fmt.Errorf("credentials must not be empty")
	}
	if len(creds.Password) < p.minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", p.minPasswordLength)
	}
	for _, weak := range p.weakPasswords {
		if strings.HasPrefix(creds.Password, weak) {
			return fmt.Errorf("weak password detected")
		}
	}

	adminUser := os.Getenv("ADMIN_USER")
	adminPass := os.Getenv("ADMIN_USER_PASSWORD")
	if adminUser == "" || adminPass == "" {
		return fmt.Errorf("admin credentials not configured")
	}

	userMatch := subtle.ConstantTimeCompare([]byte(creds.Username), []byte(adminUser)) == 1
	passMatch := subtle.ConstantTimeCompare([]byte(creds.Password), []byte(adminPass)) == 1
	if userMatch && passMatch {
		return nil
	}
	return fmt.Errorf("invalid credentials")
}

// IdentifyUser returns the role for a username.
func (p *EnvAdminProvider) IdentifyUser(ctx context.Context, username string) (string, error) {
	if username == "" {
		return "", fmt.Errorf("username must not be empty")
	}
	if subtle.ConstantTimeCompare([]byte(username), []byte(os.Getenv("ADMIN_USER"))) == 1 {
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("user not found")
}

// GetRequirements returns the password requirements.
func (p *EnvAdminProvider) GetRequirements() authservice.CredentialRequirements {
	return authservice.CredentialRequirements{
		MinPasswordLength: p.minPasswordLength,
		WeakPasswords:     p.weakPasswords,
	}
}

// Name returns the provider name.
func (p *EnvAdminProvider) Name() string {
	return "env-admin"
}

// ValidateAdminCredentials checks at startup that the admin account is
// configured and not trivially guessable, so a misconfigured deployment
// fails fast instead of serving an unusable /auth/token.
func ValidateAdminCredentials(minPasswordLength int) error {
	user := os.Getenv("ADMIN_USER")
	pass := os.Getenv("ADMIN_USER_PASSWORD")
	if user == "" {
		return fmt.Errorf("ADMIN_USER is not set")
	}
	if pass == "" {
		return fmt.Errorf("ADMIN_USER_PASSWORD is not set")
	}
	if len(pass) < minPasswordLength {
		return fmt.Errorf("ADMIN_USER_PASSWORD must be at least %d characters", minPasswordLength)
	}
	for _, weak := range defaultWeakPasswords {
		if strings.HasPrefix(pass, weak) {
			return fmt.Errorf("ADMIN_USER_PASSWORD is too weak")
		}
	}
	return nil
}

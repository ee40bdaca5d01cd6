package config

import (
	"fmt"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

// Bcrypt cost bounds accepted from the environment. Below the minimum the
// hash is too cheap to resist offline cracking; above the maximum a login
// burns noticeable latency.
const (
	minBcryptCost     = 10
	maxBcryptCost     = 14
	defaultBcryptCost = 12
)

// PasswordConfig controls credential hashing for recruiter accounts.
type PasswordConfig struct {
	Cost int
	// Pepper is an optional server-side secret appended to every password
	// before hashing. A leaked database alone is not enough to attack the
	// hashes when it is set.
	Pepper string
}

// NewPasswordConfig reads BCRYPT_COST (default 12) and PASSWORD_PEPPER from
// the environment.
func NewPasswordConfig() (*PasswordConfig, error) {
	cfg := &PasswordConfig{
		Cost:   defaultBcryptCost,
		Pepper: os.Getenv("PASSWORD_PEPPER"),
	}

	if raw := os.Getenv("BCRYPT_COST"); raw != "" {
		cost, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
		}
		cfg.Cost = cost
	}

	if cfg.Cost < minBcryptCost || cfg.Cost > maxBcryptCost {
		return nil, fmt.Errorf("BCRYPT_COST out of range: %d (must be %d-%d)", cfg.Cost, minBcryptCost, maxBcryptCost)
	}
	return cfg, nil
}

// seasoned appends the pepper, when configured, before hashing or comparing.
func (c *PasswordConfig) seasoned(password string) []byte {
	return []byte(password + c.Pepper)
}

// HashPassword returns the bcrypt hash to store for a password.
func (c *PasswordConfig) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(c.seasoned(password), c.Cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether a password matches the stored hash.
func (c *PasswordConfig) VerifyPassword(password, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), c.seasoned(password)) == nil
}

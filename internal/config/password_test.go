package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPasswordConfig(t *testing.T) {
	tests := []struct {
		name     string
		cost     string
		pepper   string
		wantCost int
		wantErr  bool
	}{
		{name: "defaults", wantCost: 12},
		{name: "custom cost", cost: "10", wantCost: 10},
		{name: "with pepper", cost: "11", pepper: "segredo", wantCost: 11},
		{name: "cost not a number", cost: "doze", wantErr: true},
		{name: "cost too low", cost: "4", wantErr: true},
		{name: "cost too high", cost: "31", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BCRYPT_COST", tt.cost)
			t.Setenv("PASSWORD_PEPPER", tt.pepper)

			cfg, err := NewPasswordConfig()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCost, cfg.Cost)
			assert.Equal(t, tt.pepper, cfg.Pepper)
		})
	}
}

func TestPasswordConfig_HashAndVerify(t *testing.T) {
	cfg := &PasswordConfig{Cost: 10}

	hash, err := cfg.HashPassword("senha-forte-123")
	require.NoError(t, err)
	assert.NotEqual(t, "senha-forte-123", hash)

	assert.True(t, cfg.VerifyPassword("senha-forte-123", hash))
	assert.False(t, cfg.VerifyPassword("senha-errada", hash))
}

func TestPasswordConfig_PepperChangesVerification(t *testing.T) {
	peppered := &PasswordConfig{Cost: 10, Pepper: "segredo-do-servidor"}

	hash, err := peppered.HashPassword("senha-forte-123")
	require.NoError(t, err)
	assert.True(t, peppered.VerifyPassword("senha-forte-123", hash))

	// The same password no longer verifies without the pepper.
	plain := &PasswordConfig{Cost: 10}
	assert.False(t, plain.VerifyPassword("senha-forte-123", hash))
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{
			name:   "development defaults pass",
			mutate: func(c *Config) {},
		},
		{
			name:        "missing port",
			mutate:      func(c *Config) { c.Port = "" },
			expectError: true,
		},
		{
			name:        "missing JWT secret",
			mutate:      func(c *Config) { c.JWTSecret = "" },
			expectError: true,
		},
		{
			name: "production with default JWT secret",
			mutate: func(c *Config) {
				c.Env = "production"
				c.JWTSecret = "your-secret-key-change-in-production"
			},
			expectError: true,
		},
		{
			name: "production with short JWT secret",
			mutate: func(c *Config) {
				c.Env = "production"
				c.JWTSecret = "short"
			},
			expectError: true,
		},
		{
			name: "production with default DB password",
			mutate: func(c *Config) {
				c.Env = "production"
				c.JWTSecret = "secure-secret-at-least-32-chars-long"
				c.DBPassword = "password"
			},
			expectError: true,
		},
		{
			name: "production fully configured",
			mutate: func(c *Config) {
				c.Env = "production"
				c.JWTSecret = "secure-secret-at-least-32-chars-long"
				c.DBPassword = "strong-database-password"
				c.DBSSLMode = "require"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{
				Env:        "development",
				Port:       "8480",
				JWTSecret:  "dev-secret",
				DBPassword: "password",
				DBSSLMode:  "disable",
			}
			tt.mutate(c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

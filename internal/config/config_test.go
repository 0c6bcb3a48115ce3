package config

import (
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		App:   AppConfig{Env: "local", Port: 8080},
		DB:    DBConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "x", Name: "commerce"},
		Redis: RedisConfig{Host: "localhost", Port: 6379},
		Auth:  AuthConfig{AccessSecret: "access-secret", RefreshSecret: "refresh-secret"},
	}
}

func TestValidate_ReportsMissingRequired(t *testing.T) {
	c := Config{}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestValidate_AppliesTokenTTLDefaults(t *testing.T) {
	c := validConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.Auth.AccessTokenTTL != 15*time.Minute {
		t.Fatalf("expected 15m access ttl default, got %v", c.Auth.AccessTokenTTL)
	}
	if c.Auth.RefreshTokenTTL != 7*24*time.Hour {
		t.Fatalf("expected 7d refresh ttl default, got %v", c.Auth.RefreshTokenTTL)
	}
}

func TestValidate_RejectsRefreshTTLBelowAccessTTL(t *testing.T) {
	c := validConfig()
	c.Auth.AccessTokenTTL = time.Hour
	c.Auth.RefreshTokenTTL = time.Minute
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for refresh ttl <= access ttl")
	}
}

func TestValidate_RejectsSharedSecret(t *testing.T) {
	c := validConfig()
	c.Auth.RefreshSecret = c.Auth.AccessSecret
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for shared signing secret")
	}
}

func TestValidate_ProductionRequiresSSLMode(t *testing.T) {
	c := validConfig()
	c.App.Env = "production"
	c.Auth.Issuer = "commerce-api"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for production without DB_SSLMODE")
	}
}

func TestValidate_LocalDefaultsSSLMode(t *testing.T) {
	c := validConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.DB.SSLMode != "disable" {
		t.Fatalf("expected sslmode disable default, got %q", c.DB.SSLMode)
	}
}

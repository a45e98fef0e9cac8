package config

import (
	"os"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("OPENEMR_BASE_URL")
	os.Unsetenv("OPENEMR_REDIRECT_URI")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.BaseURL != "https://localhost:9300" {
		t.Errorf("expected default base URL, got %s", cfg.BaseURL)
	}
	if cfg.RedirectURI != "http://localhost:8000/oauth/callback" {
		t.Errorf("expected default redirect URI, got %s", cfg.RedirectURI)
	}
	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if cfg.UpstreamTimeoutSeconds != 30 {
		t.Errorf("expected default upstream timeout 30, got %d", cfg.UpstreamTimeoutSeconds)
	}
	if !cfg.UpstreamTLSSkipVerify {
		t.Error("expected UPSTREAM_TLS_SKIP_VERIFY to default to true")
	}
}

func TestLoad_FromEnv(t *testing.T) {
	os.Setenv("OPENEMR_BASE_URL", "https://emr.example.org")
	os.Setenv("OPENEMR_CLIENT_ID", "client-123")
	os.Setenv("OPENEMR_CLIENT_SECRET", "s3cret")
	defer os.Unsetenv("OPENEMR_BASE_URL")
	defer os.Unsetenv("OPENEMR_CLIENT_ID")
	defer os.Unsetenv("OPENEMR_CLIENT_SECRET")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.BaseURL != "https://emr.example.org" {
		t.Errorf("expected OPENEMR_BASE_URL to be set, got %s", cfg.BaseURL)
	}
	if cfg.ClientID != "client-123" {
		t.Errorf("expected OPENEMR_CLIENT_ID to be set, got %s", cfg.ClientID)
	}
	if cfg.ClientSecret != "s3cret" {
		t.Errorf("expected OPENEMR_CLIENT_SECRET to be set, got %s", cfg.ClientSecret)
	}
}

func TestConfig_DerivedBases(t *testing.T) {
	c := &Config{BaseURL: "https://emr.example.org/"}

	if got := c.APIBase(); got != "https://emr.example.org/apis/default" {
		t.Errorf("unexpected API base: %s", got)
	}
	if got := c.OAuthBase(); got != "https://emr.example.org/oauth2/default" {
		t.Errorf("unexpected OAuth base: %s", got)
	}
}

func TestConfig_IsDev(t *testing.T) {
	c := &Config{Env: "development"}
	if !c.IsDev() {
		t.Error("expected IsDev() to return true for development")
	}

	c.Env = "production"
	if c.IsDev() {
		t.Error("expected IsDev() to return false for production")
	}
}

package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port                   string   `mapstructure:"PORT"`
	Env                    string   `mapstructure:"ENV"`
	BaseURL                string   `mapstructure:"OPENEMR_BASE_URL"`
	ClientID               string   `mapstructure:"OPENEMR_CLIENT_ID"`
	ClientSecret           string   `mapstructure:"OPENEMR_CLIENT_SECRET"`
	RedirectURI            string   `mapstructure:"OPENEMR_REDIRECT_URI"`
	CORSOrigins            []string `mapstructure:"CORS_ORIGINS"`
	UpstreamTimeoutSeconds int      `mapstructure:"UPSTREAM_TIMEOUT_SECONDS"`
	UpstreamTLSSkipVerify  bool     `mapstructure:"UPSTREAM_TLS_SKIP_VERIFY"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("OPENEMR_BASE_URL", "https://localhost:9300")
	v.SetDefault("OPENEMR_REDIRECT_URI", "http://localhost:8000/oauth/callback")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("UPSTREAM_TIMEOUT_SECONDS", 30)
	// OpenEMR demo instances run with self-signed certificates.
	v.SetDefault("UPSTREAM_TLS_SKIP_VERIFY", true)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("OPENEMR_BASE_URL")
	v.BindEnv("OPENEMR_CLIENT_ID")
	v.BindEnv("OPENEMR_CLIENT_SECRET")
	v.BindEnv("OPENEMR_REDIRECT_URI")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("UPSTREAM_TIMEOUT_SECONDS")
	v.BindEnv("UPSTREAM_TLS_SKIP_VERIFY")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("OPENEMR_BASE_URL is required")
	}
	if cfg.UpstreamTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("UPSTREAM_TIMEOUT_SECONDS must be positive, got %d", cfg.UpstreamTimeoutSeconds)
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// APIBase returns the root of OpenEMR's REST surface. Both the FHIR and the
// standard API live under /apis/default on an OpenEMR instance.
func (c *Config) APIBase() string {
	return strings.TrimRight(c.BaseURL, "/") + "/apis/default"
}

// OAuthBase returns the root of OpenEMR's OAuth 2.0 authorization server.
func (c *Config) OAuthBase() string {
	return strings.TrimRight(c.BaseURL, "/") + "/oauth2/default"
}

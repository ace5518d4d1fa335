package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// OAuthConfig holds one provider's client credentials. The callback URL
// is derived from BaseURL so it never drifts from the registered routes.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
}

type Config struct {
	AppPort   string `env:"PORT" envDefault:"5000"`
	AppSecret string `env:"APP_SECRET" envDefault:"super-secret-key!"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"debug"`
	BaseURL   string `env:"BASE_URL" envDefault:"http://localhost:5000"`

	DatabaseDSN string `env:"DB_CONNECTION_STRING"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	FacebookID     string `env:"FACEBOOK_ID"`
	FacebookSecret string `env:"FACEBOOK_SECRET"`

	TwitterKey    string `env:"TWITTER_KEY"`
	TwitterSecret string `env:"TWITTER_SECRET"`

	GoogleKey    string `env:"GOOGLE_KEY"`
	GoogleSecret string `env:"GOOGLE_SECRET"`
}

// Load reads configuration from the environment, after loading a .env
// file when one is present.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse environment: %w", err)
	}

	return cfg, nil
}

// Provider returns the OAuth client config for the named provider.
func (c Config) Provider(name string) OAuthConfig {
	oc := OAuthConfig{
		CallbackURL: fmt.Sprintf("%s/auth/%s/callback", c.BaseURL, name),
	}

	switch name {
	case "facebook":
		oc.ClientID = c.FacebookID
		oc.ClientSecret = c.FacebookSecret
	case "twitter":
		oc.ClientID = c.TwitterKey
		oc.ClientSecret = c.TwitterSecret
	case "google":
		oc.ClientID = c.GoogleKey
		oc.ClientSecret = c.GoogleSecret
	}

	return oc
}

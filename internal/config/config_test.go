package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.AppPort != "5000" {
		t.Errorf("AppPort = %q, want %q", cfg.AppPort, "5000")
	}
	if cfg.AppSecret != "super-secret-key!" {
		t.Errorf("AppSecret = %q, want default secret", cfg.AppSecret)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("GOOGLE_KEY", "gk")
	t.Setenv("GOOGLE_SECRET", "gs")
	t.Setenv("BASE_URL", "https://example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.AppPort != "8080" {
		t.Errorf("AppPort = %q, want %q", cfg.AppPort, "8080")
	}

	google := cfg.Provider("google")
	if google.ClientID != "gk" || google.ClientSecret != "gs" {
		t.Errorf("Provider(google) = %+v, want gk/gs credentials", google)
	}
	if google.CallbackURL != "https://example.com/auth/google/callback" {
		t.Errorf("CallbackURL = %q", google.CallbackURL)
	}
}

func TestProviderCallbackURLs(t *testing.T) {
	cfg := Config{BaseURL: "http://localhost:5000"}

	for _, name := range []string{"facebook", "twitter", "google"} {
		got := cfg.Provider(name).CallbackURL
		want := "http://localhost:5000/auth/" + name + "/callback"
		if got != want {
			t.Errorf("Provider(%s).CallbackURL = %q, want %q", name, got, want)
		}
	}
}

package google

import (
	"context"
	"testing"
)

func TestMapClaims(t *testing.T) {
	identity := mapClaims(googleClaims{
		Subject: "g1",
		Email:   "ada@x.com",
		Name:    "Ada Lovelace",
		Gender:  "female",
		Picture: "https://lh3.example/photo.jpg",
	})

	if identity.Provider != "google" {
		t.Errorf("Provider = %q", identity.Provider)
	}
	if identity.ProviderUserID != "g1" {
		t.Errorf("ProviderUserID = %q", identity.ProviderUserID)
	}
	if identity.Email != "ada@x.com" {
		t.Errorf("Email = %q", identity.Email)
	}
	if identity.Profile.Name != "Ada Lovelace" {
		t.Errorf("Profile.Name = %q", identity.Profile.Name)
	}
	if identity.Profile.Picture != "https://lh3.example/photo.jpg" {
		t.Errorf("Profile.Picture = %q", identity.Profile.Picture)
	}
}

func TestNewRequiresConfig(t *testing.T) {
	if _, err := New(context.Background(), "", "secret", "http://cb"); err == nil {
		t.Error("New with empty client id = nil error")
	}
}

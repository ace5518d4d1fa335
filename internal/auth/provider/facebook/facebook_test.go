package facebook

import "testing"

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	p, err := New("client-id", "client-secret", "http://localhost:5000/auth/facebook/callback")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestMapProfile(t *testing.T) {
	p := newTestProvider(t)

	profile := graphProfile{
		ID:        "f1",
		Email:     "ada@x.com",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Gender:    "female",
	}
	profile.Location.Name = "London, England"

	identity := p.mapProfile(profile)

	if identity.ProviderUserID != "f1" {
		t.Errorf("ProviderUserID = %q", identity.ProviderUserID)
	}
	if identity.Email != "ada@x.com" {
		t.Errorf("Email = %q", identity.Email)
	}
	if identity.Profile.Name != "Ada Lovelace" {
		t.Errorf("Profile.Name = %q, want joined given and family name", identity.Profile.Name)
	}
	if identity.Profile.Picture != "https://graph.facebook.com/f1/picture?type=large" {
		t.Errorf("Profile.Picture = %q", identity.Profile.Picture)
	}
	if identity.Profile.Location != "London, England" {
		t.Errorf("Profile.Location = %q", identity.Profile.Location)
	}
}

func TestMapProfileSynthesizesMissingEmail(t *testing.T) {
	p := newTestProvider(t)

	identity := p.mapProfile(graphProfile{ID: "f2", FirstName: "Bob"})

	if identity.Email != "f2@facebook.invalid" {
		t.Errorf("Email = %q, want synthesized address", identity.Email)
	}
}

func TestNewRequiresConfig(t *testing.T) {
	if _, err := New("", "", ""); err == nil {
		t.Error("New with empty config = nil error")
	}
}

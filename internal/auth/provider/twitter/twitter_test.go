package twitter

import "testing"

func TestMapUser(t *testing.T) {
	identity := mapUser(twitterUser{
		ID:              "t1",
		Name:            "Bob",
		Username:        "bob",
		Location:        "Lisbon",
		ProfileImageURL: "https://pbs.example/bob.jpg",
	})

	if identity.Provider != "twitter" {
		t.Errorf("Provider = %q", identity.Provider)
	}
	if identity.ProviderUserID != "t1" {
		t.Errorf("ProviderUserID = %q", identity.ProviderUserID)
	}
	if identity.Email != "bob@twitter.invalid" {
		t.Errorf("Email = %q, want synthesized from username", identity.Email)
	}
	if identity.Profile.Name != "Bob" {
		t.Errorf("Profile.Name = %q", identity.Profile.Name)
	}
	if identity.Profile.Location != "Lisbon" {
		t.Errorf("Profile.Location = %q", identity.Profile.Location)
	}
	if identity.Profile.Picture != "https://pbs.example/bob.jpg" {
		t.Errorf("Profile.Picture = %q", identity.Profile.Picture)
	}
}

func TestNewRequiresConfig(t *testing.T) {
	if _, err := New("id", "", "http://cb"); err == nil {
		t.Error("New with empty secret = nil error")
	}
}

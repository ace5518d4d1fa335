package provider

import (
	"context"
	"testing"

	"github.com/rpmonteiro/hackathon-starter/internal/auth"
)

type stubProvider struct {
	name string
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) AuthCodeURL(state, codeChallenge string) string {
	return "https://" + s.name + ".example/authorize"
}

func (s *stubProvider) ExchangeCode(ctx context.Context, code, verifier string) (*auth.Identity, error) {
	return &auth.Identity{Provider: s.name}, nil
}

func TestRegistryGet(t *testing.T) {
	reg := NewRegistry(
		&stubProvider{name: "facebook"},
		&stubProvider{name: "google"},
	)

	p, err := reg.Get("facebook")
	if err != nil {
		t.Fatalf("Get(facebook): %v", err)
	}
	if p.Name() != "facebook" {
		t.Errorf("Name() = %q", p.Name())
	}

	if _, err := reg.Get("linkedin"); err == nil {
		t.Error("Get(linkedin) = nil error, want unknown provider")
	}
}

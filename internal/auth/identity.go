package auth

import "github.com/rpmonteiro/hackathon-starter/internal/user"

// Provider names known to this service.
const (
	ProviderFacebook = "facebook"
	ProviderTwitter  = "twitter"
	ProviderGoogle   = "google"
)

// Identity represents a normalized external authentication identity
// returned by an OAuth provider. It contains facts only, no decisions.
type Identity struct {
	Provider       string // "facebook", "twitter" or "google"
	ProviderUserID string // provider-scoped unique user identifier

	// Email as claimed by the provider, or a synthesized address of the
	// form "{username}@{provider}.invalid" when the provider supplies
	// none (twitter never returns one).
	Email string

	AccessToken   string
	RefreshSecret string

	Profile user.Profile
}

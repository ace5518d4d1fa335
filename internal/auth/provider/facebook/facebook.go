package facebook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	oauth2fb "golang.org/x/oauth2/facebook"

	"github.com/rpmonteiro/hackathon-starter/internal/auth"
	"github.com/rpmonteiro/hackathon-starter/internal/logger"
	"github.com/rpmonteiro/hackathon-starter/internal/user"
)

const (
	providerName    = auth.ProviderFacebook
	defaultGraphURL = "https://graph.facebook.com"

	profileFields = "id,email,first_name,last_name,gender,location"
)

// Provider authenticates against Facebook and reads the user profile
// from the Graph API. It returns identity facts only.
type Provider struct {
	oauthConfig *oauth2.Config
	graphURL    string
}

func New(
	clientID string,
	clientSecret string,
	redirectURL string,
) (*Provider, error) {

	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, errors.New("facebook oauth config missing required fields")
	}

	oauthCfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     oauth2fb.Endpoint,
		Scopes: []string{
			"email",
			"public_profile",
		},
	}

	return &Provider{
		oauthConfig: oauthCfg,
		graphURL:    defaultGraphURL,
	}, nil
}

// Name returns the provider identifier used by the registry.
func (p *Provider) Name() string {
	return providerName
}

// AuthCodeURL builds the OAuth authorization URL with PKCE parameters.
func (p *Provider) AuthCodeURL(state string, codeChallenge string) string {
	return p.oauthConfig.AuthCodeURL(
		state,
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

type graphProfile struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Gender    string `json:"gender"`
	Location  struct {
		Name string `json:"name"`
	} `json:"location"`
}

func (p *Provider) ExchangeCode(
	ctx context.Context,
	code string,
	codeVerifier string,
) (*auth.Identity, error) {

	token, err := p.oauthConfig.Exchange(
		ctx,
		code,
		oauth2.SetAuthURLParam("code_verifier", codeVerifier),
	)
	if err != nil {
		return nil, fmt.Errorf("facebook token exchange failed: %w", err)
	}

	profile, err := p.fetchProfile(ctx, token)
	if err != nil {
		return nil, err
	}

	if profile.ID == "" {
		return nil, errors.New("facebook profile missing user id")
	}

	logger.Info("facebook profile fetched", map[string]any{
		"email_present": profile.Email != "",
	})

	identity := p.mapProfile(profile)
	identity.AccessToken = token.AccessToken
	return identity, nil
}

func (p *Provider) fetchProfile(ctx context.Context, token *oauth2.Token) (graphProfile, error) {
	client := p.oauthConfig.Client(ctx, token)

	url := fmt.Sprintf("%s/me?fields=%s", p.graphURL, profileFields)
	resp, err := client.Get(url)
	if err != nil {
		return graphProfile{}, fmt.Errorf("facebook profile fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return graphProfile{}, fmt.Errorf(
			"facebook profile fetch returned %d: %s", resp.StatusCode, body,
		)
	}

	var profile graphProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return graphProfile{}, fmt.Errorf("facebook profile decode failed: %w", err)
	}

	return profile, nil
}

// mapProfile normalizes a Graph API profile into an identity. Facebook
// may withhold the email; the identity then carries a synthesized
// address so account creation still has a unique key.
func (p *Provider) mapProfile(profile graphProfile) *auth.Identity {
	email := profile.Email
	if email == "" {
		email = fmt.Sprintf("%s@facebook.invalid", profile.ID)
	}

	name := strings.TrimSpace(profile.FirstName + " " + profile.LastName)

	return &auth.Identity{
		Provider:       providerName,
		ProviderUserID: profile.ID,
		Email:          email,
		Profile: user.Profile{
			Name:     name,
			Gender:   profile.Gender,
			Picture:  fmt.Sprintf("%s/%s/picture?type=large", p.graphURL, profile.ID),
			Location: profile.Location.Name,
		},
	}
}

package twitter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/rpmonteiro/hackathon-starter/internal/auth"
	"github.com/rpmonteiro/hackathon-starter/internal/logger"
	"github.com/rpmonteiro/hackathon-starter/internal/user"
)

const (
	providerName  = auth.ProviderTwitter
	defaultAPIURL = "https://api.twitter.com"
)

var endpoint = oauth2.Endpoint{
	AuthURL:  "https://twitter.com/i/oauth2/authorize",
	TokenURL: "https://api.twitter.com/2/oauth2/token",
}

// Provider authenticates against Twitter's OAuth2 flow. Twitter never
// returns an email address, so the identity carries a synthesized one
// derived from the username.
type Provider struct {
	oauthConfig *oauth2.Config
	apiURL      string
}

func New(
	clientID string,
	clientSecret string,
	redirectURL string,
) (*Provider, error) {

	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, errors.New("twitter oauth config missing required fields")
	}

	oauthCfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     endpoint,
		Scopes: []string{
			"tweet.read",
			"users.read",
			"offline.access",
		},
	}

	return &Provider{
		oauthConfig: oauthCfg,
		apiURL:      defaultAPIURL,
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

type twitterUser struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Username        string `json:"username"`
	Location        string `json:"location"`
	ProfileImageURL string `json:"profile_image_url"`
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
		return nil, fmt.Errorf("twitter token exchange failed: %w", err)
	}

	me, err := p.fetchUser(ctx, token)
	if err != nil {
		return nil, err
	}

	if me.ID == "" || me.Username == "" {
		return nil, errors.New("twitter user lookup missing required fields")
	}

	logger.Info("twitter user fetched", map[string]any{
		"username": me.Username,
	})

	identity := mapUser(me)
	identity.AccessToken = token.AccessToken
	identity.RefreshSecret = token.RefreshToken
	return identity, nil
}

func (p *Provider) fetchUser(ctx context.Context, token *oauth2.Token) (twitterUser, error) {
	client := p.oauthConfig.Client(ctx, token)

	url := p.apiURL + "/2/users/me?user.fields=location,profile_image_url"
	resp, err := client.Get(url)
	if err != nil {
		return twitterUser{}, fmt.Errorf("twitter user lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return twitterUser{}, fmt.Errorf(
			"twitter user lookup returned %d: %s", resp.StatusCode, body,
		)
	}

	var payload struct {
		Data twitterUser `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return twitterUser{}, fmt.Errorf("twitter user decode failed: %w", err)
	}

	return payload.Data, nil
}

// mapUser normalizes a twitter user into an identity. The username is
// unique on twitter, which makes the synthesized address a stable key.
func mapUser(me twitterUser) *auth.Identity {
	return &auth.Identity{
		Provider:       providerName,
		ProviderUserID: me.ID,
		Email:          fmt.Sprintf("%s@twitter.invalid", me.Username),
		Profile: user.Profile{
			Name:     me.Name,
			Picture:  me.ProfileImageURL,
			Location: me.Location,
		},
	}
}

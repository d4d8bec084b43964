package ambiclimate

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
)

const (
	authorizationEndpoint = "https://api.ambiclimate.com/oauth2/authorize"
	tokenEndpoint         = "https://api.ambiclimate.com/oauth2/token"
)

// Endpoint is the Ambi Climate OAuth2 endpoint for use with
// golang.org/x/oauth2.
var Endpoint = oauth2.Endpoint{
	AuthURL:  authorizationEndpoint,
	TokenURL: tokenEndpoint,
}

// OAuthConfig holds the configuration for the authorization-code flow the
// vendor uses to issue API tokens.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// Endpoint overrides the vendor endpoint. Mainly useful for tests.
	Endpoint *oauth2.Endpoint
}

func (cfg *OAuthConfig) oauth2Config() *oauth2.Config {
	endpoint := Endpoint
	if cfg.Endpoint != nil {
		endpoint = *cfg.Endpoint
	}
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint:     endpoint,
	}
}

// AuthorizationURL returns the URL to redirect users to for authorization.
func (cfg *OAuthConfig) AuthorizationURL(state string) string {
	return cfg.oauth2Config().AuthCodeURL(state)
}

// Exchange trades an authorization code for access and refresh tokens.
func (cfg *OAuthConfig) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	if code == "" {
		return nil, fmt.Errorf("ambiclimate: authorization code is required")
	}
	return cfg.oauth2Config().Exchange(ctx, code)
}

// TokenSource returns an auto-refreshing token source seeded with token.
func (cfg *OAuthConfig) TokenSource(ctx context.Context, token *oauth2.Token) oauth2.TokenSource {
	return cfg.oauth2Config().TokenSource(ctx, token)
}

// NewOAuthClient creates a client whose bearer token is resolved through an
// auto-refreshing token source seeded with token. Refreshed tokens can be
// persisted by wrapping the client construction with NewPersistingTokenSource
// and WithTokenSource instead.
func NewOAuthClient(ctx context.Context, cfg *OAuthConfig, token *oauth2.Token, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("ambiclimate: OAuth config is required")
	}
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("ambiclimate: client ID is required")
	}
	if cfg.ClientSecret == "" {
		return nil, fmt.Errorf("ambiclimate: client secret is required")
	}
	if token == nil || token.AccessToken == "" && token.RefreshToken == "" {
		return nil, ErrEmptyToken
	}

	source := oauth2.ReuseTokenSource(nil, cfg.TokenSource(ctx, token))

	c := newClient(append([]Option{WithTokenSource(source)}, opts...)...)
	return c, nil
}

// Package auth supplies the OAuth credential used for remote store
// calls.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/oauth2"
)

// Scopes required to create and edit the user's documents.
var Scopes = []string{
	"https://www.googleapis.com/auth/spreadsheets",
	"https://www.googleapis.com/auth/drive.file",
}

// googleEndpoint is the Google OAuth 2.0 endpoint.
var googleEndpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.google.com/o/oauth2/auth",
	TokenURL: "https://oauth2.googleapis.com/token",
}

// ErrNotSignedIn is returned when a token is requested before sign-in.
var ErrNotSignedIn = errors.New("not signed in")

// ChangeFunc observes sign-in state transitions.
type ChangeFunc func(signedIn bool)

// StaticProvider wraps a pre-issued access token. Used by tests and by
// environments that obtain a token out of band.
type StaticProvider struct {
	AccessToken string
}

func (p *StaticProvider) Token(ctx context.Context) (string, error) {
	if p.AccessToken == "" {
		return "", ErrNotSignedIn
	}
	return p.AccessToken, nil
}

func (p *StaticProvider) SignedIn() bool { return p.AccessToken != "" }

// OAuthProvider drives the authorization-code flow: the caller opens
// AuthURL in a browser and passes the resulting code to Exchange.
// Tokens refresh transparently afterwards.
type OAuthProvider struct {
	config *oauth2.Config

	mu       sync.Mutex
	source   oauth2.TokenSource
	onChange ChangeFunc
}

// NewOAuthProvider builds a provider for the given OAuth client.
func NewOAuthProvider(clientID, clientSecret, redirectURL string) *OAuthProvider {
	return &OAuthProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       Scopes,
			Endpoint:     googleEndpoint,
		},
	}
}

// OnChange registers the sign-in state callback.
func (p *OAuthProvider) OnChange(fn ChangeFunc) {
	p.mu.Lock()
	p.onChange = fn
	p.mu.Unlock()
}

// AuthURL returns the consent page URL to open in a browser.
func (p *OAuthProvider) AuthURL() string {
	return p.config.AuthCodeURL("state", oauth2.AccessTypeOffline)
}

// Exchange redeems an authorization code for a refreshable token.
func (p *OAuthProvider) Exchange(ctx context.Context, code string) error {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("Exchange: %w", err)
	}
	p.SetToken(token)
	return nil
}

// SetToken installs a token directly, e.g. one restored from storage.
func (p *OAuthProvider) SetToken(token *oauth2.Token) {
	p.mu.Lock()
	p.source = p.config.TokenSource(context.Background(), token)
	fn := p.onChange
	p.mu.Unlock()

	if fn != nil {
		fn(true)
	}
}

// SignOut drops the credential.
func (p *OAuthProvider) SignOut() {
	p.mu.Lock()
	p.source = nil
	fn := p.onChange
	p.mu.Unlock()

	if fn != nil {
		fn(false)
	}
}

func (p *OAuthProvider) SignedIn() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.source != nil
}

// Token returns a live access token, refreshing when expired.
func (p *OAuthProvider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	source := p.source
	p.mu.Unlock()
	if source == nil {
		return "", ErrNotSignedIn
	}

	token, err := source.Token()
	if err != nil {
		return "", fmt.Errorf("Token: %w", err)
	}
	return token.AccessToken, nil
}

package petfinder

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/samshap/dog-digest/app/digest"
)

// TokenSource performs the client-credentials exchange against the Petfinder
// OAuth endpoint. Tokens are requested fresh per run; nothing is cached
// across runs.
type TokenSource struct {
	conf       *clientcredentials.Config
	httpClient *http.Client
}

var _ digest.TokenSource = (*TokenSource)(nil)

func NewTokenSource(clientID, clientSecret, baseURL string) *TokenSource {
	return &TokenSource{
		conf: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     baseURL + "/oauth2/token",
		},
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

func (s *TokenSource) Token(ctx context.Context) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)

	tok, err := s.conf.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("token exchange failed: %w", err)
	}
	return tok.AccessToken, nil
}

package fitbit

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
)

// TokenPath is the token endpoint relative to the API base URL.
const TokenPath = "/oauth2/token"

// Refresher trades refresh tokens at the Fitbit token endpoint using httpClient.
type Refresher struct {
	config     *oauth2.Config
	httpClient *http.Client
}

// NewRefresher returns a Refresher posting to tokenURL with HTTP Basic client credentials.
func NewRefresher(clientID, clientSecret, tokenURL string, httpClient *http.Client) *Refresher {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Refresher{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
			Scopes: Scopes,
		},
		httpClient: httpClient,
	}
}

// RefreshToken returns a new token pair. The old refresh token is invalid once this succeeds.
func (r *Refresher) RefreshToken(refreshToken string) (*oauth2.Token, error) {
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, r.httpClient)
	return r.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
}

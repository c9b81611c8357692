package fitbit

import (
	"net/http"

	"github.com/markbates/goth"
	gothfitbit "github.com/markbates/goth/providers/fitbit"
)

// ProviderName is the goth provider name used in gothic's provider query parameter.
const ProviderName = "fitbit"

// Scopes requested on every authorization.
var Scopes = []string{
	"activity", "heartrate", "location", "nutrition", "profile",
	"settings", "sleep", "social", "weight",
}

// NewProvider returns the goth Fitbit provider used for the authorization code flow.
// The callback URL must match the redirect URI registered with Fitbit.
func NewProvider(clientID, clientSecret, callbackURL string, httpClient *http.Client) *gothfitbit.Provider {
	p := gothfitbit.New(clientID, clientSecret, callbackURL, Scopes...)
	p.HTTPClient = httpClient
	return p
}

// AuthorizeURL builds the vendor authorization URL for state and returns it with the
// pending session that has to be kept until the callback. It has no side effects.
func AuthorizeURL(p goth.Provider, state string) (string, goth.Session, error) {
	sess, err := p.BeginAuth(state)
	if err != nil {
		return "", nil, err
	}
	u, err := sess.GetAuthURL()
	if err != nil {
		return "", nil, err
	}
	return u, sess, nil
}

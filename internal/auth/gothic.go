package auth

import (
	"net/http"

	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"

	"fitexport/internal/fitbit"
)

// GothicAuthenticator is the real implementation of the Authenticator interface.
// The provider is taken from the request's "provider" query parameter.
type GothicAuthenticator struct{}

// NewGothicAuthenticator creates a new GothicAuthenticator.
func NewGothicAuthenticator() *GothicAuthenticator {
	return &GothicAuthenticator{}
}

// BeginAuth stores a fresh state in the gothic session and returns the provider's authorize URL.
func (a *GothicAuthenticator) BeginAuth(w http.ResponseWriter, r *http.Request) (string, error) {
	name, err := gothic.GetProviderName(r)
	if err != nil {
		return "", err
	}
	p, err := goth.GetProvider(name)
	if err != nil {
		return "", err
	}

	u, sess, err := fitbit.AuthorizeURL(p, gothic.SetState(r))
	if err != nil {
		return "", err
	}
	if err := gothic.StoreInSession(name, sess.Marshal(), r, w); err != nil {
		return "", err
	}
	return u, nil
}

// CompleteUserAuth validates state and exchanges the code via gothic.CompleteUserAuth.
func (a *GothicAuthenticator) CompleteUserAuth(w http.ResponseWriter, r *http.Request) (goth.User, error) {
	return gothic.CompleteUserAuth(w, r)
}

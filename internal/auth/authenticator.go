package auth

import (
	"net/http"

	"github.com/markbates/goth"
	"golang.org/x/oauth2"
)

// Authenticator starts and completes the OAuth2 authorization code flow.
type Authenticator interface {
	BeginAuth(w http.ResponseWriter, r *http.Request) (string, error)
	CompleteUserAuth(w http.ResponseWriter, r *http.Request) (goth.User, error)
}

// TokenRefresher exchanges a refresh token for a new token pair. goth.Provider satisfies it.
type TokenRefresher interface {
	RefreshToken(refreshToken string) (*oauth2.Token, error)
}

package auth

import (
	"net/http"

	"github.com/antonlindstrom/pgstore"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/markbates/goth/gothic"
)

// sessionMaxAge only has to cover the round trip to the Fitbit consent page.
const sessionMaxAge = 10 * 60

func sessionOptions(secure bool) *sessions.Options {
	return &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// NewStore returns a Postgres backed session store for the OAuth state.
func NewStore(dbURL, secret string, secure bool) (*pgstore.PGStore, error) {
	store, err := pgstore.NewPGStore(dbURL, sessionKey(secret))
	if err != nil {
		return nil, err
	}
	store.Options = sessionOptions(secure)
	return store, nil
}

// NewCookieStore returns a cookie session store. An empty secret gets a random
// per-process key, which only invalidates authorizations in flight on restart.
func NewCookieStore(secret string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore(sessionKey(secret))
	store.Options = sessionOptions(secure)
	return store
}

func sessionKey(secret string) []byte {
	if secret == "" {
		return securecookie.GenerateRandomKey(32)
	}
	return []byte(secret)
}

// UseStore makes gothic keep its state in store.
func UseStore(store sessions.Store) {
	gothic.Store = store
}

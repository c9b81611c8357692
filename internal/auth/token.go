package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"fitexport/internal/database"
	"fitexport/internal/model"
)

var (
	ErrExchangeFailed = errors.New("authorization code exchange failed")
	ErrRefreshFailed  = errors.New("token refresh failed")
)

// CompleteAuthorization exchanges the callback's code and persists the user's refresh token.
// It is the only way a new user enters the store. A failed profile fetch after a successful
// exchange still leaves a usable grant, so it is kept.
func CompleteAuthorization(w http.ResponseWriter, r *http.Request, a Authenticator, store database.TokenStore) (*model.Grant, error) {
	u, err := a.CompleteUserAuth(w, r)
	if u.UserID == "" || u.RefreshToken == "" {
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrExchangeFailed, err)
		}
		return nil, fmt.Errorf("%w: grant is missing user id or refresh token", ErrExchangeFailed)
	}

	// The code is spent once the exchange succeeded.
	if err := store.Put(context.WithoutCancel(r.Context()), u.UserID, u.RefreshToken); err != nil {
		return nil, fmt.Errorf("persist refresh token for %s: %w", u.UserID, err)
	}

	return &model.Grant{
		UserID:       u.UserID,
		AccessToken:  u.AccessToken,
		RefreshToken: u.RefreshToken,
		Expiry:       u.ExpiresAt,
	}, nil
}

// RefreshToken trades refreshToken for a new grant and persists the rotated refresh token
// before returning. Fitbit refresh tokens are single use, so losing the new one locks the user out.
func RefreshToken(ctx context.Context, userID, refreshToken string, p TokenRefresher, store database.TokenStore) (*model.Grant, error) {
	n, err := p.RefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}

	g := &model.Grant{
		UserID:       userID,
		AccessToken:  n.AccessToken,
		RefreshToken: n.RefreshToken,
		Expiry:       n.Expiry,
	}
	if g.RefreshToken == "" {
		g.RefreshToken = refreshToken
		return g, nil
	}

	// The vendor has already consumed refreshToken, whatever happened to ctx meanwhile.
	if err := store.Put(context.WithoutCancel(ctx), userID, g.RefreshToken); err != nil {
		return nil, fmt.Errorf("persist refresh token for %s: %w", userID, err)
	}
	return g, nil
}

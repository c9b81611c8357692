package model

import "time"

// Grant is the result of a code exchange or token refresh. Only RefreshToken outlives the request.
type Grant struct {
	UserID       string
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
}

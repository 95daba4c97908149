package session

import "errors"

var (
	ErrNoToken      = errors.New("not authenticated: no token")
	ErrTokenExpired = errors.New("session expired, please sign in again")
	ErrNoUser       = errors.New("no cached user profile")
)

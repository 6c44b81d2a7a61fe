package models

import "time"

// User is the cached identity of the signed-in customer.
type User struct {
	ID              string
	Name            string
	Email           string
	IsEmailVerified bool
	Avatar          string
}

// Token is a bearer token with its server-reported expiry.
// Expires is kept as the raw ISO-8601 string; the session store parses it.
type Token struct {
	Token   string
	Expires string
}

// TokenPair is what login, register and refresh return.
type TokenPair struct {
	Access  Token
	Refresh Token
}

// Session is the persisted authentication state.
type Session struct {
	Tokens TokenPair
	User   User
}

// AccessTokenExpiry parses Tokens.Access.Expires. ok is false when the value
// is missing or malformed.
func (s Session) AccessTokenExpiry() (t time.Time, ok bool) {
	return ParseExpiry(s.Tokens.Access.Expires)
}

// ParseExpiry parses an ISO-8601 timestamp such as 2025-01-02T03:04:05.678Z.
func ParseExpiry(v string) (time.Time, bool) {
	if v == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

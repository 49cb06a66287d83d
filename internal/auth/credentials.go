// Package auth resolves the caller behind a request from its session cookie or
// bearer token.
package auth

import (
	"net/http"
	"strings"
)

// Session cookie names, kept compatible with the browser client.
const (
	AccessCookie  = "sb-access-token"
	RefreshCookie = "sb-refresh-token"
)

// Credentials carry whatever the caller presented. They are extracted once at
// the HTTP edge and passed explicitly to authorization.
type Credentials struct {
	AccessToken  string
	RefreshToken string
}

// Empty reports whether no access token was presented.
func (c Credentials) Empty() bool {
	return c.AccessToken == ""
}

// FromRequest extracts credentials from the session cookies, falling back to an
// Authorization bearer header.
func FromRequest(r *http.Request, codec *CookieCodec) Credentials {
	var creds Credentials
	if codec != nil {
		if ck, err := r.Cookie(AccessCookie); err == nil {
			if v, err := codec.Decode(AccessCookie, ck.Value); err == nil {
				creds.AccessToken = v
			}
		}
		if ck, err := r.Cookie(RefreshCookie); err == nil {
			if v, err := codec.Decode(RefreshCookie, ck.Value); err == nil {
				creds.RefreshToken = v
			}
		}
	}
	if creds.AccessToken == "" {
		header := r.Header.Get("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			creds.AccessToken = strings.TrimSpace(parts[1])
		}
	}
	return creds
}

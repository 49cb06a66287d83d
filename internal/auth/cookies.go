package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
)

// Cookie lifetimes.
const (
	AccessCookieTTL  = 7 * 24 * time.Hour
	RefreshCookieTTL = 30 * 24 * time.Hour
)

// CookieCodec signs (and optionally encrypts) session cookie values.
type CookieCodec struct {
	sc     *securecookie.SecureCookie
	secure bool
}

// NewCookieCodec builds a codec. hashKey is required; blockKey enables
// encryption when it is 16, 24 or 32 bytes long.
func NewCookieCodec(hashKey, blockKey string, secure bool) (*CookieCodec, error) {
	if len(hashKey) < 32 {
		return nil, fmt.Errorf("session hash key must be at least 32 bytes")
	}
	var block []byte
	if blockKey != "" {
		switch len(blockKey) {
		case 16, 24, 32:
			block = []byte(blockKey)
		default:
			return nil, fmt.Errorf("session block key must be 16, 24 or 32 bytes")
		}
	}
	sc := securecookie.New([]byte(hashKey), block)
	sc.MaxAge(int(RefreshCookieTTL.Seconds()))
	return &CookieCodec{sc: sc, secure: secure}, nil
}

// Encode signs value for the named cookie.
func (c *CookieCodec) Encode(name, value string) (string, error) {
	return c.sc.Encode(name, value)
}

// Decode verifies a cookie value and returns the plain token.
func (c *CookieCodec) Decode(name, raw string) (string, error) {
	var value string
	if err := c.sc.Decode(name, raw, &value); err != nil {
		return "", err
	}
	return value, nil
}

// SetSession writes the HTTP-only session cookies.
func (c *CookieCodec) SetSession(w http.ResponseWriter, accessToken, refreshToken string) error {
	if err := c.set(w, AccessCookie, accessToken, AccessCookieTTL); err != nil {
		return err
	}
	if refreshToken == "" {
		return nil
	}
	return c.set(w, RefreshCookie, refreshToken, RefreshCookieTTL)
}

// ClearSession expires both session cookies.
func (c *CookieCodec) ClearSession(w http.ResponseWriter) {
	for _, name := range []string{AccessCookie, RefreshCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			Expires:  time.Unix(0, 0),
			HttpOnly: true,
			Secure:   c.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

func (c *CookieCodec) set(w http.ResponseWriter, name, value string, ttl time.Duration) error {
	encoded, err := c.Encode(name, value)
	if err != nil {
		return fmt.Errorf("encode %s cookie: %w", name, err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

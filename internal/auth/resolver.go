package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/class-admin/internal/models"
)

// ErrInvalidSession is returned when the presented token does not resolve to a
// user.
var ErrInvalidSession = errors.New("invalid session")

// Resolver turns an access token into the caller's identity.
type Resolver interface {
	Resolve(ctx context.Context, accessToken string) (*models.Identity, error)
}

// SessionClaims are the claims the auth service puts in its access tokens.
type SessionClaims struct {
	Email        string                 `json:"email"`
	Role         string                 `json:"role"`
	AppMetadata  map[string]interface{} `json:"app_metadata"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	jwt.RegisteredClaims
}

// JWTResolver verifies HS256 access tokens locally with the shared secret.
type JWTResolver struct {
	secret []byte
}

// NewJWTResolver builds a resolver for tokens signed with secret.
func NewJWTResolver(secret string) *JWTResolver {
	return &JWTResolver{secret: []byte(secret)}
}

// Resolve implements Resolver.
func (r *JWTResolver) Resolve(_ context.Context, accessToken string) (*models.Identity, error) {
	if accessToken == "" {
		return nil, ErrInvalidSession
	}
	token, err := jwt.ParseWithClaims(accessToken, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return r.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidSession
	}
	return &models.Identity{
		ID:           claims.Subject,
		Email:        claims.Email,
		Role:         claims.Role,
		AppMetadata:  claims.AppMetadata,
		UserMetadata: claims.UserMetadata,
	}, nil
}

// RemoteResolver asks the auth server who owns the token.
type RemoteResolver struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewRemoteResolver builds a resolver calling {baseURL}/auth/v1/user.
func NewRemoteResolver(baseURL, apiKey string, client *http.Client) *RemoteResolver {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &RemoteResolver{baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, client: client}
}

// Resolve implements Resolver.
func (r *RemoteResolver) Resolve(ctx context.Context, accessToken string) (*models.Identity, error) {
	if accessToken == "" {
		return nil, ErrInvalidSession
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("build user request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("apikey", r.apiKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrInvalidSession
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch user: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var identity models.Identity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	if identity.ID == "" {
		return nil, ErrInvalidSession
	}
	return &identity, nil
}

package models

// Identity is the caller as resolved by the external auth service.
type Identity struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email,omitempty"`
	Role         string                 `json:"role,omitempty"`
	AppMetadata  map[string]interface{} `json:"app_metadata,omitempty"`
	UserMetadata map[string]interface{} `json:"user_metadata,omitempty"`
}

// AdminUser is returned once a caller passed both authentication and the
// admin membership check.
type AdminUser struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// Admin is a row of the admins table.
type Admin struct {
	UserID string `db:"user_id" json:"user_id"`
}

// Session mirrors the token pair a browser client receives from the auth
// service.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
}

// Auth events forwarded by the browser client.
const (
	AuthEventSignedIn       = "SIGNED_IN"
	AuthEventTokenRefreshed = "TOKEN_REFRESHED"
	AuthEventSignedOut      = "SIGNED_OUT"
)

// SessionSyncRequest is the payload of the session-sync endpoint.
type SessionSyncRequest struct {
	Event   string   `json:"event"`
	Session *Session `json:"session"`
}

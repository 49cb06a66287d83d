package models

import "time"

// StatusSnapshot is the payload of the status endpoint.
type StatusSnapshot struct {
	DB           DBStatus      `json:"db"`
	Auth         AuthStatus    `json:"auth"`
	Counts       StatusCounts  `json:"counts"`
	LastUpdate   LastUpdate    `json:"lastUpdate"`
	RecentErrors []RecentError `json:"recentErrors"`
	HasURL       bool          `json:"hasUrl"`
	HasKey       bool          `json:"hasKey"`
	Env          EnvStatus     `json:"env"`
	GeneratedAt  time.Time     `json:"generatedAt"`
}

type DBStatus struct {
	OK        bool  `json:"ok"`
	LatencyMs int64 `json:"latencyMs"`
}

type AuthStatus struct {
	OK      bool    `json:"ok"`
	Authed  bool    `json:"authed"`
	UserID  *string `json:"userId"`
	IsAdmin bool    `json:"isAdmin"`
}

type StatusCounts struct {
	Classes  int `json:"classes"`
	Sections int `json:"sections"`
	Errors   int `json:"errors"`
}

type LastUpdate struct {
	Classes  *time.Time `json:"classes"`
	Sections *time.Time `json:"sections"`
}

// EnvStatus reports which settings are present, never their values.
type EnvStatus struct {
	Env              string `json:"env"`
	HasSupabaseURL   bool   `json:"hasSupabaseUrl"`
	HasSupabaseAnon  bool   `json:"hasSupabaseAnon"`
	HasServiceRole   bool   `json:"hasServiceRole"`
	HasJWTSecret     bool   `json:"hasJwtSecret"`
	HasSiteURL       bool   `json:"hasSiteUrl"`
	HasAdminEmails   bool   `json:"hasAdminEmails"`
	DevAdminAllowAll bool   `json:"devAdminAllowAll"`
	SupabaseEnvOK    bool   `json:"supabaseEnvOk"`
}

// EdgeInfo describes the caller as seen through proxy headers.
type EdgeInfo struct {
	IP          string `json:"ip"`
	Location    string `json:"location"`
	City        string `json:"city"`
	Region      string `json:"region"`
	CountryCode string `json:"countryCode"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Secure      bool   `json:"secure"`
}

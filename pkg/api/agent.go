package api

import "time"

// Local agent endpoints. Everything else is proxied to the upstream.
const (
	AgentPathStatus  = "/_courtside/status"
	AgentPathWS      = "/_courtside/ws"
	AgentPathControl = "/_courtside/control"
	AgentPathSync    = "/_courtside/sync"
	AgentPathQueue   = "/_courtside/queue"
	AgentPathAuth    = "/_courtside/auth"
	AgentPathVersion = "/_courtside/version"
)

// SessionInfo describes the stored bearer session without the token itself
type SessionInfo struct {
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	Subject       string     `json:"subject,omitempty"`
	Authenticated bool       `json:"authenticated"`
	Expired       bool       `json:"expired"`
}

// VersionResponse описывает версию агента
type VersionResponse struct {
	Version   string `json:"version"`
	BuildDate string `json:"build_date"`
	GitCommit string `json:"git_commit"`
}

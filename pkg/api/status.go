package api

import "time"

// FailedAction describes a terminally failed queued write
type FailedAction struct {
	FailedAt     *time.Time `json:"failed_at,omitempty"`
	ID           string     `json:"id"`
	Method       string     `json:"method"`
	ResourcePath string     `json:"resource_path"`
	Error        string     `json:"error"`
}

// StatusResponse is the status surface served by the agent
type StatusResponse struct {
	LastSyncAt      *time.Time     `json:"last_sync_at,omitempty"`
	NextAttemptAt   *time.Time     `json:"next_attempt_at,omitempty"`
	LastError       string         `json:"last_error,omitempty"`
	CacheGeneration string         `json:"cache_generation,omitempty"`
	Failed          []FailedAction `json:"failed"`
	PendingCount    int            `json:"pending_count"`
	IsSyncing       bool           `json:"is_syncing"`
	AuthPaused      bool           `json:"auth_paused"`
	Online          bool           `json:"online"`
}

// QueueItem is one queued action as listed by the agent
type QueueItem struct {
	EnqueuedAt        time.Time  `json:"enqueued_at"`
	SyncedAt          *time.Time `json:"synced_at,omitempty"`
	ID                string     `json:"id"`
	Method            string     `json:"method"`
	ResourcePath      string     `json:"resource_path"`
	Status            string     `json:"status"`
	DependsOnActionID string     `json:"depends_on_action_id,omitempty"`
	ServerID          string     `json:"server_id,omitempty"`
	LastError         string     `json:"last_error,omitempty"`
	RetryCount        int        `json:"retry_count"`
}

// SyncResult summarises one drain cycle
type SyncResult struct {
	Trigger   string `json:"trigger"`
	Error     string `json:"error,omitempty"`
	Attempted int    `json:"attempted"`
	Synced    int    `json:"synced"`
	Failed    int    `json:"failed"`
	Purged    int    `json:"purged"`
	Skipped   bool   `json:"skipped"` // цикл не запускался (single-flight, debounce, пауза)
	Stopped   bool   `json:"stopped"` // цикл остановлен временной ошибкой
}

package api

import (
	"encoding/json"
	"time"
)

// Message types exchanged between the agent and connected pages
const (
	MessageActivateVersion   = "activate-version"
	MessageClearCaches       = "clear-caches"
	MessageSyncCycleStarting = "sync-cycle-starting"
	MessageSyncCycleFinished = "sync-cycle-finished"
	MessageVersionActivated  = "version-activated"
	MessageCachesCleared     = "caches-cleared"
	MessageError             = "error"
)

// Message is the envelope of the page protocol
type Message struct {
	Timestamp time.Time       `json:"timestamp"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewMessage builds an envelope with data encoded as JSON
func NewMessage(msgType string, data any) (Message, error) {
	msg := Message{Type: msgType, Timestamp: time.Now().UTC()}
	if data == nil {
		return msg, nil
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return Message{}, err
	}
	msg.Data = raw
	return msg, nil
}

// ActivateVersionData is the payload of activate-version and version-activated
type ActivateVersionData struct {
	Version string `json:"version"`
}

// SyncCycleStartingData is the payload of sync-cycle-starting
type SyncCycleStartingData struct {
	Trigger string `json:"trigger"`
}

// ErrorData is the payload of an error reply
type ErrorData struct {
	Message string `json:"message"`
}

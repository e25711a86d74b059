package domain

import (
	"encoding/json"
	"time"
)

// MessageType identifies a foreground broadcast message.
type MessageType string

const (
	// MessageOfflineSave asks foreground contexts to queue a suppressed
	// write for later replay.
	MessageOfflineSave MessageType = "OFFLINE_SAVE"
	// MessageSyncStart signals foreground contexts to begin replaying
	// queued writes.
	MessageSyncStart MessageType = "SYNC_START"
)

// OfflineSave captures a write request that was intercepted while offline.
type OfflineSave struct {
	URL       string          `json:"url"`
	Method    string          `json:"method"`
	Body      json.RawMessage `json:"body,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Message is the envelope of the foreground message protocol.
type Message struct {
	Type MessageType  `json:"type"`
	Data *OfflineSave `json:"data,omitempty"`
}

// PushPayload is an incoming push notification.
type PushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Tag   string `json:"tag"`
	URL   string `json:"url"`
}

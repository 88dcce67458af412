package chat

import "time"

// Session captures one independent conversation with the assistant.
// Sessions are addressed by their position in the manager's ordered list.
type Session struct {
	Index     int       `json:"index"`
	CreatedAt time.Time `json:"createdAt"`
}

// Summary is the sidebar view of a session: its index plus a short
// preview of the most recent message.
type Summary struct {
	Index        int    `json:"index"`
	Preview      string `json:"preview"`
	MessageCount int    `json:"messageCount"`
}

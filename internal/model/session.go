package model

import "time"

// AppID uniquely identifies a title on the Steam platform
type AppID uint32

// GameSession represents one title currently reported as being played
type GameSession struct {
	AppID     AppID
	Name      string
	StartedAt time.Time
}

// GameInfo is a display snapshot of a running game session
type GameInfo struct {
	ID        AppID  `json:"id"`
	Name      string `json:"name"`
	StartedAt string `json:"started_at"`
	Elapsed   string `json:"elapsed"`
}

// SessionInfo is a display snapshot of the platform session
type SessionInfo struct {
	Connected    bool   `json:"connected"`
	Username     string `json:"username,omitempty"`
	SteamID      uint64 `json:"steam_id,omitempty"`
	GamesRunning int    `json:"games_running"`
}

// Status returns the human-readable connection state
func (s SessionInfo) Status() string {
	if s.Connected {
		return "online"
	}
	return "offline"
}

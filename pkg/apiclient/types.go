package apiclient

import "time"

// Schedule is a recurring meditation reminder.
type Schedule struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Title           string    `json:"title"`
	Time            string    `json:"time"` // "HH:MM", user-local
	Days            []string  `json:"days"`
	DurationMinutes int       `json:"duration_minutes"`
	Enabled         bool      `json:"enabled"`
	CreatedAt       time.Time `json:"created_at"`
}

// Session is one completed or in-progress meditation sitting.
type Session struct {
	ID              string     `json:"id"`
	ScheduleID      string     `json:"schedule_id"`
	UserID          string     `json:"user_id"`
	StartedAt       time.Time  `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	DurationSeconds int        `json:"duration_seconds"`
}

// Conversation is a chat thread between a user and the guide.
type Conversation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message is one turn in a conversation.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           string    `json:"role"` // "user" or "assistant"
	Content        string    `json:"content"`
	AudioURL       string    `json:"audio_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Profile is the user-facing account record.
type Profile struct {
	ID          string            `json:"id"`
	DisplayName string            `json:"display_name"`
	AvatarURL   string            `json:"avatar_url,omitempty"`
	Preferences map[string]string `json:"preferences,omitempty"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// HealthStatus is the backend's self-reported health.
type HealthStatus struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

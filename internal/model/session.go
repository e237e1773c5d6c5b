package model

import "time"

const (
	DefaultQuotaLimit  = 2
	DefaultQuotaWindow = 30 * time.Minute
)

// Quota is the recommendation usage window. Used never exceeds Limit.
type Quota struct {
	WindowStart *time.Time    `json:"window_start,omitempty"`
	Used        int           `json:"used"`
	Limit       int           `json:"limit"`
	Window      time.Duration `json:"window"`
}

// NewQuota returns an empty quota with the default limit and window.
func NewQuota() Quota {
	return Quota{Limit: DefaultQuotaLimit, Window: DefaultQuotaWindow}
}

// NotificationType classifies a feed item.
type NotificationType string

const (
	NotifySchedule  NotificationType = "schedule"
	NotifySystem    NotificationType = "system"
	NotifyGPSVerify NotificationType = "gps_verify"
)

// Notification is a feed item.
type Notification struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}

// Mobility is how the candidate moves between visits.
type Mobility string

// ValidMobility are the allowed mobility values.
var ValidMobility = map[Mobility]bool{
	"car":    true,
	"pickup": true,
	"bike":   true,
	"walk":   true,
}

// Settings are the session-scoped presentation preferences.
type Settings struct {
	FontScale float64  `json:"font_scale"`
	DarkMode  bool     `json:"dark_mode"`
	Mobility  Mobility `json:"mobility"`
}

package models

// Preferences is the free-form per-user settings bag (JSONB column).
// Values arrive untyped from the database driver.
type Preferences map[string]any

// User carries the resolution context for reports and reminder delivery:
// language, timezone, the external chat channel id and the preference bag.
type User struct {
	ID          int64       `json:"id"`
	TelegramID  *int64      `json:"telegram_id,omitempty"`
	FirstName   string      `json:"first_name,omitempty"`
	LastName    string      `json:"last_name,omitempty"`
	Username    string      `json:"username,omitempty"`
	Language    string      `json:"language,omitempty"`
	Timezone    string      `json:"timezone,omitempty"`
	Preferences Preferences `json:"preferences,omitempty"`
}

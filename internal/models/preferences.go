package models

const (
	ClockModeAnalog  = "analog"
	ClockModeDigital = "digital"

	ThemeLight = "light"
	ThemeDark  = "dark"

	PermissionGranted = "granted"
	PermissionDenied  = "denied"
	PermissionDefault = "default"
)

// Preferences groups the small UI settings persisted one key each.
type Preferences struct {
	ClockMode              string `json:"clockMode"`
	Theme                  string `json:"theme"`
	OnboardingDismissed    bool   `json:"onboardingDismissed"`
	NotificationPermission string `json:"notificationPermission"`
}

// ClockFace is the current local time as the clock widget shows it.
type ClockFace struct {
	Hours   int       `json:"hours"`
	Minutes int       `json:"minutes"`
	Seconds int       `json:"seconds"`
	Date    Timestamp `json:"date"`
	Mode    string    `json:"mode"`
	Display string    `json:"display"`
}

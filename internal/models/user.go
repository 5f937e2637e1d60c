package models

// Owner is the single local account allowed to drive the widget.
type Owner struct {
	ID           int    `json:"id"`
	PasswordHash string `json:"-"` // don’t expose hash
}

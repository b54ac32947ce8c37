package models

import "time"

// AccessToken is an opaque bearer token. Only the sha256 of the plaintext is
// stored; the plaintext is returned once at login and never persisted
// server-side. Logout deletes the row, which revokes the token immediately.
type AccessToken struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	Name       string     `gorm:"not null" json:"name"`
	TokenHash  string     `gorm:"uniqueIndex;not null" json:"-"`
	LastUsedAt *time.Time `json:"last_used_at"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

package models

import "time"

// CellarItem is one user's holding of a bottle+vintage. Stock never goes
// below zero: decrements clamp instead of failing.
type CellarItem struct {
	ID                  uint         `gorm:"primaryKey" json:"id"`
	UserID              uint         `gorm:"not null;index" json:"user_id"`
	BottleID            uint         `gorm:"not null" json:"bottle_id"`
	VintageID           uint         `gorm:"not null" json:"vintage_id"`
	AppellationID       *uint        `json:"appellation_id"`
	Stock               int          `gorm:"not null;default:0" json:"stock"`
	Rating              *float64     `json:"rating"`
	Price               *float64     `json:"price"`
	Shop                *string      `json:"shop"`
	OfferedBy           *string      `json:"offered_by"`
	DrinkingWindowStart *int         `json:"drinking_window_start"`
	DrinkingWindowEnd   *int         `json:"drinking_window_end"`
	Bottle              *Bottle      `json:"bottle,omitempty"`
	Vintage             *Vintage     `json:"vintage,omitempty"`
	Appellation         *Appellation `json:"appellation,omitempty"`
	Comments            []Comment    `json:"comments,omitempty"`
	CreatedAt           time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

// ColourStock is one row of the stock-by-colour aggregate.
type ColourStock struct {
	Colour string `json:"colour"`
	Stock  int    `json:"stock"`
}

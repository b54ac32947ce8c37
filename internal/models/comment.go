package models

import "time"

// Comment is a tasting note attached to a cellar item.
type Comment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CellarItemID uint      `gorm:"not null;index" json:"cellar_item_id"`
	Date         time.Time `gorm:"not null" json:"date"`
	Content      string    `gorm:"not null" json:"content"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

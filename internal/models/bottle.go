package models

import "time"

type Bottle struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"not null;uniqueIndex:idx_bottle_natural" json:"name"`
	WineDomainID *uint          `gorm:"uniqueIndex:idx_bottle_natural" json:"wine_domain_id"`
	ColourID     uint           `gorm:"not null;uniqueIndex:idx_bottle_natural" json:"colour_id"`
	RegionID     uint           `gorm:"not null;uniqueIndex:idx_bottle_natural" json:"region_id"`
	WineDomain   *WineDomain    `json:"wine_domain,omitempty"`
	Colour       *Colour        `json:"colour,omitempty"`
	Region       *Region        `json:"region,omitempty"`
	GrapeVarieties []GrapeVariety `gorm:"many2many:bottle_grape_varieties" json:"grape_varieties,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

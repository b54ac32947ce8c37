package models

// Reference entities are uniquely identified by their natural key and are
// only ever written through find-or-create, so the unique indexes below are
// the source of truth for deduplication.

type Colour struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

type Region struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

// WineDomain is the producing estate ("domaine").
type WineDomain struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

type Appellation struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

type GrapeVariety struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

type Vintage struct {
	ID   uint `gorm:"primaryKey" json:"id"`
	Year int  `gorm:"uniqueIndex;not null" json:"year"`
}

package model

import "time"

// MaxNameLength is the longest teacher name, in characters.
const MaxNameLength = 100

// Teacher is a registered teacher. PhotoPath is relative to the upload root
// and always uses forward slashes, e.g. "Boa Vista/12345678901.jpg".
type Teacher struct {
	ID         int64     `gorm:"primaryKey"`
	Name       string    `gorm:"size:100;not null"`
	NationalID string    `gorm:"column:national_id;size:11;uniqueIndex;not null"`
	SchoolID   int       `gorm:"not null"`
	PhotoPath  string    `gorm:"size:255;not null"`
	CreatedAt  time.Time `gorm:"not null"`
}

package model

import (
	"time"
)

// Enrollment records one successful "member added to collection" provisioning,
// keyed by the order that triggered it.
type Enrollment struct {
	ID           uint   `gorm:"primarykey"`
	OrderID      string `gorm:"size:64;index;not null"`
	ProductID    uint   `gorm:"not null"`
	CollectionID int64  `gorm:"not null"`
	MemberID     int64  `gorm:"not null"`
	Email        string `gorm:"size:255;not null"`
	CreatedAt    time.Time
}

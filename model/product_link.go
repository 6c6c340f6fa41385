package model

import (
	"time"
)

// ProductLink maps a store product to the Intuto collection it sells.
// A CollectionID of 0 means the product is not an Intuto product.
type ProductLink struct {
	ID           uint   `gorm:"primarykey,autoIncrement"`
	ProductID    uint   `gorm:"uniqueIndex;not null"`
	CollectionID int64  `gorm:"default:0"`
	ProductName  string `gorm:"size:255"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

package models

import (
	"strconv"
	"time"
)

// BaseModel defines the common fields for all models: an auto-incrementing
// ID and CreatedAt/UpdatedAt timestamps maintained by GORM.
// Post and Comment carry an explicit IsDeleted flag instead of gorm soft
// deletes so that count queries can filter on it directly.
type BaseModel struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IDString returns the ID as a string.
func (b *BaseModel) IDString() string {
	return strconv.FormatUint(uint64(b.ID), 10)
}

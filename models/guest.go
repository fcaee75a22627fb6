package models

import (
	"time"
)

type Guest struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name       string `json:"name"`
	Phone      string `gorm:"size:32" json:"phone,omitempty"`
	ExtraPhone string `gorm:"column:extra_phone;size:32" json:"extra_phone,omitempty"`
	Email      string `gorm:"size:150" json:"email,omitempty"`
	Notes      string `gorm:"type:text" json:"notes,omitempty"`
	BirthDate  string `gorm:"column:birth_date;size:10" json:"birth_date,omitempty"`
	Photo      string `gorm:"size:255" json:"photo,omitempty"`

	// Populated for list responses, not persisted.
	BookingCount int  `gorm:"-" json:"bookingCount"`
	Blacklisted  bool `gorm:"-" json:"blacklisted"`
}

type GuestComment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GuestID   uint      `gorm:"index;column:guest_id" json:"guest_id"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

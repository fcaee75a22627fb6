package models

import (
	"gorm.io/gorm"
)

// Room is a rental unit. RoomNumber is the display name shown in listings
// and on the calendar and must stay unique.
type Room struct {
	gorm.Model

	RoomNumber         string `json:"roomNumber" gorm:"column:room_number;uniqueIndex;type:varchar(50)"`
	ListingURL         string `json:"listingUrl" gorm:"column:listing_url;size:255"`
	ResidentialComplex string `json:"residentialComplex" gorm:"column:residential_complex;size:100;index"`
}

// RoomStatus is a manual per-day override. It wins over any booking-derived
// status when the calendar grid is rendered.
type RoomStatus struct {
	RoomID uint   `gorm:"primaryKey;autoIncrement:false;column:room_id" json:"room_id"`
	Date   string `gorm:"primaryKey;size:10" json:"date"`
	Status string `gorm:"size:32" json:"status"`
}

func (RoomStatus) TableName() string {
	return "room_statuses"
}

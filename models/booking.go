package models

import (
	"time"
)

// Occupancy states shown on the calendar grid.
const (
	StatusOccupied = "occupied"
	StatusVacant   = "vacant"
	StatusBooked   = "booked"
	StatusReady    = "ready"
	StatusCleaning = "cleaning"
	StatusHourly   = "hourly"
)

// Deposit states. Stored separately from the occupancy status; the old
// schema kept both in a single overloaded column.
const (
	DepositPaid     = "paid"
	DepositWithheld = "withheld"
	DepositReturned = "returned"
)

// IsOccupancyStatus reports whether s is one of the six calendar states.
func IsOccupancyStatus(s string) bool {
	switch s {
	case StatusOccupied, StatusVacant, StatusBooked, StatusReady, StatusCleaning, StatusHourly:
		return true
	}
	return false
}

// IsDepositStatus reports whether s is a valid deposit state.
func IsDepositStatus(s string) bool {
	switch s {
	case DepositPaid, DepositWithheld, DepositReturned:
		return true
	}
	return false
}

// Booking occupies the half-open date interval [CheckInDate, CheckOutDate).
// Dates are ISO "YYYY-MM-DD" strings so range filters work with plain
// lexicographic comparison in SQL.
type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	GuestID uint `gorm:"index;column:guest_id" json:"guest_id"`
	RoomID  uint `gorm:"index;column:room_id" json:"room_id"`

	CheckInDate  string `gorm:"column:check_in_date;size:10;index" json:"check_in_date"`
	CheckOutDate string `gorm:"column:check_out_date;size:10;index" json:"check_out_date"`

	OccupancyStatus string `gorm:"column:occupancy_status;size:32" json:"occupancy_status,omitempty"`
	DepositStatus   string `gorm:"column:deposit_status;size:32" json:"deposit_status,omitempty"`

	TotalAmount *float64 `gorm:"column:total_amount" json:"total_amount,omitempty"`
	PaidAmount  *float64 `gorm:"column:paid_amount" json:"paid_amount,omitempty"`
	Notes       string   `gorm:"type:text" json:"notes,omitempty"`

	CreatedBy *uint `gorm:"column:created_by" json:"created_by,omitempty"`

	Guest Guest `gorm:"foreignKey:GuestID;references:ID" json:"guest,omitempty"`
	Room  Room  `gorm:"foreignKey:RoomID;references:ID;constraint:OnDelete:CASCADE" json:"room,omitempty"`
}

// Nights returns the number of charged nights, zero when the interval is
// empty or reversed. A zero-length booking still occupies the check-in day
// on the calendar but charges no nights.
func (b Booking) Nights() int {
	in, err1 := time.Parse("2006-01-02", b.CheckInDate)
	out, err2 := time.Parse("2006-01-02", b.CheckOutDate)
	if err1 != nil || err2 != nil {
		return 0
	}
	n := int(out.Sub(in).Hours() / 24)
	if n < 0 {
		return 0
	}
	return n
}

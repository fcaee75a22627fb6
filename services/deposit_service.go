// services/deposit_service.go
package services

import (
	"fmt"
	"time"

	"aparthotel-backend/models"

	"gorm.io/gorm"
)

// DepositRow is one row on the deposits screen.
type DepositRow struct {
	BookingID    uint     `json:"booking_id"`
	GuestName    string   `json:"guest_name"`
	RoomNumber   string   `json:"room_number"`
	CheckInDate  string   `json:"check_in_date"`
	CheckOutDate string   `json:"check_out_date"`
	PaidAmount   *float64 `json:"paid_amount"`
	Status       string   `json:"status"`
	ManagerName  string   `json:"manager_name"`
}

// DepositService tracks security deposits attached to bookings. Only
// bookings with a positive paid amount count as holding a deposit.
type DepositService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewDepositService(db *gorm.DB) *DepositService {
	return &DepositService{DB: db, Now: time.Now}
}

func (s *DepositService) rows(bookings []models.Booking) []DepositRow {
	managerNames := map[uint]string{}
	var users []models.User
	if err := s.DB.Select("id", "name", "username").Find(&users).Error; err == nil {
		for _, u := range users {
			managerNames[u.ID] = u.DisplayName()
		}
	}

	rows := make([]DepositRow, 0, len(bookings))
	for _, b := range bookings {
		row := DepositRow{
			BookingID:    b.ID,
			CheckInDate:  b.CheckInDate,
			CheckOutDate: b.CheckOutDate,
			PaidAmount:   b.PaidAmount,
			Status:       b.DepositStatus,
		}
		if b.Guest.ID != 0 {
			row.GuestName = b.Guest.Name
		}
		if b.Room.ID != 0 {
			row.RoomNumber = b.Room.RoomNumber
		}
		if b.CreatedBy != nil {
			row.ManagerName = managerNames[*b.CreatedBy]
		}
		rows = append(rows, row)
	}
	return rows
}

// Current lists deposits still in the house: held or withheld, newest
// check-in first.
func (s *DepositService) Current() ([]DepositRow, error) {
	var bookings []models.Booking
	err := s.DB.Preload("Guest").Preload("Room").
		Where("paid_amount IS NOT NULL AND paid_amount > 0").
		Where("deposit_status IN ?", []string{models.DepositPaid, models.DepositWithheld}).
		Order("check_in_date DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return s.rows(bookings), nil
}

// Returned lists deposits already given back.
func (s *DepositService) Returned() ([]DepositRow, error) {
	var bookings []models.Booking
	err := s.DB.Preload("Guest").Preload("Room").
		Where("paid_amount IS NOT NULL AND paid_amount > 0").
		Where("deposit_status = ?", models.DepositReturned).
		Order("check_in_date DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return s.rows(bookings), nil
}

// UpdateStatus moves a deposit between paid, withheld and returned.
func (s *DepositService) UpdateStatus(bookingID uint, status string) error {
	if !models.IsDepositStatus(status) {
		return fmt.Errorf("unknown deposit status %q", status)
	}
	res := s.DB.Model(&models.Booking{}).
		Where("id = ?", bookingID).
		Update("deposit_status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// services/booking_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"aparthotel-backend/models"
	"aparthotel-backend/utils"

	"gorm.io/gorm"
)

var (
	ErrRoomUnavailable = errors.New("room already booked for the selected dates")
	ErrBookingNotFound = errors.New("booking not found")
)

// BookingInput is what the booking form submits. Either GuestID or the
// guest name/phone pair must be present; a missing guest is created on
// the fly.
type BookingInput struct {
	GuestID       uint     `json:"guest_id"`
	GuestName     string   `json:"guest_name"`
	GuestPhone    string   `json:"guest_phone"`
	RoomID        uint     `json:"room_id" binding:"required"`
	CheckInDate   string   `json:"check_in_date" binding:"required"`
	CheckOutDate  string   `json:"check_out_date" binding:"required"`
	RatePerDay    float64  `json:"rate_per_day"`
	TotalAmount   *float64 `json:"total_amount"`
	PaidAmount    *float64 `json:"paid_amount"`
	DepositStatus string   `json:"deposit_status"`
	Notes         string   `json:"notes"`
}

// BookingRow is the list-view projection with names resolved.
type BookingRow struct {
	ID            uint     `json:"id"`
	GuestID       uint     `json:"guest_id"`
	GuestName     string   `json:"guest_name"`
	GuestPhone    string   `json:"guest_phone"`
	RoomID        uint     `json:"room_id"`
	RoomNumber    string   `json:"room_number"`
	CheckInDate   string   `json:"check_in_date"`
	CheckOutDate  string   `json:"check_out_date"`
	Nights        int      `json:"nights"`
	Status        string   `json:"status"`
	DepositStatus string   `json:"deposit_status"`
	TotalAmount   *float64 `json:"total_amount"`
	PaidAmount    *float64 `json:"paid_amount"`
	Notes         string   `json:"notes"`
	ManagerName   string   `json:"manager_name"`
	CreatedAt     string   `json:"created_at"`
}

type BookingService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{DB: db, Now: time.Now}
}

func normalizeRange(inStr, outStr string) (time.Time, time.Time, error) {
	in, err := parseDay(inStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("check-in: %w", err)
	}
	out, err := parseDay(outStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("check-out: %w", err)
	}
	if in.After(out) {
		in, out = out, in
	}
	return in, out, nil
}

// resolveGuest finds the guest by id, then by phone digits, and finally
// creates one. Matching tolerates country-code prefixes the same way the
// guests search does.
func (s *BookingService) resolveGuest(tx *gorm.DB, input *BookingInput) (*models.Guest, error) {
	if input.GuestID != 0 {
		var guest models.Guest
		if err := tx.First(&guest, input.GuestID).Error; err != nil {
			return nil, fmt.Errorf("guest %d: %w", input.GuestID, err)
		}
		return &guest, nil
	}

	digits := utils.SanitizeDigits(input.GuestPhone)
	if digits != "" {
		var candidates []models.Guest
		if err := tx.Find(&candidates).Error; err != nil {
			return nil, err
		}
		sub := digits
		if len(sub) > 10 {
			sub = sub[len(sub)-10:]
		}
		for i := range candidates {
			if utils.PhoneMatches(candidates[i].Phone, digits, sub) {
				return &candidates[i], nil
			}
		}
	}

	name := strings.TrimSpace(input.GuestName)
	if name == "" && digits == "" {
		return nil, errors.New("guest name or phone is required")
	}
	if name == "" {
		name = "Guest " + digits
	}
	guest := models.Guest{Name: name, Phone: input.GuestPhone}
	if err := tx.Create(&guest).Error; err != nil {
		return nil, fmt.Errorf("create guest: %w", err)
	}
	return &guest, nil
}

// Create books a room for [check-in, check-out), creating the guest when
// needed, and marks the nights booked on the calendar. The whole thing
// runs in one transaction with an overlap check, so two concurrent
// requests cannot double-book a room.
func (s *BookingService) Create(input *BookingInput, createdBy *uint) (*models.Booking, error) {
	in, out, err := normalizeRange(input.CheckInDate, input.CheckOutDate)
	if err != nil {
		return nil, err
	}
	inStr := in.Format(dayLayout)
	outStr := out.Format(dayLayout)

	nights := int(out.Sub(in).Hours() / 24)
	billableNights := nights
	if billableNights == 0 {
		billableNights = 1
	}

	total := input.TotalAmount
	if total == nil && input.RatePerDay > 0 {
		v := input.RatePerDay * float64(billableNights)
		total = &v
	}

	depositStatus := input.DepositStatus
	if depositStatus == "" {
		depositStatus = models.DepositPaid
	}
	if !models.IsDepositStatus(depositStatus) {
		return nil, fmt.Errorf("unknown deposit status %q", depositStatus)
	}

	var booking *models.Booking
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.First(&room, input.RoomID).Error; err != nil {
			return fmt.Errorf("room %d: %w", input.RoomID, err)
		}

		var overlapping int64
		q := tx.Model(&models.Booking{}).Where("room_id = ?", input.RoomID)
		if nights == 0 {
			q = q.Where("check_in_date <= ? AND check_out_date >= ?", inStr, inStr)
		} else {
			q = q.Where("NOT (check_out_date <= ? OR check_in_date >= ?)", inStr, outStr)
		}
		if err := q.Count(&overlapping).Error; err != nil {
			return err
		}
		if overlapping > 0 {
			return ErrRoomUnavailable
		}

		guest, err := s.resolveGuest(tx, input)
		if err != nil {
			return err
		}

		booking = &models.Booking{
			GuestID:         guest.ID,
			RoomID:          input.RoomID,
			CheckInDate:     inStr,
			CheckOutDate:    outStr,
			OccupancyStatus: models.StatusBooked,
			DepositStatus:   depositStatus,
			TotalAmount:     total,
			PaidAmount:      input.PaidAmount,
			Notes:           input.Notes,
			CreatedBy:       createdBy,
		}
		if err := tx.Create(booking).Error; err != nil {
			return fmt.Errorf("create booking: %w", err)
		}

		// A fresh booking overwrites whatever day statuses were there.
		return MarkBookedRange(tx, input.RoomID, inStr, outStr, false)
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// Update edits a booking's dates, amounts and notes. Calendar days gained
// by the new range are marked booked, but existing per-day overrides are
// kept, so a cleaning day inside the stay survives the edit.
func (s *BookingService) Update(id uint, input *BookingInput) (*models.Booking, error) {
	var booking models.Booking
	if err := s.DB.First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	in, out, err := normalizeRange(input.CheckInDate, input.CheckOutDate)
	if err != nil {
		return nil, err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		booking.CheckInDate = in.Format(dayLayout)
		booking.CheckOutDate = out.Format(dayLayout)
		if input.RoomID != 0 {
			booking.RoomID = input.RoomID
		}
		if input.TotalAmount != nil {
			booking.TotalAmount = input.TotalAmount
		}
		if input.PaidAmount != nil {
			booking.PaidAmount = input.PaidAmount
		}
		if input.DepositStatus != "" {
			if !models.IsDepositStatus(input.DepositStatus) {
				return fmt.Errorf("unknown deposit status %q", input.DepositStatus)
			}
			booking.DepositStatus = input.DepositStatus
		}
		if input.Notes != "" {
			booking.Notes = input.Notes
		}
		if err := tx.Save(&booking).Error; err != nil {
			return err
		}

		return MarkBookedRange(tx, booking.RoomID, booking.CheckInDate, booking.CheckOutDate, true)
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// Delete removes a booking and releases its calendar days back to ready.
func (s *BookingService) Delete(id uint) error {
	var booking models.Booking
	if err := s.DB.First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookingNotFound
		}
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&booking).Error; err != nil {
			return err
		}
		in, out, err := normalizeRange(booking.CheckInDate, booking.CheckOutDate)
		if err != nil {
			// Corrupt dates: nothing on the calendar to release.
			return nil
		}
		return ResetRangeReady(tx, booking.RoomID, in.Format(dayLayout), out.Format(dayLayout))
	})
}

func (s *BookingService) Get(id uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.DB.Preload("Guest").Preload("Room").First(&booking, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// List returns bookings newest first with guest, room and manager names
// resolved for the table view.
func (s *BookingService) List() ([]BookingRow, error) {
	var bookings []models.Booking
	if err := s.DB.Preload("Guest").Preload("Room").
		Order("check_in_date DESC, id DESC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}

	managerNames := map[uint]string{}
	var users []models.User
	if err := s.DB.Select("id", "name", "username").Find(&users).Error; err == nil {
		for _, u := range users {
			managerNames[u.ID] = u.DisplayName()
		}
	}

	rows := make([]BookingRow, 0, len(bookings))
	for _, b := range bookings {
		row := BookingRow{
			ID:            b.ID,
			GuestID:       b.GuestID,
			RoomID:        b.RoomID,
			CheckInDate:   b.CheckInDate,
			CheckOutDate:  b.CheckOutDate,
			Nights:        b.Nights(),
			Status:        b.OccupancyStatus,
			DepositStatus: b.DepositStatus,
			TotalAmount:   b.TotalAmount,
			PaidAmount:    b.PaidAmount,
			Notes:         b.Notes,
			CreatedAt:     b.CreatedAt.Format(dayLayout),
		}
		if b.Guest.ID != 0 {
			row.GuestName = b.Guest.Name
			row.GuestPhone = b.Guest.Phone
		}
		if b.Room.ID != 0 {
			row.RoomNumber = b.Room.RoomNumber
		}
		if b.CreatedBy != nil {
			row.ManagerName = managerNames[*b.CreatedBy]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ByGuest returns a guest's bookings oldest first for the profile page.
func (s *BookingService) ByGuest(guestID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.DB.Preload("Room").
		Where("guest_id = ?", guestID).
		Order("check_in_date").
		Find(&bookings).Error
	return bookings, err
}

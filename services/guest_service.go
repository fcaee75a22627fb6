// services/guest_service.go
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
	ErrGuestNotFound  = errors.New("guest not found")
	ErrDuplicateGuest = errors.New("a guest with this phone number already exists")
)

// GuestDetails is the profile-page payload: the guest plus stay history
// and the comment trail.
type GuestDetails struct {
	Guest           models.Guest          `json:"guest"`
	Bookings        []models.Booking      `json:"bookings"`
	TotalNights     int                   `json:"total_nights"`
	Comments        []models.GuestComment `json:"comments"`
	Blacklisted     bool                  `json:"blacklisted"`
	BlacklistReason string                `json:"blacklist_reason,omitempty"`
}

type GuestService struct {
	DB *gorm.DB
}

func NewGuestService(db *gorm.DB) *GuestService {
	return &GuestService{DB: db}
}

// List returns guests matching the search string, with booking counts and
// blacklist flags filled in. Every whitespace-separated term must match
// the name, and any digits in the query are matched against the phone
// fields with country-code tolerance.
func (s *GuestService) List(search string) ([]models.Guest, error) {
	var guests []models.Guest
	if err := s.DB.Order("name").Find(&guests).Error; err != nil {
		return nil, err
	}

	search = strings.TrimSpace(search)
	if search != "" {
		terms := strings.Fields(strings.ToLower(search))
		digits := utils.SanitizeDigits(search)
		sub := digits
		if len(sub) > 10 {
			sub = sub[len(sub)-10:]
		}

		filtered := guests[:0]
		for _, g := range guests {
			name := strings.ToLower(g.Name)
			nameHit := len(terms) > 0
			for _, t := range terms {
				if !strings.Contains(name, t) {
					nameHit = false
					break
				}
			}
			phoneHit := digits != "" &&
				(utils.PhoneMatches(g.Phone, digits, sub) || utils.PhoneMatches(g.ExtraPhone, digits, sub))
			if nameHit || phoneHit {
				filtered = append(filtered, g)
			}
		}
		guests = filtered
	}

	type countRow struct {
		GuestID uint
		Count   int
	}
	counts := map[uint]int{}
	var countRows []countRow
	if err := s.DB.Model(&models.Booking{}).
		Select("guest_id, COUNT(*) AS count").
		Group("guest_id").
		Scan(&countRows).Error; err == nil {
		for _, row := range countRows {
			counts[row.GuestID] = row.Count
		}
	}

	blacklisted := map[string]bool{}
	var entries []models.BlacklistEntry
	if err := s.DB.Find(&entries).Error; err == nil {
		for _, e := range entries {
			blacklisted[e.Phone] = true
		}
	}

	for i := range guests {
		guests[i].BookingCount = counts[guests[i].ID]
		guests[i].Blacklisted = blacklisted[utils.SanitizeDigits(guests[i].Phone)]
	}
	return guests, nil
}

// Get loads a guest profile with bookings, total nights stayed, comments
// and the blacklist verdict.
func (s *GuestService) Get(id uint) (*GuestDetails, error) {
	var guest models.Guest
	if err := s.DB.First(&guest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGuestNotFound
		}
		return nil, err
	}

	details := &GuestDetails{Guest: guest}

	if err := s.DB.Preload("Room").
		Where("guest_id = ?", id).
		Order("check_in_date DESC").
		Find(&details.Bookings).Error; err != nil {
		return nil, err
	}
	for _, b := range details.Bookings {
		details.TotalNights += b.Nights()
	}

	if err := s.DB.Where("guest_id = ?", id).
		Order("created_at DESC").
		Find(&details.Comments).Error; err != nil {
		return nil, err
	}

	digits := utils.SanitizeDigits(guest.Phone)
	if digits != "" {
		var entry models.BlacklistEntry
		err := s.DB.Where("phone = ?", digits).First(&entry).Error
		if err == nil {
			details.Blacklisted = true
			details.BlacklistReason = entry.Reason
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	return details, nil
}

// Create adds a guest, refusing a second card for a phone number that is
// already on file.
func (s *GuestService) Create(guest *models.Guest) error {
	guest.Name = strings.TrimSpace(guest.Name)
	if guest.Name == "" {
		return errors.New("guest name is required")
	}

	digits := utils.SanitizeDigits(guest.Phone)
	if digits != "" {
		sub := digits
		if len(sub) > 10 {
			sub = sub[len(sub)-10:]
		}
		var existing []models.Guest
		if err := s.DB.Where("phone <> ''").Find(&existing).Error; err != nil {
			return err
		}
		for _, g := range existing {
			if utils.PhoneMatches(g.Phone, digits, sub) {
				return ErrDuplicateGuest
			}
		}
	}

	return s.DB.Create(guest).Error
}

// GuestUpdate carries the editable profile fields. The form submits the
// name split into parts, joined back here so partial edits keep the rest.
type GuestUpdate struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
	ExtraPhone string `json:"extra_phone"`
	Email      string `json:"email"`
	Notes      string `json:"notes"`
	BirthDate  string `json:"birth_date"`
	Comment    string `json:"comment"`
}

// Update edits a guest card and appends a dated comment when one was
// entered.
func (s *GuestService) Update(id uint, input *GuestUpdate) (*models.Guest, error) {
	var guest models.Guest
	if err := s.DB.First(&guest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGuestNotFound
		}
		return nil, err
	}

	parts := make([]string, 0, 2)
	if v := strings.TrimSpace(input.LastName); v != "" {
		parts = append(parts, v)
	}
	if v := strings.TrimSpace(input.FirstName); v != "" {
		parts = append(parts, v)
	}
	if len(parts) > 0 {
		guest.Name = strings.Join(parts, " ")
	}
	if input.Phone != "" {
		guest.Phone = input.Phone
	}
	if input.ExtraPhone != "" {
		guest.ExtraPhone = input.ExtraPhone
	}
	if input.Email != "" {
		guest.Email = input.Email
	}
	if input.Notes != "" {
		guest.Notes = input.Notes
	}
	if input.BirthDate != "" {
		if _, err := parseDay(input.BirthDate); err != nil {
			return nil, fmt.Errorf("birth date: %w", err)
		}
		guest.BirthDate = input.BirthDate
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&guest).Error; err != nil {
			return err
		}
		if comment := strings.TrimSpace(input.Comment); comment != "" {
			entry := models.GuestComment{
				GuestID:   guest.ID,
				Comment:   comment,
				CreatedAt: time.Now(),
			}
			return tx.Create(&entry).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &guest, nil
}

// FindByPhone looks a guest up by phone number for the front-desk verify
// screen. Returns the guest together with the blacklist verdict.
func (s *GuestService) FindByPhone(phone string) (*GuestDetails, error) {
	digits := utils.SanitizeDigits(phone)
	if !utils.ValidPhoneLength(digits) {
		return nil, fmt.Errorf("phone number must have 7 to 15 digits")
	}
	sub := digits
	if len(sub) > 10 {
		sub = sub[len(sub)-10:]
	}

	var guests []models.Guest
	if err := s.DB.Find(&guests).Error; err != nil {
		return nil, err
	}
	for _, g := range guests {
		if utils.PhoneMatches(g.Phone, digits, sub) || utils.PhoneMatches(g.ExtraPhone, digits, sub) {
			return s.Get(g.ID)
		}
	}
	return nil, ErrGuestNotFound
}

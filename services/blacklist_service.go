// services/blacklist_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"aparthotel-backend/models"
	"aparthotel-backend/utils"

	"gorm.io/gorm"
)

var ErrBlacklistNotFound = errors.New("blacklist entry not found")

type BlacklistService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewBlacklistService(db *gorm.DB) *BlacklistService {
	return &BlacklistService{DB: db, Now: time.Now}
}

func (s *BlacklistService) List() ([]models.BlacklistEntry, error) {
	var entries []models.BlacklistEntry
	err := s.DB.Order("added_at DESC").Find(&entries).Error
	return entries, err
}

// Add blacklists a phone number. Adding the same number twice just
// refreshes the reason.
func (s *BlacklistService) Add(phone, reason string) (*models.BlacklistEntry, error) {
	digits := utils.SanitizeDigits(phone)
	if !utils.ValidPhoneLength(digits) {
		return nil, fmt.Errorf("phone number must have 7 to 15 digits")
	}

	entry := models.BlacklistEntry{
		Phone:   digits,
		Reason:  reason,
		AddedAt: s.Now().Format(time.RFC3339),
	}

	var existing models.BlacklistEntry
	err := s.DB.Where("phone = ?", digits).First(&existing).Error
	switch {
	case err == nil:
		existing.Reason = reason
		existing.AddedAt = entry.AddedAt
		if err := s.DB.Save(&existing).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := s.DB.Create(&entry).Error; err != nil {
			return nil, err
		}
		return &entry, nil
	default:
		return nil, err
	}
}

// AddGuest blacklists a guest by their phone on file.
func (s *BlacklistService) AddGuest(guestID uint, reason string) (*models.BlacklistEntry, error) {
	var guest models.Guest
	if err := s.DB.First(&guest, guestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGuestNotFound
		}
		return nil, err
	}
	if guest.Phone == "" {
		return nil, errors.New("guest has no phone number on file")
	}
	return s.Add(guest.Phone, reason)
}

func (s *BlacklistService) Remove(phone string) error {
	digits := utils.SanitizeDigits(phone)
	res := s.DB.Where("phone = ?", digits).Delete(&models.BlacklistEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBlacklistNotFound
	}
	return nil
}

// IsBlacklisted checks a phone number and returns the reason when listed.
func (s *BlacklistService) IsBlacklisted(phone string) (bool, string, error) {
	digits := utils.SanitizeDigits(phone)
	if digits == "" {
		return false, "", nil
	}
	var entry models.BlacklistEntry
	err := s.DB.Where("phone = ?", digits).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, "", nil
	}
	if err != nil {
		return false, "", err
	}
	return true, entry.Reason, nil
}

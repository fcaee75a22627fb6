// services/room_service.go
package services

import (
	"errors"
	"strings"

	"aparthotel-backend/models"

	"gorm.io/gorm"
)

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrDuplicateRoom = errors.New("a room with this number already exists")
)

type RoomService struct {
	DB *gorm.DB
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{DB: db}
}

func (s *RoomService) List(complexFilter string) ([]models.Room, error) {
	var rooms []models.Room
	q := s.DB.Order("room_number")
	if complexFilter != "" {
		q = q.Where("residential_complex = ?", complexFilter)
	}
	err := q.Find(&rooms).Error
	return rooms, err
}

func (s *RoomService) Get(id uint) (*models.Room, error) {
	var room models.Room
	err := s.DB.First(&room, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *RoomService) Create(room *models.Room) error {
	room.RoomNumber = strings.TrimSpace(room.RoomNumber)
	if room.RoomNumber == "" {
		return errors.New("room number is required")
	}
	var count int64
	if err := s.DB.Model(&models.Room{}).
		Where("room_number = ?", room.RoomNumber).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateRoom
	}
	return s.DB.Create(room).Error
}

func (s *RoomService) Update(id uint, input *models.Room) (*models.Room, error) {
	room, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if number := strings.TrimSpace(input.RoomNumber); number != "" && number != room.RoomNumber {
		var count int64
		if err := s.DB.Model(&models.Room{}).
			Where("room_number = ? AND id <> ?", number, id).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrDuplicateRoom
		}
		room.RoomNumber = number
	}
	if input.ListingURL != "" {
		room.ListingURL = input.ListingURL
	}
	if input.ResidentialComplex != "" {
		room.ResidentialComplex = input.ResidentialComplex
	}

	if err := s.DB.Save(room).Error; err != nil {
		return nil, err
	}
	return room, nil
}

// Delete removes a room together with its bookings and day overrides so
// the calendar never shows rows for a unit that no longer exists.
func (s *RoomService) Delete(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Room{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRoomNotFound
		}
		if err := tx.Where("room_id = ?", id).Delete(&models.Booking{}).Error; err != nil {
			return err
		}
		return tx.Where("room_id = ?", id).Delete(&models.RoomStatus{}).Error
	})
}

// Complexes lists the distinct residential complexes for the filter
// dropdown, empty values excluded.
func (s *RoomService) Complexes() ([]string, error) {
	var complexes []string
	err := s.DB.Model(&models.Room{}).
		Distinct("residential_complex").
		Where("residential_complex <> ''").
		Order("residential_complex").
		Pluck("residential_complex", &complexes).Error
	return complexes, err
}

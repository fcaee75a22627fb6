package services

import (
	"testing"
	"time"

	"aparthotel-backend/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RegistrationRequest{},
		&models.Guest{},
		&models.GuestComment{},
		&models.Room{},
		&models.RoomStatus{},
		&models.Booking{},
		&models.BlacklistEntry{},
		&models.ChatRoom{},
		&models.ChatRoomMember{},
		&models.Message{},
		&models.ChatLastSeen{},
		&models.Subscription{},
	))
	return db
}

func fixedNow(day string) func() time.Time {
	t, err := time.Parse(dayLayout, day)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func makeRoom(t *testing.T, db *gorm.DB, number string) models.Room {
	t.Helper()
	room := models.Room{RoomNumber: number}
	require.NoError(t, db.Create(&room).Error)
	return room
}

func makeGuest(t *testing.T, db *gorm.DB, name, phone string) models.Guest {
	t.Helper()
	guest := models.Guest{Name: name, Phone: phone}
	require.NoError(t, db.Create(&guest).Error)
	return guest
}

func makeBooking(t *testing.T, db *gorm.DB, guestID, roomID uint, in, out string, total float64) models.Booking {
	t.Helper()
	booking := models.Booking{
		GuestID:         guestID,
		RoomID:          roomID,
		CheckInDate:     in,
		CheckOutDate:    out,
		OccupancyStatus: models.StatusBooked,
		DepositStatus:   models.DepositPaid,
	}
	if total > 0 {
		booking.TotalAmount = &total
	}
	require.NoError(t, db.Create(&booking).Error)
	return booking
}

package services

import (
	"testing"

	"aparthotel-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingCreateComputesTotalAndMarksCalendar(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db)
	room := makeRoom(t, db, "101")

	booking, err := svc.Create(&BookingInput{
		GuestName:    "Arman Seitkali",
		GuestPhone:   "+7 701 555 0001",
		RoomID:       room.ID,
		CheckInDate:  "2025-02-01",
		CheckOutDate: "2025-02-04",
		RatePerDay:   150,
	}, nil)
	require.NoError(t, err)

	require.NotNil(t, booking.TotalAmount)
	assert.InDelta(t, 450.0, *booking.TotalAmount, 0.001)
	assert.Equal(t, models.StatusBooked, booking.OccupancyStatus)
	assert.Equal(t, models.DepositPaid, booking.DepositStatus)

	// The guest was created on the fly.
	var guest models.Guest
	require.NoError(t, db.First(&guest, booking.GuestID).Error)
	assert.Equal(t, "Arman Seitkali", guest.Name)

	// Each night is marked booked on the calendar.
	var count int64
	require.NoError(t, db.Model(&models.RoomStatus{}).
		Where("room_id = ? AND status = ?", room.ID, models.StatusBooked).
		Count(&count).Error)
	assert.EqualValues(t, 3, count)
}

func TestBookingCreateReusesGuestByPhone(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db)
	room := makeRoom(t, db, "101")
	existing := makeGuest(t, db, "Dana", "87015550002")

	booking, err := svc.Create(&BookingInput{
		GuestName:    "Someone Else",
		GuestPhone:   "+7 701 555 0002", // same subscriber number, different formatting
		RoomID:       room.ID,
		CheckInDate:  "2025-02-01",
		CheckOutDate: "2025-02-02",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, booking.GuestID)

	var guestCount int64
	require.NoError(t, db.Model(&models.Guest{}).Count(&guestCount).Error)
	assert.EqualValues(t, 1, guestCount)
}

func TestBookingCreateRejectsOverlap(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db)
	room := makeRoom(t, db, "101")
	guest := makeGuest(t, db, "Bek", "+77015550003")
	makeBooking(t, db, guest.ID, room.ID, "2025-02-01", "2025-02-05", 0)

	_, err := svc.Create(&BookingInput{
		GuestID:      guest.ID,
		RoomID:       room.ID,
		CheckInDate:  "2025-02-03",
		CheckOutDate: "2025-02-07",
	}, nil)
	require.ErrorIs(t, err, ErrRoomUnavailable)

	// Back-to-back is fine: check-in on the other stay's check-out day.
	_, err = svc.Create(&BookingInput{
		GuestID:      guest.ID,
		RoomID:       room.ID,
		CheckInDate:  "2025-02-05",
		CheckOutDate: "2025-02-07",
	}, nil)
	require.NoError(t, err)
}

func TestBookingCreateZeroLengthStay(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db)
	room := makeRoom(t, db, "101")
	guest := makeGuest(t, db, "Aida", "+77015550004")

	// Day-use booking: one billable night.
	booking, err := svc.Create(&BookingInput{
		GuestID:      guest.ID,
		RoomID:       room.ID,
		CheckInDate:  "2025-02-10",
		CheckOutDate: "2025-02-10",
		RatePerDay:   200,
	}, nil)
	require.NoError(t, err)
	require.NotNil(t, booking.TotalAmount)
	assert.InDelta(t, 200.0, *booking.TotalAmount, 0.001)

	// A second day-use on the same day collides.
	_, err = svc.Create(&BookingInput{
		GuestID:      guest.ID,
		RoomID:       room.ID,
		CheckInDate:  "2025-02-10",
		CheckOutDate: "2025-02-10",
	}, nil)
	require.ErrorIs(t, err, ErrRoomUnavailable)
}

func TestBookingUpdateKeepsManualOverrides(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db)
	room := makeRoom(t, db, "101")
	guest := makeGuest(t, db, "Sanzhar", "+77015550005")
	booking := makeBooking(t, db, guest.ID, room.ID, "2025-02-01", "2025-02-04", 300)

	// Housekeeping marked one night cleaning by hand.
	require.NoError(t, db.Create(&models.RoomStatus{
		RoomID: room.ID, Date: "2025-02-05", Status: models.StatusCleaning,
	}).Error)

	_, err := svc.Update(booking.ID, &BookingInput{
		CheckInDate:  "2025-02-01",
		CheckOutDate: "2025-02-06",
	})
	require.NoError(t, err)

	var row models.RoomStatus
	require.NoError(t, db.Where("room_id = ? AND date = ?", room.ID, "2025-02-05").First(&row).Error)
	assert.Equal(t, models.StatusCleaning, row.Status)
}

func TestBookingDeleteReleasesCalendar(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db)
	room := makeRoom(t, db, "101")
	guest := makeGuest(t, db, "Arai", "+77015550006")

	booking, err := svc.Create(&BookingInput{
		GuestID:      guest.ID,
		RoomID:       room.ID,
		CheckInDate:  "2025-02-01",
		CheckOutDate: "2025-02-03",
	}, nil)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(booking.ID))

	var count int64
	require.NoError(t, db.Model(&models.Booking{}).Count(&count).Error)
	assert.Zero(t, count)

	var row models.RoomStatus
	require.NoError(t, db.Where("room_id = ? AND date = ?", room.ID, "2025-02-01").First(&row).Error)
	assert.Equal(t, models.StatusReady, row.Status)

	require.ErrorIs(t, svc.Delete(booking.ID), ErrBookingNotFound)
}

func TestBookingListResolvesNames(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db)
	room := makeRoom(t, db, "101")
	guest := makeGuest(t, db, "Aliya", "+77015550007")

	manager := models.User{Username: "aidos", Name: "Aidos M.", Role: models.RoleManager}
	require.NoError(t, db.Create(&manager).Error)

	_, err := svc.Create(&BookingInput{
		GuestID:      guest.ID,
		RoomID:       room.ID,
		CheckInDate:  "2025-02-01",
		CheckOutDate: "2025-02-03",
	}, &manager.ID)
	require.NoError(t, err)

	rows, err := svc.List()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Aliya", rows[0].GuestName)
	assert.Equal(t, "101", rows[0].RoomNumber)
	assert.Equal(t, "Aidos M.", rows[0].ManagerName)
	assert.Equal(t, 2, rows[0].Nights)
}

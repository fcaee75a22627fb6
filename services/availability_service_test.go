package services

import (
	"testing"

	"aparthotel-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cellFor(t *testing.T, grid *MonthGrid, roomNumber, date string) DayCell {
	t.Helper()
	for _, rc := range grid.Rooms {
		if rc.Room.RoomNumber != roomNumber {
			continue
		}
		for _, cell := range rc.Days {
			if cell.Date == date {
				return cell
			}
		}
	}
	t.Fatalf("no cell for room %s on %s", roomNumber, date)
	return DayCell{}
}

func TestFreeRoomsHalfOpenOverlap(t *testing.T) {
	db := newTestDB(t)
	svc := NewAvailabilityService(db)

	r1 := makeRoom(t, db, "101")
	r2 := makeRoom(t, db, "102")
	guest := makeGuest(t, db, "Aigerim", "+77010000001")
	makeBooking(t, db, guest.ID, r1.ID, "2025-01-10", "2025-01-15", 0)

	// Inside the stay: room 101 is taken.
	rooms, err := svc.FreeRooms("2025-01-12", "2025-01-14", "")
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, r2.RoomNumber, rooms[0].RoomNumber)

	// Starting on the check-out day: half-open, so 101 is free again.
	rooms, err = svc.FreeRooms("2025-01-15", "2025-01-20", "")
	require.NoError(t, err)
	assert.Len(t, rooms, 2)

	// Ending on the check-in day.
	rooms, err = svc.FreeRooms("2025-01-05", "2025-01-10", "")
	require.NoError(t, err)
	assert.Len(t, rooms, 2)

	// Reversed range is swapped, not rejected.
	rooms, err = svc.FreeRooms("2025-01-14", "2025-01-12", "")
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, r2.RoomNumber, rooms[0].RoomNumber)

	// Malformed date is an error.
	_, err = svc.FreeRooms("2025-13-40", "2025-01-12", "")
	require.ErrorIs(t, err, ErrInvalidDate)
}

func TestFreeRoomsNoRangeMeansNeverBooked(t *testing.T) {
	db := newTestDB(t)
	svc := NewAvailabilityService(db)

	r1 := makeRoom(t, db, "101")
	makeRoom(t, db, "102")
	guest := makeGuest(t, db, "Dana", "+77010000002")
	makeBooking(t, db, guest.ID, r1.ID, "2020-01-01", "2020-01-05", 0)

	rooms, err := svc.FreeRooms("", "", "")
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "102", rooms[0].RoomNumber)
}

func TestMonthGridPrecedence(t *testing.T) {
	db := newTestDB(t)
	svc := NewAvailabilityService(db)
	svc.Now = fixedNow("2025-01-10")

	room := makeRoom(t, db, "101")
	guest := makeGuest(t, db, "Bekzat", "+77010000003")
	makeBooking(t, db, guest.ID, room.ID, "2025-01-05", "2025-01-08", 600)

	// Override on a booked day wins.
	require.NoError(t, db.Create(&models.RoomStatus{
		RoomID: room.ID, Date: "2025-01-06", Status: models.StatusCleaning,
	}).Error)

	grid, err := svc.MonthGrid(2025, 1, "", "")
	require.NoError(t, err)

	cell := cellFor(t, grid, "101", "2025-01-06")
	assert.Equal(t, models.StatusCleaning, cell.Status)
	assert.Equal(t, SourceOverride, cell.Source)
	require.NotNil(t, cell.Booking)
	assert.Equal(t, "Bekzat", cell.Booking.GuestName)

	// Plain booked night.
	cell = cellFor(t, grid, "101", "2025-01-05")
	assert.Equal(t, models.StatusBooked, cell.Status)
	assert.Equal(t, SourceBooking, cell.Source)

	// Check-out day is outside the half-open interval: falls to derived.
	cell = cellFor(t, grid, "101", "2025-01-08")
	assert.Equal(t, SourceDerived, cell.Source)

	// Derived split around today (2025-01-10).
	cell = cellFor(t, grid, "101", "2025-01-02")
	assert.Equal(t, models.StatusVacant, cell.Status)
	cell = cellFor(t, grid, "101", "2025-01-10")
	assert.Equal(t, models.StatusReady, cell.Status)
	cell = cellFor(t, grid, "101", "2025-01-20")
	assert.Equal(t, models.StatusReady, cell.Status)
}

func TestMonthGridRatePerDay(t *testing.T) {
	db := newTestDB(t)
	svc := NewAvailabilityService(db)
	svc.Now = fixedNow("2025-01-01")

	room := makeRoom(t, db, "101")
	guest := makeGuest(t, db, "Sara", "+77010000004")
	makeBooking(t, db, guest.ID, room.ID, "2025-01-05", "2025-01-10", 500)

	grid, err := svc.MonthGrid(2025, 1, "", "")
	require.NoError(t, err)

	cell := cellFor(t, grid, "101", "2025-01-05")
	require.NotNil(t, cell.Booking)
	require.NotNil(t, cell.Booking.RatePerDay)
	assert.InDelta(t, 100.0, *cell.Booking.RatePerDay, 0.001)
}

func TestMonthGridZeroLengthBookingOccupiesCheckInDay(t *testing.T) {
	db := newTestDB(t)
	svc := NewAvailabilityService(db)
	svc.Now = fixedNow("2025-01-01")

	room := makeRoom(t, db, "101")
	guest := makeGuest(t, db, "Nurlan", "+77010000005")
	makeBooking(t, db, guest.ID, room.ID, "2025-01-07", "2025-01-07", 200)

	grid, err := svc.MonthGrid(2025, 1, "", "")
	require.NoError(t, err)

	cell := cellFor(t, grid, "101", "2025-01-07")
	assert.Equal(t, SourceBooking, cell.Source)
	require.NotNil(t, cell.Booking)
	// One billable night, so the rate equals the full amount.
	require.NotNil(t, cell.Booking.RatePerDay)
	assert.InDelta(t, 200.0, *cell.Booking.RatePerDay, 0.001)

	cell = cellFor(t, grid, "101", "2025-01-08")
	assert.Equal(t, SourceDerived, cell.Source)
}

func TestMonthGridSkipsCorruptBookingDates(t *testing.T) {
	db := newTestDB(t)
	svc := NewAvailabilityService(db)
	svc.Now = fixedNow("2025-01-01")

	room := makeRoom(t, db, "101")
	guest := makeGuest(t, db, "Olga", "+77010000006")
	require.NoError(t, db.Create(&models.Booking{
		GuestID:      guest.ID,
		RoomID:       room.ID,
		CheckInDate:  "not-a-date",
		CheckOutDate: "2025-01-31",
	}).Error)

	grid, err := svc.MonthGrid(2025, 1, "", "")
	require.NoError(t, err)

	cell := cellFor(t, grid, "101", "2025-01-15")
	assert.Equal(t, SourceDerived, cell.Source)
}

func TestMonthGridSummaryCountsSelectedDate(t *testing.T) {
	db := newTestDB(t)
	svc := NewAvailabilityService(db)
	svc.Now = fixedNow("2025-01-10")

	r1 := makeRoom(t, db, "101")
	r2 := makeRoom(t, db, "102")
	makeRoom(t, db, "103")
	guest := makeGuest(t, db, "Timur", "+77010000007")
	makeBooking(t, db, guest.ID, r1.ID, "2025-01-10", "2025-01-12", 0)
	require.NoError(t, db.Create(&models.RoomStatus{
		RoomID: r2.ID, Date: "2025-01-10", Status: models.StatusCleaning,
	}).Error)

	grid, err := svc.MonthGrid(2025, 1, "", "2025-01-10")
	require.NoError(t, err)

	assert.Equal(t, 1, grid.Summary[models.StatusBooked])
	assert.Equal(t, 1, grid.Summary[models.StatusCleaning])
	assert.Equal(t, 1, grid.Summary[models.StatusReady])
	assert.Equal(t, 0, grid.Summary[models.StatusVacant])
}

func TestMarkBookedRangeIdempotent(t *testing.T) {
	db := newTestDB(t)
	room := makeRoom(t, db, "101")

	require.NoError(t, MarkBookedRange(db, room.ID, "2025-01-05", "2025-01-08", false))
	require.NoError(t, MarkBookedRange(db, room.ID, "2025-01-05", "2025-01-08", false))

	var count int64
	require.NoError(t, db.Model(&models.RoomStatus{}).Where("room_id = ?", room.ID).Count(&count).Error)
	assert.EqualValues(t, 3, count)
}

func TestMarkBookedRangeKeepExisting(t *testing.T) {
	db := newTestDB(t)
	room := makeRoom(t, db, "101")

	require.NoError(t, db.Create(&models.RoomStatus{
		RoomID: room.ID, Date: "2025-01-06", Status: models.StatusCleaning,
	}).Error)

	// Edit path keeps the manual cleaning day.
	require.NoError(t, MarkBookedRange(db, room.ID, "2025-01-05", "2025-01-08", true))

	var row models.RoomStatus
	require.NoError(t, db.Where("room_id = ? AND date = ?", room.ID, "2025-01-06").First(&row).Error)
	assert.Equal(t, models.StatusCleaning, row.Status)

	// Create path overwrites it.
	require.NoError(t, MarkBookedRange(db, room.ID, "2025-01-05", "2025-01-08", false))
	require.NoError(t, db.Where("room_id = ? AND date = ?", room.ID, "2025-01-06").First(&row).Error)
	assert.Equal(t, models.StatusBooked, row.Status)
}

func TestSetDayStatusSpreadsOverBookingRange(t *testing.T) {
	db := newTestDB(t)
	svc := NewAvailabilityService(db)

	room := makeRoom(t, db, "101")
	guest := makeGuest(t, db, "Erke", "+77010000008")
	booking := makeBooking(t, db, guest.ID, room.ID, "2025-01-05", "2025-01-08", 0)

	require.NoError(t, svc.SetDayStatus(room.ID, "2025-01-06", models.StatusOccupied))

	// Every night of the stay carries the status.
	for _, d := range []string{"2025-01-05", "2025-01-06", "2025-01-07"} {
		status, err := svc.DayStatus(room.ID, d)
		require.NoError(t, err)
		assert.Equal(t, models.StatusOccupied, status, d)
	}

	// The booking record reflects the occupancy state too.
	var reloaded models.Booking
	require.NoError(t, db.First(&reloaded, booking.ID).Error)
	assert.Equal(t, models.StatusOccupied, reloaded.OccupancyStatus)
}

func TestSetDayStatusWithoutBooking(t *testing.T) {
	db := newTestDB(t)
	svc := NewAvailabilityService(db)
	room := makeRoom(t, db, "101")

	require.NoError(t, svc.SetDayStatus(room.ID, "2025-02-14", models.StatusCleaning))

	status, err := svc.DayStatus(room.ID, "2025-02-14")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCleaning, status)

	// Empty status defaults to ready.
	require.NoError(t, svc.SetDayStatus(room.ID, "2025-02-14", ""))
	status, err = svc.DayStatus(room.ID, "2025-02-14")
	require.NoError(t, err)
	assert.Equal(t, models.StatusReady, status)

	require.ErrorIs(t, svc.SetDayStatus(room.ID, "bad-date", models.StatusReady), ErrInvalidDate)
}

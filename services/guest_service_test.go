package services

import (
	"testing"

	"aparthotel-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuestListSearchAndFlags(t *testing.T) {
	db := newTestDB(t)
	svc := NewGuestService(db)

	g1 := makeGuest(t, db, "Aigerim Nurlanova", "+7 701 111 2233")
	makeGuest(t, db, "Boris Ivanov", "+7 702 444 5566")
	room := makeRoom(t, db, "101")
	makeBooking(t, db, g1.ID, room.ID, "2025-01-01", "2025-01-03", 0)
	makeBooking(t, db, g1.ID, room.ID, "2025-02-01", "2025-02-03", 0)

	blSvc := NewBlacklistService(db)
	_, err := blSvc.Add("+77011112233", "smoking in the room")
	require.NoError(t, err)

	// Every term must match the name.
	guests, err := svc.List("aigerim nurlanova")
	require.NoError(t, err)
	require.Len(t, guests, 1)
	assert.Equal(t, 2, guests[0].BookingCount)
	assert.True(t, guests[0].Blacklisted)

	guests, err = svc.List("aigerim ivanov")
	require.NoError(t, err)
	assert.Empty(t, guests)

	// Digits match regardless of formatting.
	guests, err = svc.List("701 111 22 33")
	require.NoError(t, err)
	require.Len(t, guests, 1)
	assert.Equal(t, "Aigerim Nurlanova", guests[0].Name)

	// No search returns everyone.
	guests, err = svc.List("")
	require.NoError(t, err)
	assert.Len(t, guests, 2)
}

func TestGuestGetDetails(t *testing.T) {
	db := newTestDB(t)
	svc := NewGuestService(db)

	guest := makeGuest(t, db, "Samal", "+77013334455")
	room := makeRoom(t, db, "101")
	makeBooking(t, db, guest.ID, room.ID, "2025-01-01", "2025-01-04", 0)
	makeBooking(t, db, guest.ID, room.ID, "2025-03-01", "2025-03-03", 0)

	blSvc := NewBlacklistService(db)
	_, err := blSvc.AddGuest(guest.ID, "broken furniture")
	require.NoError(t, err)

	details, err := svc.Get(guest.ID)
	require.NoError(t, err)
	assert.Len(t, details.Bookings, 2)
	assert.Equal(t, 5, details.TotalNights)
	assert.True(t, details.Blacklisted)
	assert.Equal(t, "broken furniture", details.BlacklistReason)

	_, err = svc.Get(99999)
	require.ErrorIs(t, err, ErrGuestNotFound)
}

func TestGuestCreateDuplicatePhone(t *testing.T) {
	db := newTestDB(t)
	svc := NewGuestService(db)

	require.NoError(t, svc.Create(&models.Guest{Name: "Erlan", Phone: "87019998877"}))

	err := svc.Create(&models.Guest{Name: "Other", Phone: "+7 (701) 999-88-77"})
	require.ErrorIs(t, err, ErrDuplicateGuest)

	// No phone on either card: allowed.
	require.NoError(t, svc.Create(&models.Guest{Name: "Anon One"}))
	require.NoError(t, svc.Create(&models.Guest{Name: "Anon Two"}))
}

func TestGuestUpdateJoinsNameAndAppendsComment(t *testing.T) {
	db := newTestDB(t)
	svc := NewGuestService(db)
	guest := makeGuest(t, db, "Old Name", "+77010001122")

	updated, err := svc.Update(guest.ID, &GuestUpdate{
		FirstName: "Madina",
		LastName:  "Abisheva",
		Comment:   "always pays in advance",
	})
	require.NoError(t, err)
	assert.Equal(t, "Abisheva Madina", updated.Name)

	var comments []models.GuestComment
	require.NoError(t, db.Where("guest_id = ?", guest.ID).Find(&comments).Error)
	require.Len(t, comments, 1)
	assert.Equal(t, "always pays in advance", comments[0].Comment)

	// Empty name parts keep the current name.
	updated, err = svc.Update(guest.ID, &GuestUpdate{Email: "m@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Abisheva Madina", updated.Name)
	assert.Equal(t, "m@example.com", updated.Email)

	_, err = svc.Update(guest.ID, &GuestUpdate{BirthDate: "31-12-1990"})
	require.Error(t, err)
}

func TestGuestFindByPhone(t *testing.T) {
	db := newTestDB(t)
	svc := NewGuestService(db)
	makeGuest(t, db, "Nursultan", "87017776655")

	details, err := svc.FindByPhone("+7 701 777 66 55")
	require.NoError(t, err)
	assert.Equal(t, "Nursultan", details.Guest.Name)

	_, err = svc.FindByPhone("+7 701 000 00 00")
	require.ErrorIs(t, err, ErrGuestNotFound)

	_, err = svc.FindByPhone("123")
	require.Error(t, err)
}

func TestBlacklistAddRemove(t *testing.T) {
	db := newTestDB(t)
	svc := NewBlacklistService(db)
	svc.Now = fixedNow("2025-05-01")

	entry, err := svc.Add("+7 (701) 123-45-67", "noise complaints")
	require.NoError(t, err)
	assert.Equal(t, "77011234567", entry.Phone)

	// Re-adding the same number refreshes the reason instead of failing.
	entry, err = svc.Add("7-701-123-45-67", "left without paying")
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.BlacklistEntry{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	listed, reason, err := svc.IsBlacklisted("+77011234567")
	require.NoError(t, err)
	assert.True(t, listed)
	assert.Equal(t, "left without paying", reason)

	require.NoError(t, svc.Remove("+77011234567"))
	listed, _, err = svc.IsBlacklisted("+77011234567")
	require.NoError(t, err)
	assert.False(t, listed)

	require.ErrorIs(t, svc.Remove("+77011234567"), ErrBlacklistNotFound)
}

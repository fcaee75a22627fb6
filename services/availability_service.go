// services/availability_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"aparthotel-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const dayLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid_date")

func parseDay(s string) (time.Time, error) {
	return time.Parse(dayLayout, s)
}

// bookingDays lists every calendar day a booking occupies: the half-open
// range [in, out), or just the check-in day when the interval is empty or
// reversed.
func bookingDays(in, out time.Time) []string {
	if !in.Before(out) {
		return []string{in.Format(dayLayout)}
	}
	var days []string
	for d := in; d.Before(out); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(dayLayout))
	}
	return days
}

// Where a calendar cell's status came from. An override always wins over a
// booking-derived status, which wins over the vacant/ready default.
const (
	SourceOverride = "override"
	SourceBooking  = "booking"
	SourceDerived  = "derived"
)

// CalendarBooking is the slice of a booking the calendar grid needs.
type CalendarBooking struct {
	ID              uint     `json:"id"`
	GuestID         uint     `json:"guest_id"`
	GuestName       string   `json:"guest_name"`
	CheckInDate     string   `json:"check_in_date"`
	CheckOutDate    string   `json:"check_out_date"`
	OccupancyStatus string   `json:"occupancy_status,omitempty"`
	DepositStatus   string   `json:"deposit_status,omitempty"`
	TotalAmount     *float64 `json:"total_amount,omitempty"`
	PaidAmount      *float64 `json:"paid_amount,omitempty"`
	RatePerDay      *float64 `json:"rate_per_day,omitempty"`
}

type DayCell struct {
	Date    string           `json:"date"`
	Status  string           `json:"status"`
	Source  string           `json:"source"`
	Booking *CalendarBooking `json:"booking,omitempty"`
}

type RoomCalendar struct {
	Room models.Room `json:"room"`
	Days []DayCell   `json:"days"`
}

type MonthGrid struct {
	Year         int            `json:"year"`
	Month        int            `json:"month"`
	Days         []string       `json:"days"`
	Rooms        []RoomCalendar `json:"rooms"`
	SelectedDate string         `json:"selected_date"`
	Summary      map[string]int `json:"summary"`
}

// AvailabilityService resolves per-day occupancy for the calendar grid and
// answers free-room searches. Now is injectable so tests can pin "today".
type AvailabilityService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{DB: db, Now: time.Now}
}

// FreeRooms returns rooms with no booking intersecting [start, end] using
// half-open overlap semantics (check-out day is free). A reversed range is
// swapped rather than rejected. With no range at all, "free" means the room
// has never been booked.
func (s *AvailabilityService) FreeRooms(start, end, complexFilter string) ([]models.Room, error) {
	q := s.DB.Model(&models.Room{}).Order("room_number")
	if complexFilter != "" {
		q = q.Where("residential_complex = ?", complexFilter)
	}

	if start == "" || end == "" {
		sub := s.DB.Model(&models.Booking{}).Distinct("room_id")
		q = q.Where("id NOT IN (?)", sub)
	} else {
		if _, err := parseDay(start); err != nil {
			return nil, fmt.Errorf("%w: start %q", ErrInvalidDate, start)
		}
		if _, err := parseDay(end); err != nil {
			return nil, fmt.Errorf("%w: end %q", ErrInvalidDate, end)
		}
		if start > end {
			start, end = end, start
		}
		// A booking intersects the range unless it ends on/before the start
		// or begins on/after the end. ISO strings compare lexicographically.
		sub := s.DB.Model(&models.Booking{}).
			Select("room_id").
			Where("NOT (check_out_date <= ? OR check_in_date >= ?)", start, end)
		q = q.Where("id NOT IN (?)", sub)
	}

	var rooms []models.Room
	if err := q.Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("free room search: %w", err)
	}
	return rooms, nil
}

type dayKey struct {
	RoomID uint
	Date   string
}

// MonthGrid builds the dense room × day status grid for one month.
//
// Per cell the precedence is:
//  1. a room_statuses override for (room, day) wins outright,
//  2. else a booking covering the day contributes its occupancy status,
//     defaulting to "booked" when the field is empty or not one of the six
//     occupancy states,
//  3. else days strictly before today are "vacant" and the rest "ready".
func (s *AvailabilityService) MonthGrid(year, month int, complexFilter, selectedDate string) (*MonthGrid, error) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	firstDay := first.Format(dayLayout)
	lastDay := last.Format(dayLayout)

	var days []string
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(dayLayout))
	}

	today := s.Now().Format(dayLayout)
	if selectedDate == "" || selectedDate < firstDay || selectedDate > lastDay {
		if today >= firstDay && today <= lastDay {
			selectedDate = today
		} else {
			selectedDate = firstDay
		}
	}

	roomQuery := s.DB.Order("room_number")
	if complexFilter != "" {
		roomQuery = roomQuery.Where("residential_complex = ?", complexFilter)
	}
	var rooms []models.Room
	if err := roomQuery.Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}

	var bookings []models.Booking
	if err := s.DB.
		Where("check_in_date <= ? AND check_out_date >= ?", lastDay, firstDay).
		Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}

	var overrides []models.RoomStatus
	if err := s.DB.
		Where("date >= ? AND date <= ?", firstDay, lastDay).
		Find(&overrides).Error; err != nil {
		return nil, fmt.Errorf("load room statuses: %w", err)
	}
	overrideMap := make(map[dayKey]string, len(overrides))
	for _, o := range overrides {
		overrideMap[dayKey{o.RoomID, o.Date}] = o.Status
	}

	guestNames := map[uint]string{}
	var guests []models.Guest
	if err := s.DB.Select("id", "name").Find(&guests).Error; err == nil {
		for _, g := range guests {
			guestNames[g.ID] = g.Name
		}
	}

	bookingMap := make(map[dayKey]*CalendarBooking)
	for i := range bookings {
		b := bookings[i]
		in, errIn := parseDay(b.CheckInDate)
		out, errOut := parseDay(b.CheckOutDate)
		if errIn != nil || errOut != nil {
			log.Printf("calendar: skipping booking %d with bad dates %q..%q", b.ID, b.CheckInDate, b.CheckOutDate)
			continue
		}
		cb := &CalendarBooking{
			ID:              b.ID,
			GuestID:         b.GuestID,
			GuestName:       guestNames[b.GuestID],
			CheckInDate:     b.CheckInDate,
			CheckOutDate:    b.CheckOutDate,
			OccupancyStatus: b.OccupancyStatus,
			DepositStatus:   b.DepositStatus,
			TotalAmount:     b.TotalAmount,
			PaidAmount:      b.PaidAmount,
		}
		if b.TotalAmount != nil {
			nights := int(out.Sub(in).Hours() / 24)
			if nights == 0 {
				nights = 1
			}
			if nights > 0 {
				rate := *b.TotalAmount / float64(nights)
				cb.RatePerDay = &rate
			}
		}
		for _, d := range bookingDays(in, out) {
			bookingMap[dayKey{b.RoomID, d}] = cb
		}
	}

	grid := &MonthGrid{
		Year:         year,
		Month:        month,
		Days:         days,
		SelectedDate: selectedDate,
		Summary: map[string]int{
			models.StatusOccupied: 0,
			models.StatusVacant:   0,
			models.StatusBooked:   0,
			models.StatusReady:    0,
			models.StatusCleaning: 0,
			models.StatusHourly:   0,
		},
	}

	for _, room := range rooms {
		row := RoomCalendar{Room: room, Days: make([]DayCell, 0, len(days))}
		for _, d := range days {
			cell := DayCell{Date: d}
			booking := bookingMap[dayKey{room.ID, d}]
			if override, ok := overrideMap[dayKey{room.ID, d}]; ok {
				cell.Status = override
				cell.Source = SourceOverride
				cell.Booking = booking
			} else if booking != nil {
				st := booking.OccupancyStatus
				if !models.IsOccupancyStatus(st) {
					st = models.StatusBooked
				}
				cell.Status = st
				cell.Source = SourceBooking
				cell.Booking = booking
			} else {
				if d < today {
					cell.Status = models.StatusVacant
				} else {
					cell.Status = models.StatusReady
				}
				cell.Source = SourceDerived
			}
			if d == selectedDate {
				key := cell.Status
				if !models.IsOccupancyStatus(key) {
					key = models.StatusBooked
				}
				grid.Summary[key]++
			}
			row.Days = append(row.Days, cell)
		}
		grid.Rooms = append(grid.Rooms, row)
	}

	return grid, nil
}

// upsertRange writes status for every day a booking occupies. With
// keepExisting, days that already carry a status are left untouched so
// manual overrides survive a booking edit.
func upsertRange(db *gorm.DB, roomID uint, checkIn, checkOut, status string, keepExisting bool) error {
	in, err := parseDay(checkIn)
	if err != nil {
		return fmt.Errorf("%w: check-in %q", ErrInvalidDate, checkIn)
	}
	out, err := parseDay(checkOut)
	if err != nil {
		return fmt.Errorf("%w: check-out %q", ErrInvalidDate, checkOut)
	}

	conflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "room_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"status": status}),
	}
	if keepExisting {
		conflict = clause.OnConflict{
			Columns:   []clause.Column{{Name: "room_id"}, {Name: "date"}},
			DoNothing: true,
		}
	}

	rows := make([]models.RoomStatus, 0)
	for _, d := range bookingDays(in, out) {
		rows = append(rows, models.RoomStatus{RoomID: roomID, Date: d, Status: status})
	}
	if err := db.Clauses(conflict).Create(&rows).Error; err != nil {
		return fmt.Errorf("upsert room statuses: %w", err)
	}
	return nil
}

// MarkBookedRange marks every night of a booking as "booked". The create
// path overwrites stale statuses; the edit path keeps manual overrides.
func MarkBookedRange(db *gorm.DB, roomID uint, checkIn, checkOut string, keepExisting bool) error {
	return upsertRange(db, roomID, checkIn, checkOut, models.StatusBooked, keepExisting)
}

// ResetRangeReady returns a deleted booking's nights to "ready".
func ResetRangeReady(db *gorm.DB, roomID uint, checkIn, checkOut string) error {
	return upsertRange(db, roomID, checkIn, checkOut, models.StatusReady, false)
}

// SetDayStatus stores a manual status for a room on one date. When the date
// falls inside a booking, the whole night range of every such booking gets
// the status, and for occupancy states the booking record itself is updated
// so the state survives page reloads.
func (s *AvailabilityService) SetDayStatus(roomID uint, dateStr, status string) error {
	if _, err := parseDay(dateStr); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, dateStr)
	}
	if status == "" {
		status = models.StatusReady
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		var bookings []models.Booking
		if err := tx.
			Where("room_id = ? AND check_in_date <= ? AND check_out_date >= ?", roomID, dateStr, dateStr).
			Find(&bookings).Error; err != nil {
			return err
		}

		dates := map[string]struct{}{}
		for _, b := range bookings {
			in, errIn := parseDay(b.CheckInDate)
			out, errOut := parseDay(b.CheckOutDate)
			if errIn != nil || errOut != nil {
				log.Printf("set status: skipping booking %d with bad dates %q..%q", b.ID, b.CheckInDate, b.CheckOutDate)
				continue
			}
			for _, d := range bookingDays(in, out) {
				dates[d] = struct{}{}
			}
		}
		if len(dates) == 0 {
			dates[dateStr] = struct{}{}
		}

		rows := make([]models.RoomStatus, 0, len(dates))
		for d := range dates {
			rows = append(rows, models.RoomStatus{RoomID: roomID, Date: d, Status: status})
		}
		conflict := clause.OnConflict{
			Columns:   []clause.Column{{Name: "room_id"}, {Name: "date"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"status": status}),
		}
		if err := tx.Clauses(conflict).Create(&rows).Error; err != nil {
			return err
		}

		if models.IsOccupancyStatus(status) && len(bookings) > 0 {
			if err := tx.Model(&models.Booking{}).
				Where("room_id = ? AND check_in_date <= ? AND check_out_date >= ?", roomID, dateStr, dateStr).
				Update("occupancy_status", status).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DayStatus returns the current override for (room, date), empty when none.
func (s *AvailabilityService) DayStatus(roomID uint, dateStr string) (string, error) {
	var row models.RoomStatus
	err := s.DB.Where("room_id = ? AND date = ?", roomID, dateStr).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return row.Status, nil
}

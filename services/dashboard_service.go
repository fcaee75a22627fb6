// services/dashboard_service.go
package services

import (
	"fmt"
	"log"
	"math"
	"time"

	"aparthotel-backend/models"

	"gorm.io/gorm"
)

// RoomStat carries per-room KPIs for the dashboard table. Revenue here is
// prorated by the fraction of a booking's nights inside the window, unlike
// the aggregate TotalRevenue which counts whole bookings.
type RoomStat struct {
	RoomNumber    string           `json:"room_number"`
	NightsSold    int              `json:"nights_sold"`
	EmptyNights   int              `json:"empty_nights"`
	Occupancy     float64          `json:"occupancy"`
	Revenue       float64          `json:"revenue"`
	ADR           float64          `json:"adr"`
	BookingCount  int              `json:"booking_count"`
	DepositCounts map[string]int64 `json:"deposit_counts"`
}

type DashboardStats struct {
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	RoomsCount      int64   `json:"rooms_count"`
	SoldNights      int     `json:"sold_nights"`
	NightsAvailable int     `json:"nights_available"`
	Occupancy       float64 `json:"occupancy"`
	TotalRevenue    float64 `json:"total_revenue"`
	ADR             float64 `json:"adr"`
	RevPAR          float64 `json:"revpar"`
	CheckInCount    int64   `json:"check_in_count"`
	CheckOutCount   int64   `json:"check_out_count"`

	DepositCounts map[string]int64 `json:"deposit_counts"`

	// 14-day pick-up series, parallel arrays keyed by PickupDates labels.
	PickupDates     []string  `json:"pickup_dates"`
	PickupOccupancy []float64 `json:"pickup_occupancy"`
	PickupRevenue   []float64 `json:"pickup_revenue"`

	RoomStats []RoomStat `json:"room_stats"`
}

// DashboardService recomputes every metric from the booking rows on each
// request; nothing is cached or updated incrementally.
type DashboardService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{DB: db, Now: time.Now}
}

// PeriodRange translates the quick-select buttons (1d, week, month, year)
// into an inclusive [start, end] window ending today.
func (s *DashboardService) PeriodRange(period string) (string, string, bool) {
	end := s.Now()
	var start time.Time
	switch period {
	case "1d":
		start = end
	case "week":
		start = end.AddDate(0, 0, -6)
	case "month":
		start = end.AddDate(0, 0, -29)
	case "year":
		start = end.AddDate(0, 0, -364)
	default:
		return "", "", false
	}
	return start.Format(dayLayout), end.Format(dayLayout), true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Stats computes the KPI block for an inclusive [start, end] window.
// Invalid inputs degrade rather than fail: unparseable dates fall back to
// today, a reversed range is swapped, and bookings with corrupt dates are
// skipped with a log line. Zero denominators yield zero metrics.
func (s *DashboardService) Stats(startStr, endStr string) (*DashboardStats, error) {
	today := s.Now()
	start, err := parseDay(startStr)
	if err != nil {
		start = today
	}
	end, err := parseDay(endStr)
	if err != nil {
		end = today
	}
	if start.After(end) {
		start, end = end, start
	}

	startDay := start.Format(dayLayout)
	endDay := end.Format(dayLayout)
	// End boundary exclusive for night math: a booking checking in on the
	// day after the window sells no nights inside it.
	endExcl := end.AddDate(0, 0, 1).Format(dayLayout)
	periodDays := int(end.Sub(start).Hours()/24) + 1

	stats := &DashboardStats{
		StartDate:     startDay,
		EndDate:       endDay,
		DepositCounts: map[string]int64{},
	}

	if err := s.DB.Model(&models.Room{}).Count(&stats.RoomsCount).Error; err != nil {
		return nil, fmt.Errorf("count rooms: %w", err)
	}

	var overlapping []models.Booking
	if err := s.DB.
		Select("id", "room_id", "check_in_date", "check_out_date", "total_amount").
		Where("check_out_date > ? AND check_in_date < ?", startDay, endExcl).
		Find(&overlapping).Error; err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}

	for _, b := range overlapping {
		in, errIn := parseDay(b.CheckInDate)
		out, errOut := parseDay(b.CheckOutDate)
		if errIn != nil || errOut != nil {
			log.Printf("dashboard: skipping booking %d with bad dates %q..%q", b.ID, b.CheckInDate, b.CheckOutDate)
			continue
		}
		overlapStart := maxTime(in, start)
		overlapEnd := minTime(out, end.AddDate(0, 0, 1))
		nights := int(overlapEnd.Sub(overlapStart).Hours() / 24)
		if nights > 0 {
			stats.SoldNights += nights
		}
	}

	stats.NightsAvailable = int(stats.RoomsCount) * periodDays
	if stats.NightsAvailable > 0 {
		stats.Occupancy = float64(stats.SoldNights) / float64(stats.NightsAvailable) * 100
	}

	// Aggregate revenue counts each intersecting booking's full amount,
	// even when only part of it falls inside the window. Per-room revenue
	// below prorates instead, so the two do not reconcile by summation.
	var totalRevenue *float64
	if err := s.DB.Model(&models.Booking{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("check_out_date > ? AND check_in_date < ?", startDay, endExcl).
		Scan(&totalRevenue).Error; err == nil && totalRevenue != nil {
		stats.TotalRevenue = *totalRevenue
	}

	if stats.SoldNights > 0 {
		stats.ADR = stats.TotalRevenue / float64(stats.SoldNights)
	}
	if stats.NightsAvailable > 0 {
		stats.RevPAR = stats.TotalRevenue / float64(stats.NightsAvailable)
	}

	s.DB.Model(&models.Booking{}).Where("check_in_date = ?", startDay).Count(&stats.CheckInCount)
	s.DB.Model(&models.Booking{}).Where("check_out_date = ?", startDay).Count(&stats.CheckOutCount)

	type statusCount struct {
		Status string
		Count  int64
	}
	var depositRows []statusCount
	if err := s.DB.Model(&models.Booking{}).
		Select("deposit_status AS status, COUNT(*) AS count").
		Where("paid_amount IS NOT NULL AND paid_amount > 0").
		Where("check_out_date > ? AND check_in_date < ?", startDay, endExcl).
		Group("deposit_status").
		Scan(&depositRows).Error; err == nil {
		for _, row := range depositRows {
			stats.DepositCounts[row.Status] = row.Count
		}
	}

	s.pickupSeries(stats, start)
	if err := s.roomStats(stats, start, end, startDay, endExcl, periodDays); err != nil {
		return nil, err
	}

	return stats, nil
}

// pickupSeries fills the day-by-day occupancy and prorated revenue for the
// 14 days following the window start.
func (s *DashboardService) pickupSeries(stats *DashboardStats, start time.Time) {
	for i := 0; i < 14; i++ {
		day := start.AddDate(0, 0, i)
		dayStr := day.Format(dayLayout)
		stats.PickupDates = append(stats.PickupDates, day.Format("02.01"))

		var rows []models.Booking
		err := s.DB.
			Select("id", "check_in_date", "check_out_date", "total_amount").
			Where("check_in_date <= ? AND check_out_date > ?", dayStr, dayStr).
			Find(&rows).Error
		if err != nil {
			rows = nil
		}

		soldForDay := 0
		revenueForDay := 0.0
		for _, b := range rows {
			in, errIn := parseDay(b.CheckInDate)
			out, errOut := parseDay(b.CheckOutDate)
			if errIn != nil || errOut != nil {
				log.Printf("dashboard: skipping booking %d with bad dates %q..%q", b.ID, b.CheckInDate, b.CheckOutDate)
				continue
			}
			if !in.After(day) && out.After(day) {
				soldForDay++
				nightsTotal := int(out.Sub(in).Hours() / 24)
				if nightsTotal > 0 && b.TotalAmount != nil {
					revenueForDay += *b.TotalAmount / float64(nightsTotal)
				}
			}
		}

		occ := 0.0
		if stats.RoomsCount > 0 {
			occ = float64(soldForDay) / float64(stats.RoomsCount) * 100
		}
		stats.PickupOccupancy = append(stats.PickupOccupancy, round2(occ))
		stats.PickupRevenue = append(stats.PickupRevenue, round2(revenueForDay))
	}
}

func (s *DashboardService) roomStats(stats *DashboardStats, start, end time.Time, startDay, endExcl string, periodDays int) error {
	type roomAgg struct {
		nightsSold   int
		revenue      float64
		bookingCount int
	}
	aggByRoom := map[uint]*roomAgg{}

	var bookings []models.Booking
	if err := s.DB.
		Select("id", "room_id", "check_in_date", "check_out_date", "total_amount").
		Where("check_out_date > ? AND check_in_date < ?", startDay, endExcl).
		Find(&bookings).Error; err != nil {
		return fmt.Errorf("load per-room bookings: %w", err)
	}

	for _, b := range bookings {
		in, errIn := parseDay(b.CheckInDate)
		out, errOut := parseDay(b.CheckOutDate)
		if errIn != nil || errOut != nil {
			log.Printf("dashboard: skipping booking %d with bad dates %q..%q", b.ID, b.CheckInDate, b.CheckOutDate)
			continue
		}
		overlapStart := maxTime(in, start)
		overlapEnd := minTime(out, end.AddDate(0, 0, 1))
		nightsOverlap := int(overlapEnd.Sub(overlapStart).Hours() / 24)
		if nightsOverlap <= 0 {
			continue
		}
		agg := aggByRoom[b.RoomID]
		if agg == nil {
			agg = &roomAgg{}
			aggByRoom[b.RoomID] = agg
		}
		agg.nightsSold += nightsOverlap
		agg.bookingCount++
		nightsTotal := int(out.Sub(in).Hours() / 24)
		if nightsTotal > 0 && b.TotalAmount != nil {
			agg.revenue += *b.TotalAmount / float64(nightsTotal) * float64(nightsOverlap)
		}
	}

	type roomStatusCount struct {
		RoomID uint
		Status string
		Count  int64
	}
	depositByRoom := map[uint]map[string]int64{}
	var depositRows []roomStatusCount
	if err := s.DB.Model(&models.Booking{}).
		Select("room_id, deposit_status AS status, COUNT(*) AS count").
		Where("paid_amount IS NOT NULL AND paid_amount > 0").
		Where("check_out_date > ? AND check_in_date < ?", startDay, endExcl).
		Group("room_id, deposit_status").
		Scan(&depositRows).Error; err == nil {
		for _, row := range depositRows {
			if depositByRoom[row.RoomID] == nil {
				depositByRoom[row.RoomID] = map[string]int64{}
			}
			depositByRoom[row.RoomID][row.Status] = row.Count
		}
	}

	var rooms []models.Room
	if err := s.DB.Order("room_number").Find(&rooms).Error; err != nil {
		return fmt.Errorf("load rooms: %w", err)
	}

	for _, r := range rooms {
		agg := aggByRoom[r.ID]
		st := RoomStat{
			RoomNumber:    r.RoomNumber,
			DepositCounts: depositByRoom[r.ID],
		}
		if st.DepositCounts == nil {
			st.DepositCounts = map[string]int64{}
		}
		if agg != nil {
			st.NightsSold = agg.nightsSold
			st.Revenue = agg.revenue
			st.BookingCount = agg.bookingCount
		}
		st.EmptyNights = periodDays - st.NightsSold
		if periodDays > 0 {
			st.Occupancy = float64(st.NightsSold) / float64(periodDays) * 100
		}
		if st.NightsSold > 0 {
			st.ADR = st.Revenue / float64(st.NightsSold)
		}
		stats.RoomStats = append(stats.RoomStats, st)
	}

	return nil
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

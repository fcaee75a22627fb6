// services/export_service.go
package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportService renders the bookings table to an XLSX workbook for the
// accountant.
type ExportService struct {
	Bookings *BookingService
}

func NewExportService(db *gorm.DB) *ExportService {
	return &ExportService{Bookings: NewBookingService(db)}
}

// BookingsXLSX builds the workbook in memory and returns its bytes. An
// optional [start, end] range keeps only bookings checking in inside it.
func (s *ExportService) BookingsXLSX(start, end string) ([]byte, error) {
	rows, err := s.Bookings.List()
	if err != nil {
		return nil, err
	}
	if start != "" && end != "" {
		if start > end {
			start, end = end, start
		}
		kept := rows[:0]
		for _, row := range rows {
			if row.CheckInDate >= start && row.CheckInDate <= end {
				kept = append(kept, row)
			}
		}
		rows = kept
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Bookings"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{
		"ID", "Guest", "Phone", "Room", "Check-in", "Check-out",
		"Nights", "Total", "Paid", "Deposit", "Manager", "Notes",
	}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for r, row := range rows {
		values := []interface{}{
			row.ID, row.GuestName, row.GuestPhone, row.RoomNumber,
			row.CheckInDate, row.CheckOutDate, row.Nights,
			floatOrEmpty(row.TotalAmount), floatOrEmpty(row.PaidAmount),
			row.DepositStatus, row.ManagerName, row.Notes,
		}
		for c, v := range values {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("write row %d: %w", r+2, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func floatOrEmpty(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

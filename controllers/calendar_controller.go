// controllers/calendar_controller.go
package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"aparthotel-backend/services"
	"aparthotel-backend/utils"

	"github.com/gin-gonic/gin"
)

type SetStatusPayload struct {
	RoomID uint   `json:"room_id" binding:"required"`
	Date   string `json:"date" binding:"required"`
	Status string `json:"status"`
}

type CalendarController struct {
	Availability *services.AvailabilityService
}

func NewCalendarController(svc *services.AvailabilityService) *CalendarController {
	return &CalendarController{Availability: svc}
}

// GET /api/calendar?year=&month=&complex=&date=
func (ctl *CalendarController) MonthGrid(c *gin.Context) {
	now := time.Now()
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid year")
		return
	}
	month, err := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	if err != nil || month < 1 || month > 12 {
		utils.JSONError(c, http.StatusBadRequest, "invalid month")
		return
	}

	grid, err := ctl.Availability.MonthGrid(year, month, c.Query("complex"), c.Query("date"))
	if err != nil {
		log.Printf("calendar grid: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "could not build calendar")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, grid)
}

// POST /api/calendar/status
func (ctl *CalendarController) SetStatus(c *gin.Context) {
	var payload SetStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "room and date are required")
		return
	}

	if err := ctl.Availability.SetDayStatus(payload.RoomID, payload.Date, payload.Status); err != nil {
		if errors.Is(err, services.ErrInvalidDate) {
			utils.JSONError(c, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("set day status: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "could not save status")
		return
	}
	utils.JSONMessage(c, http.StatusOK, "status saved")
}

// controllers/booking_controller.go
package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"aparthotel-backend/middleware"
	"aparthotel-backend/services"
	"aparthotel-backend/utils"

	"github.com/gin-gonic/gin"
)

type BookingController struct {
	Bookings *services.BookingService
	Export   *services.ExportService
}

func NewBookingController(bookings *services.BookingService, export *services.ExportService) *BookingController {
	return &BookingController{Bookings: bookings, Export: export}
}

// GET /api/bookings
func (ctl *BookingController) List(c *gin.Context) {
	rows, err := ctl.Bookings.List()
	if err != nil {
		log.Printf("booking list: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "could not load bookings")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rows)
}

// GET /api/bookings/:id
func (ctl *BookingController) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	booking, err := ctl.Bookings.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrBookingNotFound) {
			utils.JSONError(c, http.StatusNotFound, err.Error())
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "could not load booking")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// POST /api/bookings
func (ctl *BookingController) Create(c *gin.Context) {
	var input services.BookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "room and dates are required")
		return
	}

	var createdBy *uint
	if userID, ok := middleware.UserID(c); ok {
		createdBy = &userID
	}

	booking, err := ctl.Bookings.Create(&input, createdBy)
	if err != nil {
		if errors.Is(err, services.ErrRoomUnavailable) {
			utils.JSONError(c, http.StatusConflict, err.Error())
			return
		}
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, booking)
}

// PUT /api/bookings/:id
func (ctl *BookingController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input services.BookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid booking payload")
		return
	}

	booking, err := ctl.Bookings.Update(id, &input)
	if err != nil {
		if errors.Is(err, services.ErrBookingNotFound) {
			utils.JSONError(c, http.StatusNotFound, err.Error())
			return
		}
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// DELETE /api/bookings/:id
func (ctl *BookingController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := ctl.Bookings.Delete(id); err != nil {
		if errors.Is(err, services.ErrBookingNotFound) {
			utils.JSONError(c, http.StatusNotFound, err.Error())
			return
		}
		log.Printf("booking delete: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "could not delete booking")
		return
	}
	utils.JSONMessage(c, http.StatusOK, "booking deleted")
}

// GET /api/guests/:id/bookings
func (ctl *BookingController) ByGuest(c *gin.Context) {
	guestID, ok := parseID(c)
	if !ok {
		return
	}
	bookings, err := ctl.Bookings.ByGuest(guestID)
	if err != nil {
		log.Printf("bookings by guest: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "could not load bookings")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bookings)
}

// GET /api/bookings/export
func (ctl *BookingController) ExportXLSX(c *gin.Context) {
	data, err := ctl.Export.BookingsXLSX(c.Query("start"), c.Query("end"))
	if err != nil {
		log.Printf("booking export: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "export failed")
		return
	}

	filename := fmt.Sprintf("bookings_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// controllers/guest_controller.go
package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"aparthotel-backend/models"
	"aparthotel-backend/services"
	"aparthotel-backend/utils"

	"github.com/gin-gonic/gin"
)

type GuestController struct {
	Guests *services.GuestService
}

func NewGuestController(svc *services.GuestService) *GuestController {
	return &GuestController{Guests: svc}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// GET /api/guests?search=
func (ctl *GuestController) List(c *gin.Context) {
	guests, err := ctl.Guests.List(c.Query("search"))
	if err != nil {
		log.Printf("guest list: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "could not load guests")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, guests)
}

// GET /api/guests/:id
func (ctl *GuestController) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	details, err := ctl.Guests.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrGuestNotFound) {
			utils.JSONError(c, http.StatusNotFound, err.Error())
			return
		}
		log.Printf("guest get: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "could not load guest")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, details)
}

// POST /api/guests
func (ctl *GuestController) Create(c *gin.Context) {
	var guest models.Guest
	if err := c.ShouldBindJSON(&guest); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid guest payload")
		return
	}

	if err := ctl.Guests.Create(&guest); err != nil {
		if errors.Is(err, services.ErrDuplicateGuest) {
			utils.JSONError(c, http.StatusConflict, err.Error())
			return
		}
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, guest)
}

// PUT /api/guests/:id
func (ctl *GuestController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input services.GuestUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid guest payload")
		return
	}

	guest, err := ctl.Guests.Update(id, &input)
	if err != nil {
		if errors.Is(err, services.ErrGuestNotFound) {
			utils.JSONError(c, http.StatusNotFound, err.Error())
			return
		}
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, guest)
}

// POST /api/guests/verify
func (ctl *GuestController) VerifyByPhone(c *gin.Context) {
	var payload struct {
		Phone string `json:"phone" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "phone is required")
		return
	}

	details, err := ctl.Guests.FindByPhone(payload.Phone)
	if err != nil {
		if errors.Is(err, services.ErrGuestNotFound) {
			utils.JSONError(c, http.StatusNotFound, err.Error())
			return
		}
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, details)
}

// controllers/blacklist_controller.go
package controllers

import (
	"errors"
	"net/http"

	"aparthotel-backend/services"
	"aparthotel-backend/utils"

	"github.com/gin-gonic/gin"
)

type BlacklistController struct {
	Blacklist *services.BlacklistService
}

func NewBlacklistController(svc *services.BlacklistService) *BlacklistController {
	return &BlacklistController{Blacklist: svc}
}

// GET /api/blacklist
func (ctl *BlacklistController) List(c *gin.Context) {
	entries, err := ctl.Blacklist.List()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "could not load blacklist")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, entries)
}

// POST /api/blacklist
func (ctl *BlacklistController) Add(c *gin.Context) {
	var payload struct {
		GuestID uint   `json:"guest_id"`
		Phone   string `json:"phone"`
		Reason  string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	var err error
	var entry interface{}
	if payload.GuestID != 0 {
		entry, err = ctl.Blacklist.AddGuest(payload.GuestID, payload.Reason)
	} else {
		entry, err = ctl.Blacklist.Add(payload.Phone, payload.Reason)
	}
	if err != nil {
		if errors.Is(err, services.ErrGuestNotFound) {
			utils.JSONError(c, http.StatusNotFound, err.Error())
			return
		}
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, entry)
}

// DELETE /api/blacklist
func (ctl *BlacklistController) Remove(c *gin.Context) {
	phone := c.Query("phone")
	if phone == "" {
		utils.JSONError(c, http.StatusBadRequest, "phone is required")
		return
	}
	if err := ctl.Blacklist.Remove(phone); err != nil {
		if errors.Is(err, services.ErrBlacklistNotFound) {
			utils.JSONError(c, http.StatusNotFound, err.Error())
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "could not remove entry")
		return
	}
	utils.JSONMessage(c, http.StatusOK, "entry removed")
}

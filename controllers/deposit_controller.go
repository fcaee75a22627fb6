// controllers/deposit_controller.go
package controllers

import (
	"errors"
	"log"
	"net/http"

	"aparthotel-backend/services"
	"aparthotel-backend/utils"

	"github.com/gin-gonic/gin"
)

type DepositController struct {
	Deposits *services.DepositService
}

func NewDepositController(svc *services.DepositService) *DepositController {
	return &DepositController{Deposits: svc}
}

// GET /api/deposits/current
func (ctl *DepositController) Current(c *gin.Context) {
	rows, err := ctl.Deposits.Current()
	if err != nil {
		log.Printf("deposits current: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "could not load deposits")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rows)
}

// GET /api/deposits/returned
func (ctl *DepositController) Returned(c *gin.Context) {
	rows, err := ctl.Deposits.Returned()
	if err != nil {
		log.Printf("deposits returned: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "could not load deposits")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rows)
}

// PUT /api/deposits/:id
func (ctl *DepositController) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var payload struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "status is required")
		return
	}

	if err := ctl.Deposits.UpdateStatus(id, payload.Status); err != nil {
		if errors.Is(err, services.ErrBookingNotFound) {
			utils.JSONError(c, http.StatusNotFound, err.Error())
			return
		}
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSONMessage(c, http.StatusOK, "deposit status updated")
}

// controllers/dashboard_controller.go
package controllers

import (
	"log"
	"net/http"

	"aparthotel-backend/services"
	"aparthotel-backend/utils"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	Dashboard *services.DashboardService
}

func NewDashboardController(svc *services.DashboardService) *DashboardController {
	return &DashboardController{Dashboard: svc}
}

// GET /api/dashboard?start=&end=&period=
//
// period (1d, week, month, year) wins over explicit dates when present.
func (ctl *DashboardController) Stats(c *gin.Context) {
	start := c.Query("start")
	end := c.Query("end")
	if period := c.Query("period"); period != "" {
		if s, e, ok := ctl.Dashboard.PeriodRange(period); ok {
			start, end = s, e
		} else {
			utils.JSONError(c, http.StatusBadRequest, "unknown period")
			return
		}
	}

	stats, err := ctl.Dashboard.Stats(start, end)
	if err != nil {
		log.Printf("dashboard stats: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "could not compute stats")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, stats)
}

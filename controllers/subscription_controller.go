// controllers/subscription_controller.go
package controllers

import (
	"errors"
	"net/http"

	"aparthotel-backend/middleware"
	"aparthotel-backend/services"
	"aparthotel-backend/utils"

	"github.com/gin-gonic/gin"
)

type SubscriptionController struct {
	Subscriptions *services.SubscriptionService
}

func NewSubscriptionController(svc *services.SubscriptionService) *SubscriptionController {
	return &SubscriptionController{Subscriptions: svc}
}

// GET /api/subscriptions/plans
func (ctl *SubscriptionController) Plans(c *gin.Context) {
	utils.JSONSuccess(c, http.StatusOK, ctl.Subscriptions.Plans())
}

// POST /api/subscriptions
func (ctl *SubscriptionController) Subscribe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "authentication required")
		return
	}
	var payload struct {
		Plan string `json:"plan" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "plan is required")
		return
	}

	sub, err := ctl.Subscriptions.Subscribe(userID, payload.Plan)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, gin.H{
		"payment_id":  sub.PaymentID,
		"payment_url": sub.PaymentURL,
		"price":       sub.Price,
	})
}

// GET /api/subscriptions/current
func (ctl *SubscriptionController) Current(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "authentication required")
		return
	}
	sub, err := ctl.Subscriptions.Current(userID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "could not load subscription")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, sub)
}

// POST /api/payments/callback
//
// Called by the payment gateway, no auth. The payment id alone identifies
// the pending subscription.
func (ctl *SubscriptionController) PaymentCallback(c *gin.Context) {
	var payload struct {
		PaymentID string `json:"payment_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "payment_id is required")
		return
	}

	sub, err := ctl.Subscriptions.ConfirmPayment(payload.PaymentID)
	if err != nil {
		if errors.Is(err, services.ErrPaymentNotFound) {
			utils.JSONError(c, http.StatusNotFound, err.Error())
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "could not confirm payment")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, sub)
}

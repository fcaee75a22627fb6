// services/subscription_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"aparthotel-backend/models"
	"aparthotel-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrPaymentNotFound = errors.New("payment not found")

// Plan prices in tenge per month.
var planPrices = map[string]float64{
	"standard": 1000,
	"premium":  2000,
}

// SubscriptionService sells access plans through the Kaspi payment stub:
// Subscribe creates a pending row with a payment link, the gateway calls
// back with the payment id, and the row goes active for 30 days.
type SubscriptionService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{DB: db, Now: time.Now}
}

// Plans lists the purchasable plans with their prices.
func (s *SubscriptionService) Plans() map[string]float64 {
	out := make(map[string]float64, len(planPrices))
	for k, v := range planPrices {
		out[k] = v
	}
	return out
}

// Subscribe opens a pending subscription and returns it with the payment
// URL the client should redirect to.
func (s *SubscriptionService) Subscribe(userID uint, plan string) (*models.Subscription, error) {
	price, ok := planPrices[plan]
	if !ok {
		return nil, fmt.Errorf("unknown plan %q", plan)
	}

	paymentID := uuid.NewString()
	base := utils.EnvOrDefault("KASPI_PAYMENT_URL", "https://pay.kaspi.kz/pay")
	sub := models.Subscription{
		UserID:     userID,
		Plan:       plan,
		Price:      price,
		PaymentID:  paymentID,
		PaymentURL: fmt.Sprintf("%s?service=aparthotel&amount=%.0f&txn_id=%s", base, price, paymentID),
		Status:     models.SubscriptionPending,
	}
	if err := s.DB.Create(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// ConfirmPayment handles the gateway callback: the matching pending row
// becomes active with the next billing date 30 days out. Confirming an
// already active payment is a no-op.
func (s *SubscriptionService) ConfirmPayment(paymentID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.DB.Where("payment_id = ?", paymentID).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	if sub.Status == models.SubscriptionActive {
		return &sub, nil
	}

	sub.Status = models.SubscriptionActive
	sub.NextBillingDate = s.Now().AddDate(0, 0, 30).Format(dayLayout)
	if err := s.DB.Save(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// Current returns the user's latest active subscription, if any.
func (s *SubscriptionService) Current(userID uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.DB.Where("user_id = ? AND status = ?", userID, models.SubscriptionActive).
		Order("created_at DESC").
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

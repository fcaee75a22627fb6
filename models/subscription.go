package models

import "time"

const (
	SubscriptionPending = "pending"
	SubscriptionActive  = "active"
)

// Subscription records a plan purchase. Payment goes through the Kaspi
// stub: a pending row is created with a generated payment id and becomes
// active when the callback fires.
type Subscription struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID          uint    `gorm:"index;column:user_id" json:"user_id"`
	Plan            string  `gorm:"column:plan_name;size:64" json:"plan_name"`
	Price           float64 `json:"price"`
	PaymentID       string  `gorm:"column:payment_id;uniqueIndex;size:64" json:"payment_id"`
	PaymentURL      string  `gorm:"column:payment_url;size:255" json:"payment_url,omitempty"`
	NextBillingDate string  `gorm:"column:next_billing_date;size:10" json:"next_billing_date,omitempty"`
	Status          string  `gorm:"size:32;default:pending" json:"status"`
}

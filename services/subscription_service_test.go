package services

import (
	"testing"

	"aparthotel-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeAndConfirm(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubscriptionService(db)
	svc.Now = fixedNow("2025-06-01")

	sub, err := svc.Subscribe(7, "premium")
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionPending, sub.Status)
	assert.InDelta(t, 2000.0, sub.Price, 0.001)
	assert.NotEmpty(t, sub.PaymentID)
	assert.Contains(t, sub.PaymentURL, sub.PaymentID)

	current, err := svc.Current(7)
	require.NoError(t, err)
	assert.Nil(t, current)

	confirmed, err := svc.ConfirmPayment(sub.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionActive, confirmed.Status)
	assert.Equal(t, "2025-07-01", confirmed.NextBillingDate)

	// Second callback for the same payment is a no-op.
	again, err := svc.ConfirmPayment(sub.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, confirmed.NextBillingDate, again.NextBillingDate)

	current, err = svc.Current(7)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "premium", current.Plan)

	_, err = svc.Subscribe(7, "platinum")
	require.Error(t, err)
	_, err = svc.ConfirmPayment("no-such-payment")
	require.ErrorIs(t, err, ErrPaymentNotFound)
}

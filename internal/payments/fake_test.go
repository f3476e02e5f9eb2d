package payments

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeGateway_Lifecycle(t *testing.T) {
	g := NewFakeGateway()
	ctx := context.Background()

	s, err := g.CreateCheckoutSession(ctx, CheckoutRequest{UserID: "u1", UnitAmount: 100, Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(500), s.AmountTotal)
	assert.Equal(t, SessionOpen, s.Status)

	g.SetStatus(s.ID, SessionPaid)
	got, err := g.GetCheckoutSession(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, SessionPaid, got.Status)

	_, err = g.GetCheckoutSession(ctx, "cs_missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestNewStripeGateway_RequiresKey(t *testing.T) {
	_, err := NewStripeGateway("")
	assert.Error(t, err)

	g, err := NewStripeGateway("sk_test_123")
	require.NoError(t, err)
	assert.NotNil(t, g)
}

package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"swipetonpro_backend/internal/models"
	"swipetonpro_backend/internal/payments"
	"swipetonpro_backend/internal/services/dto"
	"swipetonpro_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchaseCredits_AppliedExactlyOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	artisan := testutil.CreateArtisan(t, env.db, 2)

	checkout, err := env.credits.PurchaseCredits(ctx, env.db, artisan.ID, &dto.PurchaseCreditsRequest{Credits: 10}, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, checkout.CheckoutURL)
	assert.Equal(t, "eur", checkout.Currency)

	// сессия еще не оплачена
	status, err := env.credits.PaymentStatus(ctx, env.db, artisan.ID, checkout.SessionID)
	require.NoError(t, err)
	assert.Equal(t, string(models.PaymentStatusPending), status.Status)
	assert.False(t, status.Applied)
	assert.Equal(t, 2, testutil.Reload(t, env.db, artisan.ID).Credits)

	env.gateway.SetStatus(checkout.SessionID, payments.SessionPaid)

	status, err = env.credits.PaymentStatus(ctx, env.db, artisan.ID, checkout.SessionID)
	require.NoError(t, err)
	assert.True(t, status.Applied)
	assert.Equal(t, string(models.PaymentStatusPaid), status.Status)

	status, err = env.credits.PaymentStatus(ctx, env.db, artisan.ID, checkout.SessionID)
	require.NoError(t, err)
	assert.False(t, status.Applied)

	applied, err := env.credits.ReconcilePending(ctx, env.db, time.Now().Add(time.Minute), 10)
	require.NoError(t, err)
	assert.Zero(t, applied)

	assert.Equal(t, 12, testutil.Reload(t, env.db, artisan.ID).Credits)
	assert.Contains(t, env.notifier.typesFor(artisan.ID), models.NotificationCreditsUpdated)
}

func TestPaymentStatus_HidesForeignSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	artisan := testutil.CreateArtisan(t, env.db, 0)
	other := testutil.CreateArtisan(t, env.db, 0)

	checkout, err := env.credits.PurchasePack(ctx, env.db, artisan.ID, &dto.PurchasePackRequest{Pack: "starter"}, nil)
	require.NoError(t, err)

	_, err = env.credits.PaymentStatus(ctx, env.db, other.ID, checkout.SessionID)
	requireAppError(t, err, http.StatusNotFound)
}

func TestReconcilePending_AppliesPackAndExpires(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	artisan := testutil.CreateArtisan(t, env.db, 0)

	unlimited, err := env.credits.PurchasePack(ctx, env.db, artisan.ID, &dto.PurchasePackRequest{Pack: "unlimited"}, nil)
	require.NoError(t, err)
	abandoned, err := env.credits.PurchaseCredits(ctx, env.db, artisan.ID, &dto.PurchaseCreditsRequest{Credits: 5}, nil)
	require.NoError(t, err)

	env.gateway.SetStatus(unlimited.SessionID, payments.SessionPaid)
	env.gateway.SetStatus(abandoned.SessionID, payments.SessionExpired)

	applied, err := env.credits.ReconcilePending(ctx, env.db, time.Now().Add(time.Minute), 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), applied)

	user := testutil.Reload(t, env.db, artisan.ID)
	assert.True(t, user.UnlimitedCredits)
	assert.Equal(t, "unlimited", user.SubscriptionPack)
	require.NotNil(t, user.SubscriptionExpires)
	assert.Equal(t, 0, user.Credits)

	payment, err := env.paymentRepo.FindBySessionID(env.db, abandoned.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusExpired, payment.Status)

	// просроченная подписка снимается воркером
	past := time.Now().Add(-time.Hour)
	require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", artisan.ID).Update("subscription_expires", past).Error)
	expired, err := env.credits.ExpireSubscriptions(env.db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)
	assert.False(t, testutil.Reload(t, env.db, artisan.ID).UnlimitedCredits)
}

func TestPurchase_OnlyArtisans(t *testing.T) {
	env := newTestEnv(t)
	client := testutil.CreateParticulier(t, env.db)

	_, err := env.credits.PurchaseCredits(context.Background(), env.db, client.ID, &dto.PurchaseCreditsRequest{Credits: 5}, nil)
	requireAppError(t, err, http.StatusForbidden)
	assert.Empty(t, env.gateway.Requests())
}

func TestConnectionCheckout_UnlocksChatOnPayment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	artisan := testutil.CreateArtisan(t, env.db, 0)
	client := testutil.CreateParticulier(t, env.db)
	match, _, err := env.matchRepo.CreateIfAbsent(env.db, artisan.ID, client.ID)
	require.NoError(t, err)

	checkout, err := env.credits.ConnectionCheckout(ctx, env.db, client.ID, match.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(500), checkout.AmountCents)

	env.gateway.SetStatus(checkout.SessionID, payments.SessionPaid)
	status, err := env.credits.PaymentStatus(ctx, env.db, client.ID, checkout.SessionID)
	require.NoError(t, err)
	assert.True(t, status.Applied)

	fresh, err := env.matchRepo.FindByID(env.db, match.ID)
	require.NoError(t, err)
	assert.True(t, fresh.IsChatUnlocked)
	assert.Contains(t, env.notifier.typesFor(artisan.ID), models.NotificationChatUnlocked)

	_, err = env.credits.ConnectionCheckout(ctx, env.db, client.ID, match.ID, nil)
	requireAppError(t, err, http.StatusBadRequest)
}

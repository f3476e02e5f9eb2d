package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"swipetonpro_backend/internal/logger"
	"swipetonpro_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	logger.Init("test")
}

type stubReconciler struct {
	mu        sync.Mutex
	calls     int
	olderThan time.Time
	limit     int
	applied   int64
	err       error
}

func (s *stubReconciler) ReconcilePending(ctx context.Context, db *gorm.DB, olderThan time.Time, limit int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.olderThan = olderThan
	s.limit = limit
	return s.applied, s.err
}

func (s *stubReconciler) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubExpirer struct {
	mu      sync.Mutex
	calls   int
	expired int64
	err     error
}

func (s *stubExpirer) ExpireSubscriptions(db *gorm.DB) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.expired, s.err
}

func (s *stubExpirer) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestPaymentReconciler_RunOnce(t *testing.T) {
	stub := &stubReconciler{applied: 3}
	w := NewPaymentReconciler(testutil.NewTestDB(t), stub, time.Minute)

	before := time.Now()
	applied := w.RunOnce(context.Background())

	assert.Equal(t, int64(3), applied)
	assert.Equal(t, 1, stub.callCount())
	assert.Equal(t, 50, stub.limit)
	// берутся только платежи старше grace-периода
	assert.True(t, stub.olderThan.Before(before.Add(-time.Minute)))
}

func TestPaymentReconciler_ErrorDoesNotPanic(t *testing.T) {
	stub := &stubReconciler{err: errors.New("stripe down")}
	w := NewPaymentReconciler(testutil.NewTestDB(t), stub, time.Minute)

	assert.Equal(t, int64(0), w.RunOnce(context.Background()))
}

func TestPaymentReconciler_TicksUntilCancelled(t *testing.T) {
	stub := &stubReconciler{}
	w := NewPaymentReconciler(testutil.NewTestDB(t), stub, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)

	require.Eventually(t, func() bool { return stub.callCount() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	// после отмены вызовы прекращаются
	time.Sleep(30 * time.Millisecond)
	n := stub.callCount()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, n, stub.callCount())
}

func TestSubscriptionWorker_RunsImmediately(t *testing.T) {
	stub := &stubExpirer{expired: 2}
	w := NewSubscriptionWorker(testutil.NewTestDB(t), stub, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	require.Eventually(t, func() bool { return stub.callCount() == 1 }, time.Second, 5*time.Millisecond)
}

func TestSubscriptionWorker_RunOnce(t *testing.T) {
	stub := &stubExpirer{expired: 4}
	w := NewSubscriptionWorker(testutil.NewTestDB(t), stub, time.Hour)

	assert.Equal(t, int64(4), w.RunOnce(context.Background()))

	stub.err = errors.New("db locked")
	stub.expired = 0
	assert.Equal(t, int64(0), w.RunOnce(context.Background()))
	assert.Equal(t, 2, stub.callCount())
}

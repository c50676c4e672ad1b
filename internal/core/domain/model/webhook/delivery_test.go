package webhook_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/webhook"
	"fulfillment/internal/pkg/backoff"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDelivery(t *testing.T, now time.Time) *webhook.DeliveryRecord {
	t.Helper()
	r, err := webhook.NewDeliveryRecord(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		"https://consumer.example.com/hooks", []byte(`{"eventId":"e1"}`), now)
	require.NoError(t, err)
	return r
}

func TestNewDeliveryRecord(t *testing.T) {
	now := time.Now()

	t.Run("starts pending and immediately due", func(t *testing.T) {
		r := newDelivery(t, now)

		require.NoError(t, r.Validate())
		assert.Equal(t, webhook.StatusPending, r.Status())
		assert.Equal(t, 0, r.AttemptCount())
		assert.True(t, r.IsDue(now))
	})

	t.Run("fails without a payload", func(t *testing.T) {
		_, err := webhook.NewDeliveryRecord(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			"https://consumer.example.com/hooks", nil, now)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestDeliveryRecordSuccess(t *testing.T) {
	now := time.Now()

	t.Run("first attempt succeeding finalizes the record", func(t *testing.T) {
		r := newDelivery(t, now)

		require.NoError(t, r.RecordSuccess(now))

		assert.Equal(t, webhook.StatusSuccess, r.Status())
		assert.Equal(t, 1, r.AttemptCount())
		assert.Nil(t, r.NextAttemptAt())
		assert.NotNil(t, r.CompletedAt())
		assert.False(t, r.IsDue(now.Add(time.Hour)))
	})

	t.Run("rejected on terminal record", func(t *testing.T) {
		r := newDelivery(t, now)
		require.NoError(t, r.RecordSuccess(now))

		err := r.RecordSuccess(now)

		require.ErrorIs(t, err, errs.ErrIllegalTransition)
	})
}

func TestDeliveryRecordFailure(t *testing.T) {
	schedule := backoff.NewSchedule(1*time.Second, 2, 8)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("schedules retries with exponential backoff", func(t *testing.T) {
		r := newDelivery(t, now)

		exhausted, err := r.RecordFailure(schedule, "503 Service Unavailable", now)
		require.NoError(t, err)
		assert.False(t, exhausted)
		assert.Equal(t, webhook.StatusRetrying, r.Status())
		assert.Equal(t, 1, r.AttemptCount())
		assert.Equal(t, "503 Service Unavailable", r.LastError())
		require.NotNil(t, r.NextAttemptAt())
		assert.Equal(t, now.Add(1*time.Second), *r.NextAttemptAt())
		assert.False(t, r.IsDue(now))

		exhausted, err = r.RecordFailure(schedule, "503 Service Unavailable", now)
		require.NoError(t, err)
		assert.False(t, exhausted)
		assert.Equal(t, now.Add(2*time.Second), *r.NextAttemptAt())
	})

	t.Run("three failures then a success leave one success with attempt count four", func(t *testing.T) {
		r := newDelivery(t, now)
		for i := 0; i < 3; i++ {
			exhausted, err := r.RecordFailure(schedule, "500 Internal Server Error", now)
			require.NoError(t, err)
			require.False(t, exhausted)
		}

		require.NoError(t, r.RecordSuccess(now))

		assert.Equal(t, webhook.StatusSuccess, r.Status())
		assert.Equal(t, 4, r.AttemptCount())
		assert.Empty(t, r.LastError())
	})

	t.Run("eight consecutive failures exhaust the budget", func(t *testing.T) {
		r := newDelivery(t, now)

		var exhausted bool
		var err error
		for i := 0; i < 8; i++ {
			exhausted, err = r.RecordFailure(schedule, "connection refused", now)
			require.NoError(t, err)
		}

		assert.True(t, exhausted)
		assert.Equal(t, webhook.StatusFailed, r.Status())
		assert.Equal(t, 8, r.AttemptCount())
		assert.Nil(t, r.NextAttemptAt())

		_, err = r.RecordFailure(schedule, "connection refused", now)
		require.ErrorIs(t, err, errs.ErrIllegalTransition)
	})
}

func TestDeliveryRecordAbandon(t *testing.T) {
	now := time.Now()

	t.Run("fails an in-flight record", func(t *testing.T) {
		r := newDelivery(t, now)

		assert.True(t, r.Abandon("subscription deactivated", now))
		assert.Equal(t, webhook.StatusFailed, r.Status())
		assert.Equal(t, "subscription deactivated", r.LastError())
	})

	t.Run("leaves terminal record untouched", func(t *testing.T) {
		r := newDelivery(t, now)
		require.NoError(t, r.RecordSuccess(now))

		assert.False(t, r.Abandon("subscription deactivated", now))
		assert.Equal(t, webhook.StatusSuccess, r.Status())
	})
}

func TestNewSubscription(t *testing.T) {
	now := time.Now()

	t.Run("registers an active subscriber", func(t *testing.T) {
		s, err := webhook.NewSubscription(kernel.NewUUID(), "wms-mirror", "https://wms.example.com/hooks", now)

		require.NoError(t, err)
		require.NoError(t, s.Validate())
		assert.True(t, s.IsActive())
	})

	t.Run("rejects a relative target URL", func(t *testing.T) {
		_, err := webhook.NewSubscription(kernel.NewUUID(), "wms-mirror", "/hooks", now)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("deactivate stops new deliveries", func(t *testing.T) {
		s, err := webhook.NewSubscription(kernel.NewUUID(), "wms-mirror", "https://wms.example.com/hooks", now)
		require.NoError(t, err)

		s.Deactivate()

		assert.False(t, s.IsActive())
	})
}

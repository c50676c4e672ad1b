package event_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDomainEvent(t *testing.T) {
	entityID := kernel.NewUUID()
	now := time.Now()

	t.Run("should create valid event", func(t *testing.T) {
		e, err := event.NewDomainEvent(
			event.OrderFetched, event.EntityOrder, entityID, "order ingested", "engine", now)

		require.NoError(t, err)
		require.NoError(t, e.Validate())
		require.NoError(t, e.ID().Validate())
		assert.Equal(t, event.OrderFetched, e.Type())
		assert.Equal(t, event.EntityOrder, e.EntityType())
		assert.True(t, e.EntityID().IsEqual(entityID))
		assert.Equal(t, "engine", e.Source())
		assert.Equal(t, now, e.OccurredAt())
	})

	t.Run("two events get distinct ids", func(t *testing.T) {
		a, _ := event.NewDomainEvent(event.OrderFetched, event.EntityOrder, entityID, "", "engine", now)
		b, _ := event.NewDomainEvent(event.OrderFetched, event.EntityOrder, entityID, "", "engine", now)

		assert.False(t, a.ID().IsEqual(b.ID()))
	})

	t.Run("should reject unknown type", func(t *testing.T) {
		_, err := event.NewDomainEvent(
			event.Type("order.teleported"), event.EntityOrder, entityID, "", "engine", now)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject missing source", func(t *testing.T) {
		_, err := event.NewDomainEvent(event.OrderFetched, event.EntityOrder, entityID, "", "", now)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject zero time", func(t *testing.T) {
		_, err := event.NewDomainEvent(
			event.OrderFetched, event.EntityOrder, entityID, "", "engine", time.Time{})

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestRestoreDomainEvent(t *testing.T) {
	id := kernel.NewUUID()
	entityID := kernel.NewUUID()
	now := time.Now()

	e, err := event.RestoreDomainEvent(
		id, event.VerifyResolved, event.EntityVerification, entityID, "resolved", "pipeline", now)

	require.NoError(t, err)
	assert.True(t, e.ID().IsEqual(id))
}

func TestTypeValidate(t *testing.T) {
	require.NoError(t, event.PickCompleted.Validate())
	require.Error(t, event.Type("bogus").Validate())
}

package manifest_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/manifest"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stopAddress(t *testing.T) kernel.Address {
	t.Helper()
	a, err := kernel.NewAddress("3139 Anas Ibn Malik Rd", "", "Riyadh", "Al Malqa", "13521", "SA")
	require.NoError(t, err)
	return a
}

func TestManifest(t *testing.T) {
	now := time.Now()

	t.Run("opens empty for a courier", func(t *testing.T) {
		m, err := manifest.NewManifest(kernel.NewUUID(), "aramex", now)

		require.NoError(t, err)
		require.NoError(t, m.Validate())
		assert.False(t, m.IsHandedOver())
		assert.Empty(t, m.Items())
	})

	t.Run("fails without a courier", func(t *testing.T) {
		_, err := manifest.NewManifest(kernel.NewUUID(), "", now)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("appends items in sequence", func(t *testing.T) {
		m, err := manifest.NewManifest(kernel.NewUUID(), "aramex", now)
		require.NoError(t, err)

		require.NoError(t, m.AddItem(kernel.NewUUID(), "AWB-001"))
		require.NoError(t, m.AddItem(kernel.NewUUID(), "AWB-002"))

		require.Len(t, m.Items(), 2)
		assert.Equal(t, 1, m.Items()[0].Sequence())
		assert.Equal(t, 2, m.Items()[1].Sequence())
	})

	t.Run("rejects the same order twice", func(t *testing.T) {
		m, err := manifest.NewManifest(kernel.NewUUID(), "aramex", now)
		require.NoError(t, err)
		orderID := kernel.NewUUID()
		require.NoError(t, m.AddItem(orderID, "AWB-001"))

		err = m.AddItem(orderID, "AWB-002")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("handover freezes the manifest", func(t *testing.T) {
		m, err := manifest.NewManifest(kernel.NewUUID(), "aramex", now)
		require.NoError(t, err)
		require.NoError(t, m.AddItem(kernel.NewUUID(), "AWB-001"))

		require.NoError(t, m.HandOver(now))

		assert.True(t, m.IsHandedOver())
		require.ErrorIs(t, m.AddItem(kernel.NewUUID(), "AWB-002"), errs.ErrIllegalTransition)
		require.ErrorIs(t, m.HandOver(now), errs.ErrIllegalTransition)
	})

	t.Run("empty manifest cannot be handed over", func(t *testing.T) {
		m, err := manifest.NewManifest(kernel.NewUUID(), "aramex", now)
		require.NoError(t, err)

		require.ErrorIs(t, m.HandOver(now), errs.ErrValueIsRequired)
	})
}

func TestRoute(t *testing.T) {
	now := time.Now()

	t.Run("appends stops in visiting order", func(t *testing.T) {
		r, err := manifest.NewRoute(kernel.NewUUID(), "Saleh", "RUH-7714", now)
		require.NoError(t, err)

		require.NoError(t, r.AddStop(kernel.NewUUID(), stopAddress(t)))
		require.NoError(t, r.AddStop(kernel.NewUUID(), stopAddress(t)))

		require.Len(t, r.Stops(), 2)
		assert.Equal(t, 1, r.Stops()[0].Sequence())
		assert.Equal(t, 2, r.Stops()[1].Sequence())
	})

	t.Run("rejects the same order twice", func(t *testing.T) {
		r, err := manifest.NewRoute(kernel.NewUUID(), "Saleh", "RUH-7714", now)
		require.NoError(t, err)
		orderID := kernel.NewUUID()
		require.NoError(t, r.AddStop(orderID, stopAddress(t)))

		require.ErrorIs(t, r.AddStop(orderID, stopAddress(t)), errs.ErrValueIsInvalid)
	})

	t.Run("completion freezes the route", func(t *testing.T) {
		r, err := manifest.NewRoute(kernel.NewUUID(), "Saleh", "RUH-7714", now)
		require.NoError(t, err)
		require.NoError(t, r.AddStop(kernel.NewUUID(), stopAddress(t)))

		require.NoError(t, r.Complete(now))

		assert.True(t, r.IsCompleted())
		require.ErrorIs(t, r.AddStop(kernel.NewUUID(), stopAddress(t)), errs.ErrIllegalTransition)
	})

	t.Run("empty route cannot be completed", func(t *testing.T) {
		r, err := manifest.NewRoute(kernel.NewUUID(), "Saleh", "RUH-7714", now)
		require.NoError(t, err)

		require.ErrorIs(t, r.Complete(now), errs.ErrValueIsRequired)
	})
}

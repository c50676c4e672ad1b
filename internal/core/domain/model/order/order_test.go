package order_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAddress(t *testing.T) kernel.Address {
	t.Helper()
	a, err := kernel.NewAddress("King Fahd Rd 12", "", "Riyadh", "Riyadh Province", "12271", "SA")
	require.NoError(t, err)
	return a
}

func resolvedAddress(t *testing.T) kernel.Address {
	t.Helper()
	p, err := kernel.NewGeoPoint(24.7136, 46.6753)
	require.NoError(t, err)
	a, err := validAddress(t).WithGeoPoint(p)
	require.NoError(t, err)
	return a
}

func newTestOrder(t *testing.T) *order.Order {
	t.Helper()
	value, err := kernel.NewMoney(1050, "SAR")
	require.NoError(t, err)

	o, err := order.NewOrder(
		kernel.NewUUID(), "FF-1001", "shopify", "1001", "+966500000001",
		validAddress(t), value, order.PriorityMedium, time.Now())
	require.NoError(t, err)
	return o
}

// orderInPicking builds an order with one pick line (2 units of SKU-1 in
// BIN-7) and one pack task (TOTE-3), validated and ready to scan.
func orderInPicking(t *testing.T) *order.Order {
	t.Helper()
	o := newTestOrder(t)

	line, err := order.NewPickLine(kernel.NewUUID(), "SKU-1", "BIN-7", 2)
	require.NoError(t, err)
	require.NoError(t, o.AddPickLine(line))

	task, err := order.NewPackTask(kernel.NewUUID(), "TOTE-3")
	require.NoError(t, err)
	require.NoError(t, o.AddPackTask(task))

	require.NoError(t, o.MarkValidated(resolvedAddress(t), time.Now()))
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("starts in fetched with recorded timestamp", func(t *testing.T) {
		o := newTestOrder(t)

		require.NoError(t, o.Validate())
		assert.Equal(t, order.Fetched, o.Status())
		assert.NotNil(t, o.StatusTime(order.Fetched))
		assert.Nil(t, o.StatusTime(order.Validated))
		assert.Equal(t, order.VerificationNone, o.VerificationOutcome())
		assert.Empty(t, o.Courier())
	})

	t.Run("fails with missing reference", func(t *testing.T) {
		value, _ := kernel.NewMoney(1050, "SAR")
		_, err := order.NewOrder(
			kernel.NewUUID(), "", "shopify", "1001", "",
			validAddress(t), value, order.PriorityLow, time.Now())

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("fails with invalid priority", func(t *testing.T) {
		value, _ := kernel.NewMoney(1050, "SAR")
		_, err := order.NewOrder(
			kernel.NewUUID(), "FF-1001", "shopify", "1001", "",
			validAddress(t), value, order.Priority("asap"), time.Now())

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("collects multiple validation errors", func(t *testing.T) {
		var badAddress kernel.Address
		var badValue kernel.Money
		_, err := order.NewOrder(
			kernel.UUID{}, "", "", "", "", badAddress, badValue, order.PriorityLow, time.Now())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "UUID must be created")
		assert.Contains(t, err.Error(), "reference")
		assert.Contains(t, err.Error(), "address must be created")
	})
}

func TestOrderMarkValidated(t *testing.T) {
	t.Run("advances fetched order and stores resolved address", func(t *testing.T) {
		o := newTestOrder(t)

		require.NoError(t, o.MarkValidated(resolvedAddress(t), time.Now()))

		assert.Equal(t, order.Validated, o.Status())
		assert.Equal(t, order.VerificationVerified, o.VerificationOutcome())
		assert.NotNil(t, o.Address().GeoPoint())
		assert.NotNil(t, o.StatusTime(order.Validated))
	})

	t.Run("rejects double validation", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.MarkValidated(resolvedAddress(t), time.Now()))

		err := o.MarkValidated(resolvedAddress(t), time.Now())

		require.ErrorIs(t, err, errs.ErrIllegalTransition)
	})
}

func TestOrderAwaitAddressConfirmation(t *testing.T) {
	o := newTestOrder(t)

	require.NoError(t, o.AwaitAddressConfirmation())

	assert.Equal(t, order.Fetched, o.Status())
	assert.Equal(t, order.VerificationNeedsConfirmation, o.VerificationOutcome())
}

func TestOrderApplyScan(t *testing.T) {
	now := time.Now()

	t.Run("first sku scan starts picking", func(t *testing.T) {
		o := orderInPicking(t)

		emitted, err := o.ApplyScan("SKU-1", order.ContextSKU, now)

		require.NoError(t, err)
		assert.Equal(t, []event.Type{event.OrderPicking}, emitted)
		assert.Equal(t, order.Picking, o.Status())
		assert.Equal(t, 1, o.PickLines()[0].PickedQty())
	})

	t.Run("bin scan advances the same line", func(t *testing.T) {
		o := orderInPicking(t)
		_, err := o.ApplyScan("SKU-1", order.ContextSKU, now)
		require.NoError(t, err)

		emitted, err := o.ApplyScan("BIN-7", order.ContextBin, now)

		require.NoError(t, err)
		assert.Equal(t, []event.Type{event.PickCompleted}, emitted)
		assert.True(t, o.PickLines()[0].IsComplete())
	})

	t.Run("sku scan against bin-only code mismatches and leaves quantities unchanged", func(t *testing.T) {
		o := orderInPicking(t)

		_, err := o.ApplyScan("BIN-7", order.ContextSKU, now)

		require.ErrorIs(t, err, errs.ErrScanContextMismatch)
		assert.Equal(t, 0, o.PickLines()[0].PickedQty())
		assert.Equal(t, order.Validated, o.Status())
	})

	t.Run("unknown code mismatches", func(t *testing.T) {
		o := orderInPicking(t)

		_, err := o.ApplyScan("SKU-999", order.ContextGeneral, now)

		require.ErrorIs(t, err, errs.ErrScanContextMismatch)
	})

	t.Run("tote scan before picking starts is rejected", func(t *testing.T) {
		o := orderInPicking(t)

		_, err := o.ApplyScan("TOTE-3", order.ContextTote, now)

		require.ErrorIs(t, err, errs.ErrIllegalTransition)
	})

	t.Run("completing all lines and totes advances picking to packed once", func(t *testing.T) {
		o := orderInPicking(t)
		_, err := o.ApplyScan("SKU-1", order.ContextSKU, now)
		require.NoError(t, err)
		_, err = o.ApplyScan("SKU-1", order.ContextSKU, now)
		require.NoError(t, err)
		assert.Equal(t, order.Picking, o.Status())

		emitted, err := o.ApplyScan("TOTE-3", order.ContextTote, now)

		require.NoError(t, err)
		assert.Equal(t, []event.Type{event.PackCompleted, event.OrderPacked}, emitted)
		assert.Equal(t, order.Packed, o.Status())
	})

	t.Run("scan on fetched order is rejected without mutation", func(t *testing.T) {
		o := newTestOrder(t)
		line, _ := order.NewPickLine(kernel.NewUUID(), "SKU-1", "BIN-7", 1)
		require.NoError(t, o.AddPickLine(line))

		_, err := o.ApplyScan("SKU-1", order.ContextSKU, now)

		require.ErrorIs(t, err, errs.ErrIllegalTransition)
		assert.Equal(t, 0, line.PickedQty())
	})

	t.Run("extra scan after line completion mismatches", func(t *testing.T) {
		o := orderInPicking(t)
		_, _ = o.ApplyScan("SKU-1", order.ContextSKU, now)
		_, _ = o.ApplyScan("SKU-1", order.ContextSKU, now)

		_, err := o.ApplyScan("SKU-1", order.ContextSKU, now)

		require.ErrorIs(t, err, errs.ErrScanContextMismatch)
	})

	t.Run("general context matches sku, bin, and tote codes", func(t *testing.T) {
		o := orderInPicking(t)

		_, err := o.ApplyScan("SKU-1", order.ContextGeneral, now)
		require.NoError(t, err)
		_, err = o.ApplyScan("BIN-7", order.ContextGeneral, now)
		require.NoError(t, err)

		emitted, err := o.ApplyScan("TOTE-3", order.ContextGeneral, now)
		require.NoError(t, err)
		assert.Contains(t, emitted, event.OrderPacked)
	})

	t.Run("awb scan on packed order records dispatch", func(t *testing.T) {
		o := packedOrder(t)

		emitted, err := o.ApplyScan("AWB-777", order.ContextAWB, now)

		require.NoError(t, err)
		assert.Equal(t, []event.Type{event.OrderDispatched}, emitted)
		assert.Equal(t, "AWB-777", o.AWB())
		assert.Equal(t, order.Packed, o.Status())
	})

	t.Run("awb scan before packed mismatches", func(t *testing.T) {
		o := orderInPicking(t)

		_, err := o.ApplyScan("AWB-777", order.ContextAWB, now)

		require.ErrorIs(t, err, errs.ErrScanContextMismatch)
	})

	t.Run("conflicting awb rescan mismatches", func(t *testing.T) {
		o := packedOrder(t)
		_, err := o.ApplyScan("AWB-777", order.ContextAWB, now)
		require.NoError(t, err)

		_, err = o.ApplyScan("AWB-888", order.ContextAWB, now)

		require.ErrorIs(t, err, errs.ErrScanContextMismatch)
		assert.Equal(t, "AWB-777", o.AWB())
	})
}

func packedOrder(t *testing.T) *order.Order {
	t.Helper()
	o := orderInPicking(t)
	now := time.Now()
	_, err := o.ApplyScan("SKU-1", order.ContextSKU, now)
	require.NoError(t, err)
	_, err = o.ApplyScan("SKU-1", order.ContextSKU, now)
	require.NoError(t, err)
	_, err = o.ApplyScan("TOTE-3", order.ContextTote, now)
	require.NoError(t, err)
	require.Equal(t, order.Packed, o.Status())
	return o
}

func TestOrderShipAndDeliver(t *testing.T) {
	now := time.Now()

	t.Run("manifest handover ships a packed order", func(t *testing.T) {
		o := packedOrder(t)

		require.NoError(t, o.MarkShipped("aramex", now))

		assert.Equal(t, order.Shipped, o.Status())
		assert.Equal(t, "aramex", o.Courier())
	})

	t.Run("cannot ship before packed", func(t *testing.T) {
		o := orderInPicking(t)

		err := o.MarkShipped("aramex", now)

		require.ErrorIs(t, err, errs.ErrIllegalTransition)
	})

	t.Run("delivery completes a shipped order", func(t *testing.T) {
		o := packedOrder(t)
		require.NoError(t, o.MarkShipped("aramex", now))

		require.NoError(t, o.MarkDelivered(now))

		assert.Equal(t, order.Delivered, o.Status())
		assert.True(t, o.Status().IsTerminal())
	})
}

func TestOrderCancel(t *testing.T) {
	now := time.Now()

	t.Run("cancels a fetched order", func(t *testing.T) {
		o := newTestOrder(t)

		require.NoError(t, o.Cancel(now))

		assert.Equal(t, order.Cancelled, o.Status())
	})

	t.Run("cannot cancel after shipping", func(t *testing.T) {
		o := packedOrder(t)
		require.NoError(t, o.MarkShipped("aramex", now))

		err := o.Cancel(now)

		require.ErrorIs(t, err, errs.ErrIllegalTransition)
	})

	t.Run("cancels an exception raised before shipping", func(t *testing.T) {
		o := newTestOrder(t)
		_, err := o.MarkException("address_unverifiable", now)
		require.NoError(t, err)

		require.NoError(t, o.Cancel(now))

		assert.Equal(t, order.Cancelled, o.Status())
	})

	t.Run("cannot cancel an exception raised after shipping", func(t *testing.T) {
		o := packedOrder(t)
		require.NoError(t, o.MarkShipped("aramex", now))
		_, err := o.MarkException("lost in transit", now)
		require.NoError(t, err)

		err = o.Cancel(now)

		require.ErrorIs(t, err, errs.ErrIllegalTransition)
		assert.Equal(t, order.Exception, o.Status())
	})
}

func TestOrderMarkException(t *testing.T) {
	now := time.Now()

	t.Run("records reason and transitions", func(t *testing.T) {
		o := newTestOrder(t)

		changed, err := o.MarkException("address_unverifiable", now)

		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, order.Exception, o.Status())
		assert.Equal(t, "address_unverifiable", o.ExceptionReason())
	})

	t.Run("is idempotent", func(t *testing.T) {
		o := newTestOrder(t)
		_, err := o.MarkException("first", now)
		require.NoError(t, err)

		changed, err := o.MarkException("second", now)

		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, "first", o.ExceptionReason())
	})

	t.Run("rejected on terminal orders", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.Cancel(now))

		_, err := o.MarkException("late", now)

		require.ErrorIs(t, err, errs.ErrIllegalTransition)
	})

	t.Run("verification failure sets the unverifiable reason", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.AwaitAddressConfirmation())

		changed, err := o.MarkVerificationFailed(now)

		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, order.VerificationFailed, o.VerificationOutcome())
		assert.Equal(t, "address_unverifiable", o.ExceptionReason())
	})
}

func TestRestoreOrder(t *testing.T) {
	o := packedOrder(t)
	times := map[order.Status]time.Time{}
	for _, s := range []order.Status{order.Fetched, order.Validated, order.Picking, order.Packed} {
		ts := o.StatusTime(s)
		require.NotNil(t, ts)
		times[s] = *ts
	}

	restored, err := order.RestoreOrder(
		o.ID(), 42, o.Reference(), o.Channel(), o.SourceNumber(), o.Contact(),
		o.Address(), o.Value(), o.Priority(), o.Status(), o.VerificationOutcome(),
		o.ExceptionReason(), o.Courier(), o.AWB(), o.PickLines(), o.PackTasks(), times)

	require.NoError(t, err)
	assert.Equal(t, int64(42), restored.Seq())
	assert.Equal(t, order.Packed, restored.Status())
	assert.Equal(t, 2, restored.ItemCount())
	assert.True(t, restored.IsEqual(o))
}

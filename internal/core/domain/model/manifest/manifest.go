// Package manifest contains the courier handover groupings: a Manifest of
// packed packages handed to one courier in one handover event, and a Route of
// ordered delivery stops assigned to one driver. Both are append-only while
// open and immutable history once handed over or completed.
package manifest

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrManifestIsNotConstructed is returned when a Manifest was not created
// through NewManifest or RestoreManifest.
var ErrManifestIsNotConstructed = errors.New(
	"Manifest must be created via NewManifest or RestoreManifest constructor")

// ManifestItem is one package on a manifest, in handover order.
type ManifestItem struct {
	orderID  kernel.UUID
	awb      string
	sequence int
}

// RestoreManifestItem reconstructs a manifest item from persistence.
func RestoreManifestItem(orderID kernel.UUID, awb string, sequence int) (ManifestItem, error) {
	if err := orderID.Validate(); err != nil {
		return ManifestItem{}, err
	}
	if awb == "" {
		return ManifestItem{}, errs.NewValueIsRequiredError("awb")
	}
	return ManifestItem{orderID: orderID, awb: awb, sequence: sequence}, nil
}

// OrderID returns the packed order this item represents.
func (i ManifestItem) OrderID() kernel.UUID { return i.orderID }

// AWB returns the air waybill printed on the package.
func (i ManifestItem) AWB() string { return i.awb }

// Sequence returns the item's position on the manifest, starting at 1.
func (i ManifestItem) Sequence() int { return i.sequence }

// Manifest is the grouped set of packages handed to one courier in one
// handover event. Items are appended while the manifest is open; HandOver
// freezes it and is the trigger for the packed to shipped transition of every
// order on it.
type Manifest struct {
	id      kernel.UUID
	courier string
	items   []ManifestItem

	createdAt    time.Time
	handedOverAt *time.Time

	guard guard.ConstructorGuard
}

// NewManifest opens an empty manifest for the given courier.
func NewManifest(id kernel.UUID, courier string, now time.Time) (*Manifest, error) {
	m := &Manifest{
		createdAt: now,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		m.setID(id),
		m.setCourier(courier),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// RestoreManifest reconstructs a manifest from persistence.
func RestoreManifest(
	id kernel.UUID, courier string, items []ManifestItem, createdAt time.Time, handedOverAt *time.Time,
) (*Manifest, error) {
	m, err := NewManifest(id, courier, createdAt)
	if err != nil {
		return nil, err
	}
	m.items = items
	m.handedOverAt = handedOverAt
	return m, nil
}

// Validate ensures the Manifest was properly constructed.
func (m *Manifest) Validate() error {
	if m == nil || m.guard.Validate(ErrManifestIsNotConstructed) != nil {
		return ErrManifestIsNotConstructed
	}
	return nil
}

// ID returns the manifest identifier.
func (m *Manifest) ID() kernel.UUID { return m.id }

// Courier returns the courier receiving the handover.
func (m *Manifest) Courier() string { return m.courier }

// Items returns the manifest items in handover order.
func (m *Manifest) Items() []ManifestItem { return m.items }

// CreatedAt returns when the manifest was opened.
func (m *Manifest) CreatedAt() time.Time { return m.createdAt }

// HandedOverAt returns the handover time, or nil while the manifest is open.
func (m *Manifest) HandedOverAt() *time.Time { return m.handedOverAt }

// IsHandedOver reports whether the manifest is frozen history.
func (m *Manifest) IsHandedOver() bool { return m.handedOverAt != nil }

// OrderIDs returns the ids of every order on the manifest, in item order.
func (m *Manifest) OrderIDs() []kernel.UUID {
	ids := make([]kernel.UUID, 0, len(m.items))
	for _, item := range m.items {
		ids = append(ids, item.orderID)
	}
	return ids
}

// AddItem appends a packed order's package to an open manifest. An order can
// appear on the manifest only once.
func (m *Manifest) AddItem(orderID kernel.UUID, awb string) error {
	if err := m.ensureOpen(); err != nil {
		return err
	}
	item, err := RestoreManifestItem(orderID, awb, len(m.items)+1)
	if err != nil {
		return err
	}
	for _, existing := range m.items {
		if existing.orderID.IsEqual(orderID) {
			return errs.NewValueIsInvalidError("orderID")
		}
	}

	m.items = append(m.items, item)
	return nil
}

// HandOver freezes the manifest. An empty manifest cannot be handed over.
func (m *Manifest) HandOver(now time.Time) error {
	if err := m.ensureOpen(); err != nil {
		return err
	}
	if len(m.items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	m.handedOverAt = &now
	return nil
}

func (m *Manifest) ensureOpen() error {
	if m.IsHandedOver() {
		return errs.NewIllegalTransitionError("manifest", "handed_over", "open")
	}
	return nil
}

func (m *Manifest) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	m.id = id
	return nil
}

func (m *Manifest) setCourier(courier string) error {
	if courier == "" {
		return errs.NewValueIsRequiredError("courier")
	}
	m.courier = courier
	return nil
}

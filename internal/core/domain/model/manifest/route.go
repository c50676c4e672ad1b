package manifest

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrRouteIsNotConstructed is returned when a Route was not created through
// NewRoute or RestoreRoute.
var ErrRouteIsNotConstructed = errors.New(
	"Route must be created via NewRoute or RestoreRoute constructor")

// RouteStop is one delivery stop on a route, in visiting order.
type RouteStop struct {
	orderID  kernel.UUID
	address  kernel.Address
	sequence int
}

// RestoreRouteStop reconstructs a route stop from persistence.
func RestoreRouteStop(orderID kernel.UUID, address kernel.Address, sequence int) (RouteStop, error) {
	if err := orderID.Validate(); err != nil {
		return RouteStop{}, err
	}
	if err := address.Validate(); err != nil {
		return RouteStop{}, err
	}
	return RouteStop{orderID: orderID, address: address, sequence: sequence}, nil
}

// OrderID returns the order delivered at this stop.
func (s RouteStop) OrderID() kernel.UUID { return s.orderID }

// Address returns the delivery address.
func (s RouteStop) Address() kernel.Address { return s.address }

// Sequence returns the stop's position on the route, starting at 1.
func (s RouteStop) Sequence() int { return s.sequence }

// Route is the ordered set of delivery stops assigned to one driver and
// vehicle. Stops are appended while the route is open; Complete freezes it.
type Route struct {
	id      kernel.UUID
	driver  string
	vehicle string
	stops   []RouteStop

	createdAt   time.Time
	completedAt *time.Time

	guard guard.ConstructorGuard
}

// NewRoute opens an empty route for the given driver and vehicle.
func NewRoute(id kernel.UUID, driver string, vehicle string, now time.Time) (*Route, error) {
	r := &Route{
		createdAt: now,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(id),
		r.setDriver(driver),
		r.setVehicle(vehicle),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// RestoreRoute reconstructs a route from persistence.
func RestoreRoute(
	id kernel.UUID, driver string, vehicle string, stops []RouteStop, createdAt time.Time, completedAt *time.Time,
) (*Route, error) {
	r, err := NewRoute(id, driver, vehicle, createdAt)
	if err != nil {
		return nil, err
	}
	r.stops = stops
	r.completedAt = completedAt
	return r, nil
}

// Validate ensures the Route was properly constructed.
func (r *Route) Validate() error {
	if r == nil || r.guard.Validate(ErrRouteIsNotConstructed) != nil {
		return ErrRouteIsNotConstructed
	}
	return nil
}

// ID returns the route identifier.
func (r *Route) ID() kernel.UUID { return r.id }

// Driver returns the assigned driver's name.
func (r *Route) Driver() string { return r.driver }

// Vehicle returns the assigned vehicle's plate or tag.
func (r *Route) Vehicle() string { return r.vehicle }

// Stops returns the delivery stops in visiting order.
func (r *Route) Stops() []RouteStop { return r.stops }

// CreatedAt returns when the route was opened.
func (r *Route) CreatedAt() time.Time { return r.createdAt }

// CompletedAt returns the completion time, or nil while the route is open.
func (r *Route) CompletedAt() *time.Time { return r.completedAt }

// IsCompleted reports whether the route is frozen history.
func (r *Route) IsCompleted() bool { return r.completedAt != nil }

// AddStop appends a delivery stop to an open route. An order can appear on
// the route only once.
func (r *Route) AddStop(orderID kernel.UUID, address kernel.Address) error {
	if err := r.ensureOpen(); err != nil {
		return err
	}
	stop, err := RestoreRouteStop(orderID, address, len(r.stops)+1)
	if err != nil {
		return err
	}
	for _, existing := range r.stops {
		if existing.orderID.IsEqual(orderID) {
			return errs.NewValueIsInvalidError("orderID")
		}
	}

	r.stops = append(r.stops, stop)
	return nil
}

// Complete freezes the route. An empty route cannot be completed.
func (r *Route) Complete(now time.Time) error {
	if err := r.ensureOpen(); err != nil {
		return err
	}
	if len(r.stops) == 0 {
		return errs.NewValueIsRequiredError("stops")
	}

	r.completedAt = &now
	return nil
}

func (r *Route) ensureOpen() error {
	if r.IsCompleted() {
		return errs.NewIllegalTransitionError("route", "completed", "open")
	}
	return nil
}

func (r *Route) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *Route) setDriver(driver string) error {
	if driver == "" {
		return errs.NewValueIsRequiredError("driver")
	}
	r.driver = driver
	return nil
}

func (r *Route) setVehicle(vehicle string) error {
	if vehicle == "" {
		return errs.NewValueIsRequiredError("vehicle")
	}
	r.vehicle = vehicle
	return nil
}

package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCreateRouteCommandIsNotConstructed = errors.New(
	"CreateRouteCommand must be created via NewCreateRouteCommand constructor",
)

// CreateRouteCommand represents a request to open a delivery route for a
// driver over a set of shipped orders. Stops are visited in the given order.
type CreateRouteCommand struct { //nolint:recvcheck //using for validation
	routeID  kernel.UUID
	driver   string
	vehicle  string
	orderIDs []kernel.UUID

	guard guard.ConstructorGuard
}

// NewCreateRouteCommand creates a route creation command.
func NewCreateRouteCommand(
	routeID kernel.UUID, driver string, vehicle string, orderIDs []kernel.UUID,
) (CreateRouteCommand, error) {
	cmd := CreateRouteCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setRouteID(routeID),
		cmd.setDriver(driver),
		cmd.setVehicle(vehicle),
		cmd.setOrderIDs(orderIDs),
	); err != nil {
		return CreateRouteCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateRouteCommand) Validate() error {
	return c.guard.Validate(ErrCreateRouteCommandIsNotConstructed)
}

// RouteID returns the identifier assigned to the new route.
func (c CreateRouteCommand) RouteID() kernel.UUID { return c.routeID }

// Driver returns the assigned driver's name.
func (c CreateRouteCommand) Driver() string { return c.driver }

// Vehicle returns the assigned vehicle's plate or tag.
func (c CreateRouteCommand) Vehicle() string { return c.vehicle }

// OrderIDs returns the shipped orders to visit, in stop order.
func (c CreateRouteCommand) OrderIDs() []kernel.UUID { return c.orderIDs }

func (c *CreateRouteCommand) setRouteID(routeID kernel.UUID) error {
	if err := routeID.Validate(); err != nil {
		return err
	}

	c.routeID = routeID
	return nil
}

func (c *CreateRouteCommand) setDriver(driver string) error {
	if driver == "" {
		return errs.NewValueIsRequiredError("driver")
	}

	c.driver = driver
	return nil
}

func (c *CreateRouteCommand) setVehicle(vehicle string) error {
	if vehicle == "" {
		return errs.NewValueIsRequiredError("vehicle")
	}

	c.vehicle = vehicle
	return nil
}

func (c *CreateRouteCommand) setOrderIDs(orderIDs []kernel.UUID) error {
	if len(orderIDs) == 0 {
		return errs.NewValueIsRequiredError("orderIDs")
	}
	for _, id := range orderIDs {
		if err := id.Validate(); err != nil {
			return err
		}
	}

	c.orderIDs = orderIDs
	return nil
}

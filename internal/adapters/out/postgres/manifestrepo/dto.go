// Package manifestrepo provides data transfer objects and mapping functions
// for manifest and route persistence.
package manifestrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/manifest"

	"github.com/google/uuid"
)

// ManifestDTO represents the database structure for persisting manifests.
type ManifestDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Courier      string    `gorm:"index"`
	CreatedAt    time.Time
	HandedOverAt *time.Time

	Items []ManifestItemDTO `gorm:"foreignKey:ManifestID;references:ID"`
}

// TableName specifies the database table name for manifests.
func (ManifestDTO) TableName() string {
	return "manifests"
}

// ManifestItemDTO represents one package row on a manifest.
type ManifestItemDTO struct {
	ManifestID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Sequence   int       `gorm:"primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;index"`
	AWB        string    `gorm:"column:awb"`
}

// TableName specifies the database table name for manifest items.
func (ManifestItemDTO) TableName() string {
	return "manifest_items"
}

// RouteDTO represents the database structure for persisting routes.
type RouteDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Driver      string
	Vehicle     string
	CreatedAt   time.Time
	CompletedAt *time.Time

	Stops []RouteStopDTO `gorm:"foreignKey:RouteID;references:ID"`
}

// TableName specifies the database table name for routes.
func (RouteDTO) TableName() string {
	return "routes"
}

// RouteStopDTO represents one delivery stop row on a route.
type RouteStopDTO struct {
	RouteID  uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Sequence int        `gorm:"primaryKey"`
	OrderID  uuid.UUID  `gorm:"type:uuid;index"`
	Address  AddressDTO `gorm:"embedded;embeddedPrefix:address_"`
}

// TableName specifies the database table name for route stops.
func (RouteStopDTO) TableName() string {
	return "route_stops"
}

// AddressDTO represents the embedded stop address within the route stop table.
type AddressDTO struct {
	Line1      string
	Line2      string
	City       string
	Region     string
	PostalCode string
	Country    string
	Lat        *float64
	Lng        *float64
}

// manifestFromDomain converts a manifest to its database representation.
func manifestFromDomain(aggregate *manifest.Manifest) ManifestDTO {
	items := make([]ManifestItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, ManifestItemDTO{
			ManifestID: aggregate.ID().Bytes(),
			Sequence:   item.Sequence(),
			OrderID:    item.OrderID().Bytes(),
			AWB:        item.AWB(),
		})
	}

	return ManifestDTO{
		ID:           aggregate.ID().Bytes(),
		Courier:      aggregate.Courier(),
		CreatedAt:    aggregate.CreatedAt(),
		HandedOverAt: aggregate.HandedOverAt(),
		Items:        items,
	}
}

// manifestToDomain converts a database DTO to a manifest using RestoreManifest.
func manifestToDomain(dto ManifestDTO) (*manifest.Manifest, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	items := make([]manifest.ManifestItem, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		orderID, itemErr := kernel.UUIDFromBytes(itemDTO.OrderID[:])
		if itemErr != nil {
			return nil, itemErr
		}
		item, itemErr := manifest.RestoreManifestItem(orderID, itemDTO.AWB, itemDTO.Sequence)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return manifest.RestoreManifest(id, dto.Courier, items, dto.CreatedAt, dto.HandedOverAt)
}

// routeFromDomain converts a route to its database representation.
func routeFromDomain(aggregate *manifest.Route) RouteDTO {
	stops := make([]RouteStopDTO, 0, len(aggregate.Stops()))
	for _, stop := range aggregate.Stops() {
		address := stop.Address()
		addressDTO := AddressDTO{
			Line1:      address.Line1(),
			Line2:      address.Line2(),
			City:       address.City(),
			Region:     address.Region(),
			PostalCode: address.PostalCode(),
			Country:    address.Country(),
		}
		if p := address.GeoPoint(); p != nil {
			lat, lng := p.Lat(), p.Lng()
			addressDTO.Lat = &lat
			addressDTO.Lng = &lng
		}
		stops = append(stops, RouteStopDTO{
			RouteID:  aggregate.ID().Bytes(),
			Sequence: stop.Sequence(),
			OrderID:  stop.OrderID().Bytes(),
			Address:  addressDTO,
		})
	}

	return RouteDTO{
		ID:          aggregate.ID().Bytes(),
		Driver:      aggregate.Driver(),
		Vehicle:     aggregate.Vehicle(),
		CreatedAt:   aggregate.CreatedAt(),
		CompletedAt: aggregate.CompletedAt(),
		Stops:       stops,
	}
}

// routeToDomain converts a database DTO to a route using RestoreRoute.
func routeToDomain(dto RouteDTO) (*manifest.Route, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	stops := make([]manifest.RouteStop, 0, len(dto.Stops))
	for _, stopDTO := range dto.Stops {
		orderID, stopErr := kernel.UUIDFromBytes(stopDTO.OrderID[:])
		if stopErr != nil {
			return nil, stopErr
		}
		address, stopErr := kernel.NewAddress(
			stopDTO.Address.Line1, stopDTO.Address.Line2, stopDTO.Address.City,
			stopDTO.Address.Region, stopDTO.Address.PostalCode, stopDTO.Address.Country)
		if stopErr != nil {
			return nil, stopErr
		}
		if stopDTO.Address.Lat != nil && stopDTO.Address.Lng != nil {
			point, geoErr := kernel.NewGeoPoint(*stopDTO.Address.Lat, *stopDTO.Address.Lng)
			if geoErr != nil {
				return nil, geoErr
			}
			if address, stopErr = address.WithGeoPoint(point); stopErr != nil {
				return nil, stopErr
			}
		}
		stop, stopErr := manifest.RestoreRouteStop(orderID, address, stopDTO.Sequence)
		if stopErr != nil {
			return nil, stopErr
		}
		stops = append(stops, stop)
	}

	return manifest.RestoreRoute(id, dto.Driver, dto.Vehicle, stops, dto.CreatedAt, dto.CompletedAt)
}

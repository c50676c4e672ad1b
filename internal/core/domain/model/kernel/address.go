package kernel

import (
	"errors"
	"fmt"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrAddressIsNotConstructed is returned when validating an Address created
// outside the NewAddress constructor.
var ErrAddressIsNotConstructed = errs.NewValueIsRequiredError(
	"address must be created via NewAddress constructor")

// ErrGeoPointIsNotConstructed is returned when validating a GeoPoint created
// outside the NewGeoPoint constructor.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"geo point must be created via NewGeoPoint constructor")

// GeoPoint is a WGS84 coordinate pair attached to a resolved address.
// Latitude must be within [-90, 90] and longitude within [-180, 180].
type GeoPoint struct { //nolint:recvcheck //using for validation
	lat float64
	lng float64

	guard guard.ConstructorGuard
}

// NewGeoPoint creates a validated coordinate pair.
func NewGeoPoint(lat float64, lng float64) (GeoPoint, error) {
	p := GeoPoint{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(p.setLat(lat), p.setLng(lng)); err != nil {
		return GeoPoint{}, err
	}

	return p, nil
}

// Validate checks the point was created through NewGeoPoint.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

// Lat returns the latitude.
func (p GeoPoint) Lat() float64 {
	return p.lat
}

// Lng returns the longitude.
func (p GeoPoint) Lng() float64 {
	return p.lng
}

// String returns a human-readable representation, e.g. "GeoPoint(24.7136,46.6753)".
func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%g,%g)", p.lat, p.lng)
}

func (p *GeoPoint) setLat(lat float64) error {
	if lat < -90 || lat > 90 {
		return errs.NewValueIsOutOfRangeError("lat", lat, -90, 90)
	}
	p.lat = lat
	return nil
}

func (p *GeoPoint) setLng(lng float64) error {
	if lng < -180 || lng > 180 {
		return errs.NewValueIsOutOfRangeError("lng", lng, -180, 180)
	}
	p.lng = lng
	return nil
}

// Address is the structured delivery address carried by an order.
// Line1, city, and country are mandatory; the remaining components are
// optional because source channels deliver addresses of varying completeness.
// A geocoded point is attached once the verification pipeline resolves the
// customer's shortcode.
//
// Address is immutable: resolving an address produces a new value via
// WithGeoPoint rather than mutating the original.
type Address struct { //nolint:recvcheck //using for validation
	line1      string
	line2      string
	city       string
	region     string
	postalCode string
	country    string
	geo        *GeoPoint

	guard guard.ConstructorGuard
}

// NewAddress creates a validated delivery address.
// line2, region, and postalCode may be empty; line1, city, and country may not.
func NewAddress(line1, line2, city, region, postalCode, country string) (Address, error) {
	a := Address{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setLine1(line1),
		a.setCity(city),
		a.setCountry(country),
	); err != nil {
		return Address{}, err
	}

	a.line2 = line2
	a.region = region
	a.postalCode = postalCode
	return a, nil
}

// Validate checks the address was created through NewAddress.
func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

// Line1 returns the first address line.
func (a Address) Line1() string {
	return a.line1
}

// Line2 returns the optional second address line.
func (a Address) Line2() string {
	return a.line2
}

// City returns the city.
func (a Address) City() string {
	return a.city
}

// Region returns the optional region or province.
func (a Address) Region() string {
	return a.region
}

// PostalCode returns the optional postal code.
func (a Address) PostalCode() string {
	return a.postalCode
}

// Country returns the country code or name.
func (a Address) Country() string {
	return a.country
}

// GeoPoint returns the geocoded coordinates, or nil if the address has not
// been resolved by the verification pipeline yet.
func (a Address) GeoPoint() *GeoPoint {
	return a.geo
}

// WithGeoPoint returns a copy of the address carrying the given coordinates.
func (a Address) WithGeoPoint(p GeoPoint) (Address, error) {
	if err := errors.Join(a.Validate(), p.Validate()); err != nil {
		return Address{}, err
	}

	resolved := a
	resolved.geo = &p
	return resolved, nil
}

func (a *Address) setLine1(line1 string) error {
	if line1 == "" {
		return errs.NewValueIsRequiredError("line1")
	}
	a.line1 = line1
	return nil
}

func (a *Address) setCity(city string) error {
	if city == "" {
		return errs.NewValueIsRequiredError("city")
	}
	a.city = city
	return nil
}

func (a *Address) setCountry(country string) error {
	if country == "" {
		return errs.NewValueIsRequiredError("country")
	}
	a.country = country
	return nil
}

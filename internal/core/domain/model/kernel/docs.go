// Package kernel contains the shared value objects of the fulfillment domain:
// identifiers, the structured delivery address, geographic coordinates, the
// national-address shortcode, and monetary values. All types here are
// immutable and validated at construction; the zero value of every type is
// invalid and fails Validate.
package kernel

// Package verificationrepo provides data transfer objects and mapping
// functions for address verification attempt persistence.
package verificationrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/verification"

	"github.com/google/uuid"
)

// AttemptDTO represents the database structure for persisting verification
// attempts. The resolved address and the confirmation request are flattened
// into the same row: an empty resolved_line1 means no resolved address yet,
// a null confirmation_id means no confirmation request was issued.
// The partial unique index on OrderID backs the at-most-one-open-attempt
// invariant at the database level.
type AttemptDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;index;index:idx_attempts_open_order,unique,where:outcome = 'pending' OR outcome = 'needs_confirmation'"`
	Shortcode string    `gorm:"index"`
	Outcome   string    `gorm:"index"`

	Resolved     AddressDTO `gorm:"embedded;embeddedPrefix:resolved_"`
	ResponseHash string

	RetryCount  int
	NextRetryAt *time.Time `gorm:"index"`

	ConfirmationID          *uuid.UUID `gorm:"type:uuid"`
	ConfirmationContact     string
	ConfirmationChannel     string
	ConfirmationDeadline    *time.Time
	ConfirmationConfirmedAt *time.Time

	CreatedAt  time.Time
	ResolvedAt *time.Time
}

// TableName specifies the database table name for verification attempts.
func (AttemptDTO) TableName() string {
	return "verification_attempts"
}

// AddressDTO represents the embedded resolved address within the attempt table.
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

// fromDomain converts a verification attempt to its database representation.
func fromDomain(aggregate *verification.Attempt) AttemptDTO {
	dto := AttemptDTO{
		ID:           aggregate.ID().Bytes(),
		OrderID:      aggregate.OrderID().Bytes(),
		Shortcode:    aggregate.ShortCode().String(),
		Outcome:      aggregate.Outcome().String(),
		ResponseHash: aggregate.ResponseHash(),
		RetryCount:   aggregate.RetryCount(),
		NextRetryAt:  aggregate.NextRetryAt(),
		CreatedAt:    aggregate.CreatedAt(),
		ResolvedAt:   aggregate.ResolvedAt(),
	}

	if address := aggregate.ResolvedAddress(); address != nil {
		dto.Resolved = AddressDTO{
			Line1:      address.Line1(),
			Line2:      address.Line2(),
			City:       address.City(),
			Region:     address.Region(),
			PostalCode: address.PostalCode(),
			Country:    address.Country(),
		}
		if p := address.GeoPoint(); p != nil {
			lat, lng := p.Lat(), p.Lng()
			dto.Resolved.Lat = &lat
			dto.Resolved.Lng = &lng
		}
	}

	if confirmation := aggregate.Confirmation(); confirmation != nil {
		confirmationID := confirmation.ID().Bytes()
		deadline := confirmation.Deadline()
		dto.ConfirmationID = &confirmationID
		dto.ConfirmationContact = confirmation.Contact()
		dto.ConfirmationChannel = confirmation.Channel()
		dto.ConfirmationDeadline = &deadline
		dto.ConfirmationConfirmedAt = confirmation.ConfirmedAt()
	}

	return dto
}

// toDomain converts a database DTO to a verification attempt using
// RestoreAttempt.
func toDomain(dto AttemptDTO) (*verification.Attempt, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	shortcode, err := kernel.NewShortCode(dto.Shortcode)
	if err != nil {
		return nil, err
	}

	var resolved *kernel.Address
	if dto.Resolved.Line1 != "" {
		address, addressErr := kernel.NewAddress(
			dto.Resolved.Line1, dto.Resolved.Line2, dto.Resolved.City,
			dto.Resolved.Region, dto.Resolved.PostalCode, dto.Resolved.Country)
		if addressErr != nil {
			return nil, addressErr
		}
		if dto.Resolved.Lat != nil && dto.Resolved.Lng != nil {
			point, geoErr := kernel.NewGeoPoint(*dto.Resolved.Lat, *dto.Resolved.Lng)
			if geoErr != nil {
				return nil, geoErr
			}
			if address, addressErr = address.WithGeoPoint(point); addressErr != nil {
				return nil, addressErr
			}
		}
		resolved = &address
	}

	var confirmation *verification.ConfirmationRequest
	if dto.ConfirmationID != nil {
		confirmationID, confirmationErr := kernel.UUIDFromBytes((*dto.ConfirmationID)[:])
		if confirmationErr != nil {
			return nil, confirmationErr
		}
		confirmation, confirmationErr = verification.RestoreConfirmationRequest(
			confirmationID, dto.ConfirmationContact, dto.ConfirmationChannel,
			*dto.ConfirmationDeadline, dto.ConfirmationConfirmedAt)
		if confirmationErr != nil {
			return nil, confirmationErr
		}
	}

	return verification.RestoreAttempt(
		id, orderID, shortcode, verification.Outcome(dto.Outcome),
		resolved, dto.ResponseHash, dto.RetryCount, dto.NextRetryAt,
		confirmation, dto.CreatedAt, dto.ResolvedAt)
}

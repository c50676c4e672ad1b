package kernel_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAddress(t *testing.T) {
	t.Run("should create address with mandatory fields", func(t *testing.T) {
		a, err := kernel.NewAddress("King Fahd Rd 12", "", "Riyadh", "Riyadh Province", "12271", "SA")

		require.NoError(t, err)
		require.NoError(t, a.Validate())
		assert.Equal(t, "King Fahd Rd 12", a.Line1())
		assert.Equal(t, "Riyadh", a.City())
		assert.Equal(t, "SA", a.Country())
		assert.Nil(t, a.GeoPoint())
	})

	t.Run("should fail without line1", func(t *testing.T) {
		_, err := kernel.NewAddress("", "", "Riyadh", "", "", "SA")

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should fail without city", func(t *testing.T) {
		_, err := kernel.NewAddress("King Fahd Rd 12", "", "", "", "", "SA")

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should fail without country", func(t *testing.T) {
		_, err := kernel.NewAddress("King Fahd Rd 12", "", "Riyadh", "", "", "")

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var a kernel.Address

		require.Error(t, a.Validate())
	})
}

func TestAddressWithGeoPoint(t *testing.T) {
	a, _ := kernel.NewAddress("King Fahd Rd 12", "", "Riyadh", "", "", "SA")
	p, _ := kernel.NewGeoPoint(24.7136, 46.6753)

	t.Run("attaches coordinates without mutating original", func(t *testing.T) {
		resolved, err := a.WithGeoPoint(p)

		require.NoError(t, err)
		require.NotNil(t, resolved.GeoPoint())
		assert.InDelta(t, 24.7136, resolved.GeoPoint().Lat(), 1e-9)
		assert.Nil(t, a.GeoPoint())
	})

	t.Run("fails with unconstructed point", func(t *testing.T) {
		var zero kernel.GeoPoint

		_, err := a.WithGeoPoint(zero)

		require.Error(t, err)
	})
}

func TestNewGeoPoint(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		lng     float64
		wantErr bool
	}{
		{"valid point", 24.7136, 46.6753, false},
		{"latitude too high", 91, 0, true},
		{"latitude too low", -91, 0, true},
		{"longitude too high", 0, 181, true},
		{"longitude too low", 0, -181, true},
		{"boundary values are valid", 90, -180, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := kernel.NewGeoPoint(tt.lat, tt.lng)
			if tt.wantErr {
				require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
				return
			}
			require.NoError(t, err)
			require.NoError(t, p.Validate())
		})
	}
}

package kernel_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewShortCode(t *testing.T) {
	t.Run("should accept canonical shortcode", func(t *testing.T) {
		c, err := kernel.NewShortCode("RESB3139")

		require.NoError(t, err)
		require.NoError(t, c.Validate())
		assert.Equal(t, "RESB3139", c.String())
	})

	t.Run("should accept lowercase letters", func(t *testing.T) {
		c, err := kernel.NewShortCode("resb3139")

		require.NoError(t, err)
		assert.Equal(t, "resb3139", c.String())
	})

	t.Run("should reject empty code", func(t *testing.T) {
		_, err := kernel.NewShortCode("")

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	tests := []struct {
		name string
		code string
	}{
		{"too short", "RES313"},
		{"too long", "RESB31390"},
		{"digits first", "3139RESB"},
		{"letters only", "RESBABCD"},
		{"digits only", "12343139"},
		{"embedded whitespace", "RESB 139"},
	}

	for _, tt := range tests {
		t.Run("should reject "+tt.name, func(t *testing.T) {
			_, err := kernel.NewShortCode(tt.code)

			require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		})
	}
}

func TestShortCodeIsEqual(t *testing.T) {
	a, _ := kernel.NewShortCode("RESB3139")
	b, _ := kernel.NewShortCode("RESB3139")
	c, _ := kernel.NewShortCode("RESB3140")

	assert.True(t, a.IsEqual(b))
	assert.False(t, a.IsEqual(c))
}

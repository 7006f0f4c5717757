package apperrors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_Error(t *testing.T) {
	assert.Equal(t, "pageSize: must be positive", NewValidationError("pageSize", "must be positive").Error())
	assert.Equal(t, "bad input", (&ValidationError{Message: "bad input"}).Error())
}

func TestAsValidation_Wrapped(t *testing.T) {
	err := fmt.Errorf("create order: %w", NewValidationError("customer", "customer is required"))

	ve, ok := AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "customer", ve.Field)

	_, ok = AsUpstream(err)
	assert.False(t, ok)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(fmt.Errorf("get order 7: %w", ErrNotFound)))
	assert.False(t, IsNotFound(&UpstreamError{Service: "orders-api", StatusCode: 500}))
}

func TestUpstreamError_Error(t *testing.T) {
	err := fmt.Errorf("list: %w", &UpstreamError{Service: "orders-api", StatusCode: 503})

	ue, ok := AsUpstream(err)
	require.True(t, ok)
	assert.Equal(t, 503, ue.StatusCode)
	assert.Equal(t, "orders-api returned status 503", ue.Error())
}

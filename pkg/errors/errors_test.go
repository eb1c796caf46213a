package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"storefront/domain/order"
	"storefront/domain/product"
	"storefront/domain/shared"

	"github.com/stretchr/testify/assert"
)

func TestFromDomainError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code ErrorCode
	}{
		{"order not found", order.NewOrderNotFoundError("o-1"), CodeOrderNotFound},
		{"wrapped product not found", fmt.Errorf("lookup: %w", product.NewProductNotFoundError("p-1")), CodeProductNotFound},
		{"product not in order", order.NewProductNotInOrderError("o-1", "p-1"), CodeProductNotInOrder},
		{"invalid product", product.NewInvalidProductError("name", "must not be empty"), CodeValidation},
		{"conflict", shared.NewConflictError("product", "exists"), CodeConflict},
		{"generic not found", shared.NewNotFoundError("thing"), CodeNotFound},
		{"persistence failure", errors.New("connection refused"), CodeInternal},
		{"cancelled", context.Canceled, CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := FromDomainError(tt.err)
			assert.Equal(t, tt.code, appErr.Code)
			assert.ErrorIs(t, appErr, tt.err)
		})
	}
}

func TestFromDomainErrorHidesInternalDetails(t *testing.T) {
	appErr := FromDomainError(errors.New("dial tcp 10.0.0.1:3306: connection refused"))
	assert.Equal(t, "internal server error", appErr.Message)
}

func TestFromDomainErrorKeepsAppError(t *testing.T) {
	original := BadRequest("bad")
	assert.Same(t, original, FromDomainError(fmt.Errorf("wrap: %w", original)))
	assert.Nil(t, FromDomainError(nil))
	assert.True(t, Is(original, CodeBadRequest))
	assert.False(t, Is(errors.New("x"), CodeBadRequest))
}

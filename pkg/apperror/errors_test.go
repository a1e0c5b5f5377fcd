package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fmt.Errorf("product 3: %w", ErrNotFound), http.StatusNotFound},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"bad request", fmt.Errorf("wrap: %w", ErrBadRequest), http.StatusBadRequest},
		{"validation", Invalid("product price must be greater than 0"), http.StatusBadRequest},
		{"rate limited", ErrRateLimitExceeded, http.StatusTooManyRequests},
		{"unavailable", ErrUnavailable, http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatus(tt.err))
		})
	}
}

func TestValidationErrorKeepsMessage(t *testing.T) {
	err := fmt.Errorf("add product: %w", Invalid("category with id 9 does not exist"))

	assert.ErrorIs(t, err, ErrInvalidInput)
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, "category with id 9 does not exist", verr.Message)
}

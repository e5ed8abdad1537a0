package httperror

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name           string
		err            *Error
		expectedStatus int
	}{
		{"bad_request", BadRequest("x.invalid", "Bad Request", nil), fiber.StatusBadRequest},
		{"not_found", NotFound("x.not_found", "Review ID: 1 Not Found", nil), fiber.StatusNotFound},
		{"unauthorized", Unauthorized("x.unauthorized", "nope", nil), fiber.StatusUnauthorized},
		{"forbidden", Forbidden("x.forbidden", "nope", nil), fiber.StatusForbidden},
		{"internal", InternalServerError("x.failed", "boom", nil), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedStatus, tt.err.Status)
		})
	}
}

func TestErrorsAs(t *testing.T) {
	var err error = NotFound("review.show.not_found", "Review ID: 100 Not Found", nil)

	var httpErr *Error
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, "Review ID: 100 Not Found", httpErr.Message)
	assert.Contains(t, err.Error(), "review.show.not_found")
}

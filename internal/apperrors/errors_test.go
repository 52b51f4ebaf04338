package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIErrorUnwrap(t *testing.T) {
	assert.ErrorIs(t, &APIError{StatusCode: http.StatusNotFound, Detail: "x"}, ErrNotFound)
	assert.ErrorIs(t, &APIError{StatusCode: http.StatusUnprocessableEntity, Detail: "x"}, ErrValidation)
	assert.ErrorIs(t, &APIError{StatusCode: http.StatusBadRequest, Detail: "x"}, ErrValidation)
	assert.ErrorIs(t, &APIError{StatusCode: http.StatusBadGateway, Detail: "x"}, ErrUpstream)
}

func TestUserMessage(t *testing.T) {
	wrapped := fmt.Errorf("create rate: %w", &APIError{StatusCode: http.StatusBadRequest, Detail: "La cotización debe ser positiva"})
	assert.Equal(t, "La cotización debe ser positiva", UserMessage(wrapped))

	network := fmt.Errorf("%w: dial tcp: connection refused", ErrUnavailable)
	assert.Equal(t, MsgCannotReachServer, UserMessage(network))

	assert.Equal(t, "boom", UserMessage(errors.New("boom")))
}

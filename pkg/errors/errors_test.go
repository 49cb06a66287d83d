package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneKeepsIdentity(t *testing.T) {
	err := Clone(ErrNotFound, "Class not found")

	assert.Equal(t, "Class not found", err.Message)
	assert.Equal(t, "Not found", ErrNotFound.Message)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))
}

func TestFromErrorWrapsUnknown(t *testing.T) {
	cause := fmt.Errorf("dial tcp: refused")
	err := FromError(cause)

	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.Equal(t, ErrInternal.Message, err.Message)
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, FromError(nil))
}

func TestFromErrorFindsWrappedAppError(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", WithDetails(ErrValidation, []string{"end"}))
	err := FromError(wrapped)

	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, []string{"end"}, err.Details)
	assert.Nil(t, ErrValidation.Details)
}

func TestIsServerError(t *testing.T) {
	assert.True(t, IsServerError(ErrUpstream))
	assert.True(t, IsServerError(errors.New("boom")))
	assert.False(t, IsServerError(ErrForbidden))
	assert.False(t, IsServerError(nil))
}

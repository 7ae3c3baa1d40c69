package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("Event not found")))
	assert.Equal(t, KindConflict, KindOf(fmt.Errorf("book: %w", Conflict("taken"))))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.False(t, Is(nil, KindInternal))
	assert.True(t, Is(Forbidden("no"), KindForbidden))
}

func TestInternalWrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal("list events", cause)

	assert.ErrorIs(t, err, cause)
	assert.EqualError(t, err, "list events: connection reset")
	assert.Equal(t, "internal", err.Kind.String())
}

func TestInvalidFields(t *testing.T) {
	err := InvalidFields(map[string]string{"email": "is required"})
	assert.Equal(t, KindValidation, err.Kind)
	assert.Equal(t, "is required", err.Fields["email"])
}

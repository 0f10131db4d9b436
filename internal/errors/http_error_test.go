package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindConflict, KindOf(Conflict("taken")))
	assert.Equal(t, KindNotFound, KindOf(NotFound("missing")))
	assert.Equal(t, KindValidation, KindOf(Validation("bad")))
	assert.Equal(t, KindUnauthorized, KindOf(Unauthorized("nope")))
	assert.Equal(t, KindUnavailable, KindOf(Unavailable("down")))
	assert.Equal(t, KindInternal, KindOf(fmt.Errorf("plain")))

	// Wrapped tagged errors keep their kind.
	wrapped := fmt.Errorf("creating reservation: %w", Conflict("taken"))
	assert.Equal(t, KindConflict, KindOf(wrapped))
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusCode(Conflict("taken")))
	assert.Equal(t, http.StatusBadRequest, StatusCode(Validation("bad")))
	assert.Equal(t, http.StatusNotFound, StatusCode(NotFound("missing")))
	assert.Equal(t, http.StatusUnauthorized, StatusCode(Unauthorized("nope")))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(fmt.Errorf("plain")))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(Unavailable("down")))
}

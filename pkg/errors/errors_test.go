package errors

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	err := fmt.Errorf("outer: %w", Clone(ErrNotFound, "report not found"))

	appErr := FromError(err)
	assert.Equal(t, ErrNotFound.Code, appErr.Code)
	assert.Equal(t, "report not found", appErr.Message)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	appErr := FromError(sql.ErrConnDone)
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.ErrorIs(t, appErr, sql.ErrConnDone)
}

func TestClonedErrorsMatchSentinel(t *testing.T) {
	err := Clone(ErrDecryptionFailed, "bad key")
	assert.True(t, errors.Is(err, ErrDecryptionFailed))
	assert.False(t, errors.Is(err, ErrMalformedPayload))
	assert.Equal(t, "bad key", err.Error())
}

func TestWrapMessageIncludesCause(t *testing.T) {
	err := Internal(errors.New("boom"), "failed to load")
	assert.Equal(t, "failed to load: boom", err.Error())
	assert.Nil(t, FromError(nil))
}

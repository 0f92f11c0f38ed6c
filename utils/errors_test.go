package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorageQuotaExceededEmbedsLimit(t *testing.T) {
	err := StorageQuotaExceeded(16106127360)

	assert.Equal(t, http.StatusForbidden, err.StatusCode)
	assert.Equal(t, CodeQuotaExceeded, err.Code)
	assert.Equal(t, "You have exceeded your 15 GB storage limit.", err.Message)
}

func TestNotFoundMessage(t *testing.T) {
	assert.Equal(t, "Folder not found", NotFound("Folder").Message)
	assert.Equal(t, "Resource not found", NotFound("").Message)
	assert.Equal(t, http.StatusNotFound, NotFound("File").StatusCode)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(NotFound("Note")))
	assert.True(t, IsNotFound(fmt.Errorf("lookup: %w", NotFound("Note"))))
	assert.False(t, IsNotFound(BadRequest("nope")))
	assert.False(t, IsNotFound(errors.New("plain")))
}

func TestValidationErrorStatus(t *testing.T) {
	err := ValidationError("Title is required")
	assert.Equal(t, http.StatusUnprocessableEntity, err.StatusCode)
	assert.Equal(t, CodeValidation, err.Code)
}

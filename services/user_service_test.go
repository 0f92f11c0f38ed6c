package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"jotter/utils"
)

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, validatePassword("longenough"))
	assert.NoError(t, validatePassword("12345678"))

	for _, pw := range []string{"", "short", "1234567"} {
		err := validatePassword(pw)
		require.Error(t, err, "password %q should be rejected", pw)

		var apiErr *utils.ApiError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, utils.CodeValidation, apiErr.Code)
	}
}

func TestChangePasswordRejectsShortBeforeLookup(t *testing.T) {
	// The new password is validated before any user lookup, so a zero-value
	// service is safe here.
	s := &UserService{}

	err := s.ChangePassword(context.Background(), primitive.NewObjectID(), "current", "short")

	var apiErr *utils.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, utils.CodeValidation, apiErr.Code)
}

func TestUpdateProfileRequiresFields(t *testing.T) {
	s := &UserService{}

	_, err := s.UpdateProfile(context.Background(), primitive.NewObjectID(), nil, nil, nil)

	var apiErr *utils.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, utils.CodeBadRequest, apiErr.Code)
}

func TestUpdateProfileValidatesNames(t *testing.T) {
	s := &UserService{}
	empty := ""

	_, err := s.UpdateProfile(context.Background(), primitive.NewObjectID(), &empty, nil, nil)

	var apiErr *utils.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, utils.CodeValidation, apiErr.Code)
}

package errors

import (
	"net/http"
	"testing"

	"identity/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseError_IsMatchesDetailedCopies(t *testing.T) {
	detailed := ErrValidationFailed.WithDetails(FieldErrors{"email": {"This field is required."}})
	wrapped := errors.Wrap(detailed, "register failed")

	assert.True(t, errors.Is(wrapped, ErrValidationFailed))
	assert.False(t, errors.Is(wrapped, ErrAuthenticationFailed))

	var appErr AppError
	require.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPCode())
	assert.Equal(t, []string{"This field is required."}, appErr.Details()["email"])
}

func TestTokenErrors_ShareMessage(t *testing.T) {
	assert.Equal(t, ErrTokenExpired.Message(), ErrTokenMalformed.Message())
	assert.Equal(t, ErrTokenExpired.Message(), ErrTokenWrongType.Message())
	assert.False(t, errors.Is(ErrTokenExpired, ErrTokenMalformed))
}

func TestConflictError_Details(t *testing.T) {
	cause := errors.New("duplicate key")
	err := errors.Wrap(NewConflictError("profile.phone_number", cause), "create failed")

	conflict, ok := errors.AsType[*ConflictError](err)
	require.True(t, ok)
	assert.Equal(t, "profile.phone_number", conflict.Field)
	assert.Equal(t, FieldErrors{"profile.phone_number": {"This phone number is already registered."}}, conflict.Details())
	assert.True(t, errors.Is(err, cause))

	unknown := NewConflictError("", cause)
	assert.Contains(t, unknown.Details(), NonFieldErrors)
}

func TestFieldErrors_MergeAndRender(t *testing.T) {
	fe := FieldErrors{}
	assert.False(t, fe.HasErrors())

	fe.Add("username", "This username is already taken.")
	fe.AddError(NewFieldError("email", "Enter a valid email address."))
	fe.Merge("profile", FieldErrors{"phone_number": {"Phone number must contain at least 10 digits."}})

	assert.True(t, fe.HasErrors())
	assert.Equal(t, []string{"email", "profile.phone_number", "username"}, fe.Fields())
	assert.Equal(t,
		"email: Enter a valid email address.; profile.phone_number: Phone number must contain at least 10 digits.; username: This username is already taken.",
		fe.Error(),
	)
}

func TestDatabaseExecuteError_HidesDetails(t *testing.T) {
	err := NewDatabaseExecuteError(errors.New("connection reset"), "failed to find account")

	assert.Equal(t, http.StatusInternalServerError, err.HTTPCode())
	assert.Nil(t, err.Details())
	assert.Contains(t, err.Error(), "connection reset")
}

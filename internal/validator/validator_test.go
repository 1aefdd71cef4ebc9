package validator

import (
	"testing"

	"slowork_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRegisterRequest(t *testing.T) {
	v := New()

	valid := dto.RegisterRequest{
		Email:    "user@test.com",
		Password: "password123",
		Name:     "Test User",
		Role:     "freelancer",
	}
	assert.NoError(t, v.Validate(valid))

	invalid := dto.RegisterRequest{
		Email:    "not-an-email",
		Password: "short",
		Role:     "superuser",
	}
	err := v.Validate(invalid)
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok, "expected *ValidationError, got %T", err)

	// Field names come from json tags, not Go field names.
	assert.Contains(t, vErr.Errors, "email")
	assert.Contains(t, vErr.Errors, "password")
	assert.Contains(t, vErr.Errors, "name")
	assert.Contains(t, vErr.Errors, "role")
	assert.Equal(t, "Must be a valid email address", vErr.Errors["email"])
	assert.Equal(t, "This field is required", vErr.Errors["name"])
}

func TestValidateCreateReviewRequest(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(dto.CreateReviewRequest{Rating: 5}))

	err := v.Validate(dto.CreateReviewRequest{Rating: 6})
	require.Error(t, err)
	vErr := err.(*ValidationError)
	assert.Contains(t, vErr.Errors, "rating")
}

func TestCustomStatusRules(t *testing.T) {
	v := New()

	type probe struct {
		Status string `json:"status" validate:"omitempty,is-job-status"`
	}

	assert.NoError(t, v.Validate(probe{}))
	assert.NoError(t, v.Validate(probe{Status: "open"}))
	assert.Error(t, v.Validate(probe{Status: "paused"}))
}

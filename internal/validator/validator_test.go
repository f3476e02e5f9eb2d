package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	UserType string `json:"user_type" validate:"required,is-user-type"`
}

type swipeInput struct {
	TargetID    string   `json:"target_id" validate:"required"`
	Action      string   `json:"action" validate:"required,is-swipe-action"`
	Professions []string `json:"professions" validate:"omitempty,dive,is-profession"`
}

func TestValidate_UsesJSONNames(t *testing.T) {
	v := New()

	err := v.Validate(&registerInput{Email: "nope", Password: "123", UserType: "plumber"})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, vErr.Errors, "email")
	assert.Contains(t, vErr.Errors, "password")
	assert.Equal(t, "must be one of: particulier, artisan", vErr.Errors["user_type"])
}

func TestValidate_CustomRules(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&swipeInput{TargetID: "x", Action: "like", Professions: []string{"plombier"}}))
	assert.Error(t, v.Validate(&swipeInput{TargetID: "x", Action: "superlike"}))
	assert.Error(t, v.Validate(&swipeInput{TargetID: "x", Action: "dislike", Professions: []string{"astronaute"}}))
}

package validation

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inviteRequest struct {
	UserID   uint64  `json:"user_id" validate:"required"`
	Role     string  `json:"role" validate:"required,collabrole"`
	Priority *string `json:"priority" validate:"omitempty,priority"`
	Status   string  `json:"status" validate:"omitempty,taskstatus"`
}

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	require.NoError(t, RegisterOn(v))
	return v
}

func TestCustomTags(t *testing.T) {
	v := newValidator(t)
	high := "high"
	urgent := "urgent"

	tests := []struct {
		name   string
		req    inviteRequest
		fields []string
	}{
		{"editor", inviteRequest{UserID: 1, Role: "editor"}, nil},
		{"viewer with priority", inviteRequest{UserID: 1, Role: "viewer", Priority: &high, Status: "done"}, nil},
		{"owner is not assignable", inviteRequest{UserID: 1, Role: "owner"}, []string{"role"}},
		{"unknown role", inviteRequest{UserID: 1, Role: "admin"}, []string{"role"}},
		{"bad priority", inviteRequest{UserID: 1, Role: "editor", Priority: &urgent}, []string{"priority"}},
		{"bad status", inviteRequest{UserID: 1, Role: "editor", Status: "blocked"}, []string{"status"}},
		{"missing fields", inviteRequest{}, []string{"user_id", "role"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.req)
			if tt.fields == nil {
				require.NoError(t, err)
				return
			}

			details, ok := Details(err)
			require.True(t, ok)
			var got []string
			for _, d := range details {
				got = append(got, d.Field)
			}
			assert.ElementsMatch(t, tt.fields, got)
		})
	}
}

func TestDetails_NonValidationError(t *testing.T) {
	details, ok := Details(errors.New("unexpected EOF"))
	assert.False(t, ok)
	assert.Nil(t, details)
}

func TestRegister_Idempotent(t *testing.T) {
	require.NoError(t, Register())
	require.NoError(t, Register())
}

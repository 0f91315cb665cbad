package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yigit/campusportal/internal/app/models"
	"github.com/yigit/campusportal/internal/pkg/apperrors"
)

func TestAllows(t *testing.T) {
	tests := []struct {
		role       models.Role
		capability Capability
		want       bool
	}{
		{models.RoleAdmin, CapabilityManageContent, true},
		{models.RoleAdmin, CapabilityViewContent, true},
		{models.RoleAdmin, CapabilitySubscribe, true},
		{models.RoleStudent, CapabilityManageContent, false},
		{models.RoleStudent, CapabilityViewContent, true},
		{models.RoleStudent, CapabilitySubscribe, true},
		{models.Role("ADMIN"), CapabilityManageContent, false},
		{models.Role(""), CapabilityViewContent, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+tt.capability.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Allows(tt.role, tt.capability))
		})
	}
}

func TestAuthorize(t *testing.T) {
	assert.NoError(t, Authorize(models.RoleAdmin, CapabilityManageContent))
	assert.ErrorIs(t, Authorize(models.RoleStudent, CapabilityManageContent), apperrors.ErrPermissionDenied)
}

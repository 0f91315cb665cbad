package auth

import (
	"fmt"

	"github.com/yigit/campusportal/internal/app/models"
	"github.com/yigit/campusportal/internal/pkg/apperrors"
)

// Capability is an action class guarded at a route boundary
type Capability int

const (
	// CapabilityViewContent covers reading sections, files, news and searching the knowledge base
	CapabilityViewContent Capability = iota
	// CapabilitySubscribe covers opening a broadcast session
	CapabilitySubscribe
	// CapabilityManageContent covers every admin list and mutation
	CapabilityManageContent
)

func (c Capability) String() string {
	switch c {
	case CapabilityViewContent:
		return "view-content"
	case CapabilitySubscribe:
		return "subscribe"
	case CapabilityManageContent:
		return "manage-content"
	default:
		return fmt.Sprintf("capability(%d)", int(c))
	}
}

// Allows reports whether role grants capability. Unknown roles grant nothing.
func Allows(role models.Role, capability Capability) bool {
	switch role {
	case models.RoleAdmin:
		switch capability {
		case CapabilityViewContent, CapabilitySubscribe, CapabilityManageContent:
			return true
		}
		return false
	case models.RoleStudent:
		switch capability {
		case CapabilityViewContent, CapabilitySubscribe:
			return true
		case CapabilityManageContent:
			return false
		}
		return false
	default:
		return false
	}
}

// Authorize returns a forbidden error when role lacks capability
func Authorize(role models.Role, capability Capability) error {
	if !Allows(role, capability) {
		return apperrors.NewForbiddenError("Access denied")
	}
	return nil
}

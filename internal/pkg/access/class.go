package access

import (
	"fmt"

	"github.com/StreamNestTV/StreamNest/app/models"
)

// Class is the computed authorization outcome of a resolved request.
type Class int

const (
	// ClassDenied means the identity holds no export entitlement.
	ClassDenied Class = iota
	// ClassAdministrative bypasses subscription checks (admin/moderator).
	ClassAdministrative
	// ClassSubscriber is entitled through an active subscription's plan.
	ClassSubscriber
)

func (c Class) String() string {
	switch c {
	case ClassAdministrative:
		return "administrative"
	case ClassSubscriber:
		return "subscriber"
	default:
		return "denied"
	}
}

// Authorization is the full resolution result handed to renderers and cache
// key logic. PlanID is set only for ClassSubscriber.
type Authorization struct {
	Class  Class
	PlanID uint
	User   *models.User
	Device *models.Device
	Token  *models.PlaylistToken
}

// CacheKey returns the class-scoped cache key prefix. Rendered documents are
// identical for every device sharing an authorization class, so the key is
// the class, not the device.
func (a *Authorization) CacheKey() string {
	if a.Class == ClassAdministrative {
		return "admin"
	}
	return fmt.Sprintf("plan:%d", a.PlanID)
}

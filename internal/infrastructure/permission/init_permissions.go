package permission

import (
	"fmt"

	"github.com/orris-inc/visitorpass/internal/domain/visitor"
	"github.com/orris-inc/visitorpass/internal/shared/constants"
	"github.com/orris-inc/visitorpass/internal/shared/logger"
)

// DefaultVisitorPolicies is the role grant table installed on first start.
var DefaultVisitorPolicies = map[string][]visitor.Capability{
	constants.RoleDepartmentUser: {visitor.CapabilitySubmit},
	constants.RoleSecurity:       {visitor.CapabilityReview, visitor.CapabilityReadAll},
	constants.RoleGate:           {visitor.CapabilityGate, visitor.CapabilityReadAll},
	constants.RoleAdmin: {
		visitor.CapabilitySubmit,
		visitor.CapabilityReview,
		visitor.CapabilityGate,
		visitor.CapabilityReadAll,
	},
}

// InitVisitorPermissions installs DefaultVisitorPolicies. Existing grants are
// left alone, so operators can add to the table without it being reset.
func InitVisitorPermissions(e *Enforcer, log logger.Interface) error {
	added := 0
	for _, role := range []string{
		constants.RoleDepartmentUser,
		constants.RoleSecurity,
		constants.RoleGate,
		constants.RoleAdmin,
	} {
		for _, capability := range DefaultVisitorPolicies[role] {
			ok, err := e.AddPolicy(role, capability)
			if err != nil {
				log.Errorw("failed to add visitor permission policy",
					"error", err,
					"role", role,
					"capability", capability)
				return fmt.Errorf("failed to add policy [%s, %s]: %w", role, capability, err)
			}
			if ok {
				added++
			}
		}
	}

	log.Infow("visitor permissions initialized", "added", added)
	return nil
}

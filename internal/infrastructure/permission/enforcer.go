package permission

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/casbin/casbin/v2/persist"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"

	"github.com/orris-inc/visitorpass/internal/domain/visitor"
	"github.com/orris-inc/visitorpass/internal/shared/constants"
	"github.com/orris-inc/visitorpass/internal/shared/logger"
)

var _ visitor.CapabilityChecker = (*Enforcer)(nil)

// builtinModel grants a role an (object, action) pair. Capabilities are
// written object:action, e.g. visitor_request:review.
const builtinModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

type Enforcer struct {
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	logger   logger.Interface
}

// NewEnforcerWithDB persists policies in the casbin_rule table through the
// gorm adapter.
func NewEnforcerWithDB(db *gorm.DB, modelPath string, log logger.Interface) (*Enforcer, error) {
	adapter, err := gormadapter.NewAdapterByDBUseTableName(db, "", constants.TableCasbinRules)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin adapter: %w", err)
	}
	return NewEnforcer(adapter, modelPath, log)
}

// NewEnforcer builds an enforcer from modelPath, or the built-in model when
// modelPath is empty. A nil adapter keeps policies in memory only.
func NewEnforcer(adapter persist.Adapter, modelPath string, log logger.Interface) (*Enforcer, error) {
	m, err := loadModel(modelPath)
	if err != nil {
		return nil, err
	}

	var enforcer *casbin.Enforcer
	if adapter != nil {
		enforcer, err = casbin.NewEnforcer(m, adapter)
	} else {
		enforcer, err = casbin.NewEnforcer(m)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	if adapter != nil {
		if err := enforcer.LoadPolicy(); err != nil {
			return nil, fmt.Errorf("failed to load policy: %w", err)
		}
	}

	return &Enforcer{
		enforcer: enforcer,
		logger:   log,
	}, nil
}

func loadModel(modelPath string) (model.Model, error) {
	if modelPath == "" {
		m, err := model.NewModelFromString(builtinModel)
		if err != nil {
			return nil, fmt.Errorf("failed to parse built-in casbin model: %w", err)
		}
		return m, nil
	}
	m, err := model.NewModelFromFile(modelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model %s: %w", modelPath, err)
	}
	return m, nil
}

// Can reports whether the actor's role holds capability.
func (e *Enforcer) Can(ctx context.Context, actor visitor.Actor, capability visitor.Capability) (bool, error) {
	if actor.Role == "" {
		return false, nil
	}
	obj, act, ok := strings.Cut(string(capability), ":")
	if !ok {
		return false, fmt.Errorf("malformed capability: %s", capability)
	}
	return e.Enforce(actor.Role, obj, act)
}

func (e *Enforcer) Enforce(role string, resource string, action string) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	allowed, err := e.enforcer.Enforce(role, resource, action)
	if err != nil {
		e.logger.Errorw("permission check failed", "error", err, "role", role, "resource", resource, "action", action)
		return false, fmt.Errorf("permission check failed: %w", err)
	}

	return allowed, nil
}

// AddPolicy grants capability to role. Granting an existing pair is a no-op.
func (e *Enforcer) AddPolicy(role string, capability visitor.Capability) (bool, error) {
	obj, act, ok := strings.Cut(string(capability), ":")
	if !ok {
		return false, fmt.Errorf("malformed capability: %s", capability)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	added, err := e.enforcer.AddPolicy(role, obj, act)
	if err != nil {
		e.logger.Errorw("failed to add policy", "error", err, "role", role, "capability", capability)
		return false, fmt.Errorf("failed to add policy: %w", err)
	}
	return added, nil
}

func (e *Enforcer) RemovePolicy(role string, capability visitor.Capability) error {
	obj, act, ok := strings.Cut(string(capability), ":")
	if !ok {
		return fmt.Errorf("malformed capability: %s", capability)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.enforcer.RemovePolicy(role, obj, act); err != nil {
		e.logger.Errorw("failed to remove policy", "error", err, "role", role, "capability", capability)
		return fmt.Errorf("failed to remove policy: %w", err)
	}
	return nil
}

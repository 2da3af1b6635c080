// Package rbac holds the role × resource × action matrix that gates every write.
package rbac

import (
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"github.com/orgdesa/orgdesa/internal/models"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelConf string

// Resource names a kind of record guarded by the matrix.
type Resource string

const (
	ResourceActivity         Resource = "activity"
	ResourceActivityDocument Resource = "activity_document"
	ResourceMeetingMinute    Resource = "meeting_minute"
	ResourceDocument         Resource = "document"
	ResourceOrganization     Resource = "organization"
	ResourceUser             Resource = "user"
	ResourceAuditLog         Resource = "audit_log"
)

// contentResources share the create/edit capability split.
var contentResources = []Resource{
	ResourceActivity,
	ResourceActivityDocument,
	ResourceMeetingMinute,
	ResourceDocument,
}

// Action is a mutation (or admin read) on a resource.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionManage Action = "manage"
)

// Enforcer answers whether a role may perform an action on a resource.
type Enforcer struct {
	e *casbin.Enforcer
}

// NewEnforcer builds the enforcer. When db is non-nil the policy is persisted
// in the casbin_rule table through the gorm adapter; otherwise it lives in memory.
// Either way the stored policy is rewritten from the role capabilities on startup.
func NewEnforcer(db *gorm.DB, logger *slog.Logger) (*Enforcer, error) {
	m, err := model.NewModelFromString(modelConf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}

	var e *casbin.Enforcer
	if db != nil {
		adapter, err := gormadapter.NewAdapterByDB(db)
		if err != nil {
			return nil, fmt.Errorf("failed to create casbin adapter: %w", err)
		}
		e, err = casbin.NewEnforcer(m, adapter)
		if err != nil {
			return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
		}
	} else {
		e, err = casbin.NewEnforcer(m)
		if err != nil {
			return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
		}
	}

	enf := &Enforcer{e: e}
	if err := enf.seed(db != nil); err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Info("RBAC enforcer initialized", "rules", len(Rules()))
	}
	return enf, nil
}

// seed replaces whatever policy is loaded with the one derived from the roles.
func (enf *Enforcer) seed(persist bool) error {
	enf.e.EnableAutoSave(false)
	enf.e.ClearPolicy()

	if _, err := enf.e.AddPolicies(Rules()); err != nil {
		return fmt.Errorf("failed to add policies: %w", err)
	}
	if persist {
		if err := enf.e.SavePolicy(); err != nil {
			return fmt.Errorf("failed to save policies: %w", err)
		}
	}
	return nil
}

// Rules derives the policy lines from the role capability predicates so the
// matrix can never disagree with models.Role.
func Rules() [][]string {
	var rules [][]string
	for _, role := range models.Roles {
		sub := string(role)
		for _, res := range contentResources {
			if role.CanCreateContent() {
				rules = append(rules, []string{sub, string(res), string(ActionCreate)})
			}
			if role.CanEditContent() {
				rules = append(rules,
					[]string{sub, string(res), string(ActionUpdate)},
					[]string{sub, string(res), string(ActionDelete)},
				)
			}
		}
		if role.IsAdmin() {
			rules = append(rules,
				[]string{sub, string(ResourceOrganization), string(ActionUpdate)},
				[]string{sub, string(ResourceUser), string(ActionManage)},
				[]string{sub, string(ResourceAuditLog), string(ActionManage)},
			)
		}
	}
	return rules
}

// Allowed checks a single role/resource/action triple.
func (enf *Enforcer) Allowed(role models.Role, res Resource, act Action) (bool, error) {
	return enf.e.Enforce(string(role), string(res), string(act))
}

// Permissions returns the policy lines granted to a role.
func (enf *Enforcer) Permissions(role models.Role) ([][]string, error) {
	return enf.e.GetFilteredPolicy(0, string(role))
}

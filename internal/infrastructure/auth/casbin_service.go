package auth

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

// DefaultModel matches role subjects against route patterns and method regexes
const DefaultModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && keyMatch2(r.obj, p.obj) && regexMatch(r.act, p.act)
`

type CasbinService struct{ E *casbin.Enforcer }

// NewCasbinService builds an enforcer persisted through the gorm adapter.
// An empty modelPath selects DefaultModel.
func NewCasbinService(db *gorm.DB, modelPath string) (*CasbinService, error) {
	adp, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}

	var E *casbin.Enforcer
	if modelPath != "" {
		E, err = casbin.NewEnforcer(modelPath, adp)
	} else {
		var m model.Model
		m, err = model.NewModelFromString(DefaultModel)
		if err != nil {
			return nil, err
		}
		E, err = casbin.NewEnforcer(m, adp)
	}
	if err != nil {
		return nil, err
	}
	if err := E.LoadPolicy(); err != nil {
		return nil, err
	}
	return &CasbinService{E}, nil
}

// SeedDefaultPolicies installs the stock route policies when the policy table is empty.
// Every role may reach the profile routes and owners may always manage their
// own record; admins tighten the role rules at runtime.
func (s *CasbinService) SeedDefaultPolicies(apiPrefix string) (bool, error) {
	policies, err := s.E.GetPolicy()
	if err != nil {
		return false, err
	}
	if len(policies) > 0 {
		return false, nil
	}

	rules := [][]string{
		{"role_admin", apiPrefix + "/users/*", "(GET|POST|PATCH|DELETE)"},
		{"role_instructor", apiPrefix + "/users/*", "(GET|POST|PATCH|DELETE)"},
		{"role_user", apiPrefix + "/users/*", "(GET|POST|PATCH|DELETE)"},
		{"role_owner", apiPrefix + "/users/:id", "(GET|PATCH|DELETE)"},
	}
	if _, err := s.E.AddPolicies(rules); err != nil {
		return false, err
	}
	return true, nil
}

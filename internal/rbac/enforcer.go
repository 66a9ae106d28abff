package rbac

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// policies maps the four system roles onto resource/action pairs. The
// admin role inherits everything through the grouping rules below.
var policies = [][]string{
	{"hr", "payroll", "read"},
	{"hr", "payroll", "create"},
	{"hr", "payroll", "update"},
	{"hr", "payroll", "adjust"},
	{"hr", "payroll", "approve"},
	{"hr", "workflow", "read"},
	{"hr", "workflow", "create"},
	{"hr", "workflow", "approve"},
	{"hr", "tax", "read"},

	{"finance", "payroll", "read"},
	{"finance", "payroll", "approve"},
	{"finance", "payroll", "pay"},
	{"finance", "tax", "read"},
	{"finance", "workflow", "read"},

	{"employee", "payroll", "read"},
	{"employee", "workflow", "read"},
	{"employee", "workflow", "approve"},

	{"admin", "tax", "write"},
	{"admin", "payroll", "delete"},
}

// admin also gets every non-admin grant.
var groupings = [][]string{
	{"admin", "hr"},
	{"admin", "finance"},
	{"admin", "employee"},
}

// NewEnforcer builds the in-memory role enforcer. Policies are fixed
// at build time; the role itself comes from the verified JWT.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, p := range policies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}
	for _, g := range groupings {
		if _, err := e.AddGroupingPolicy(g[0], g[1]); err != nil {
			return nil, err
		}
	}

	return e, nil
}

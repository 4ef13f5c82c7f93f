package role

import (
	"errors"
	"strings"
)

var (
	ErrNotFound           = errors.New("role not found")
	ErrPermissionNotFound = errors.New("permission not found")
)

// Well-known role names issued by the lending API.
const (
	SuperAdmin    = "SUPERADMIN"
	Admin         = "ADMIN"
	Backoffice    = "BACKOFFICE"
	BranchManager = "BRANCH_MANAGER"
	Marketing     = "MARKETING"
	Customer      = "CUSTOMER"
)

type Role struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

func (r Role) Key() int64 { return r.ID }

func (r Role) SearchFields() []string {
	return []string{r.Name, strings.Join(r.Permissions, " ")}
}

type Permission struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (p Permission) Key() int64 { return p.ID }

func (p Permission) SearchFields() []string { return []string{p.Name} }

type UpdatePermissionsRequest struct {
	PermissionIDs []int64 `json:"permissionIds" validate:"dive,gt=0"`
}

// DisplayName picks the label shown for a set of roles, highest tier first.
func DisplayName(roles []string) string {
	has := func(name string) bool {
		for _, r := range roles {
			if r == name {
				return true
			}
		}
		return false
	}
	switch {
	case has(SuperAdmin):
		return "Super Admin"
	case has(Backoffice):
		return "Backoffice"
	case has(BranchManager):
		return "Branch Manager"
	case has(Marketing):
		return "Marketing"
	case len(roles) > 0:
		return roles[0]
	}
	return ""
}

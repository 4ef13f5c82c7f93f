package user

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"staff-portal/internal/domain/branch"
	"staff-portal/internal/domain/role"
	domain "staff-portal/internal/domain/user"
	"staff-portal/internal/prompt"
	"staff-portal/internal/usecase"
	"staff-portal/internal/viewstate"
)

type Facade struct {
	deps     usecase.Deps
	gw       domain.Gateway
	roleGW   role.Gateway
	branchGW branch.Gateway

	users    *viewstate.Collection[domain.User]
	roles    *viewstate.Collection[role.Role]
	branches *viewstate.Collection[branch.Branch]
}

// View is everything the user screen renders.
type View struct {
	Users    viewstate.Snapshot[domain.User] `json:"users"`
	Roles    []role.Role                     `json:"roles"`
	Branches []branch.Branch                 `json:"branches"`
}

func New(gw domain.Gateway, roles role.Gateway, branches branch.Gateway, deps usecase.Deps) *Facade {
	return &Facade{
		deps:     deps,
		gw:       gw,
		roleGW:   roles,
		branchGW: branches,
		users:    viewstate.NewCollection[domain.User](deps.Options("user", "users")),
		roles:    viewstate.NewCollection[role.Role](deps.Options("role", "roles")),
		branches: viewstate.NewCollection[branch.Branch](deps.Options("branch", "branches")),
	}
}

func (f *Facade) Load(ctx context.Context) bool { return f.users.Load(ctx, f.gw.List) }

// LoadSupportingData fetches the role and branch pick lists, each only once.
func (f *Facade) LoadSupportingData(ctx context.Context) {
	var g errgroup.Group
	g.Go(func() error {
		f.roles.LoadOnce(ctx, f.roleGW.List)
		return nil
	})
	g.Go(func() error {
		f.branches.LoadOnce(ctx, f.branchGW.List)
		return nil
	})
	_ = g.Wait()
}

func (f *Facade) Create(ctx context.Context, req domain.CreateRequest) (domain.User, bool) {
	if msg, ok := f.deps.Check(req); !ok {
		f.users.SetError(msg)
		return domain.User{}, false
	}
	return f.users.Create(ctx, func(ctx context.Context) (*domain.User, error) {
		return f.gw.Create(ctx, req)
	})
}

func (f *Facade) Update(ctx context.Context, id int64, req domain.UpdateRequest) (domain.User, bool) {
	if msg, ok := f.deps.Check(req); !ok {
		f.users.SetError(msg)
		return domain.User{}, false
	}
	return f.users.Update(ctx, id, func(ctx context.Context) (*domain.User, error) {
		return f.gw.Update(ctx, id, req)
	})
}

// ToggleStatus flips u's active flag after confirmation. The row is marked
// busy while the call runs.
func (f *Facade) ToggleStatus(ctx context.Context, u domain.User) bool {
	activate := !u.IsActive
	cfg := prompt.Config{
		Title:       "Deactivate User",
		Message:     fmt.Sprintf("Are you sure you want to deactivate %q? This user will not be able to login.", u.Name),
		ConfirmText: "Deactivate",
		Type:        prompt.KindWarning,
	}
	if activate {
		cfg = prompt.Config{
			Title:       "Activate User",
			Message:     fmt.Sprintf("Are you sure you want to activate %q?", u.Name),
			ConfirmText: "Activate",
			Type:        prompt.KindInfo,
		}
	}
	if f.deps.Confirm == nil || !f.deps.Confirm.Confirm(ctx, cfg) {
		return false
	}
	_, ok := f.users.Mutate(ctx, viewstate.Mutation[domain.User]{
		Op:       "set_status",
		Fallback: "Failed to update user status",
		Flag:     viewstate.FlagBusy,
		BusyID:   u.ID,
		Patch:    viewstate.PatchReplace,
		Target:   u.ID,
		Call: func(ctx context.Context) (*domain.User, error) {
			return f.gw.SetStatus(ctx, u.ID, activate)
		},
	})
	return ok
}

// AvailableRoles lists the roles u does not hold yet.
func (f *Facade) AvailableRoles(u domain.User) []role.Role {
	var out []role.Role
	for _, r := range f.roles.Items() {
		if !u.HasRole(r.Name) {
			out = append(out, r)
		}
	}
	return out
}

func (f *Facade) AssignRole(ctx context.Context, userID, roleID int64) (domain.User, bool) {
	return f.users.Mutate(ctx, viewstate.Mutation[domain.User]{
		Op:       "assign_role",
		Fallback: "Failed to assign role",
		Patch:    viewstate.PatchReplace,
		Call: func(ctx context.Context) (*domain.User, error) {
			return f.gw.AssignRole(ctx, userID, roleID)
		},
	})
}

// RemoveRole takes roleName away from u after confirmation. The name must
// be in the loaded role list.
func (f *Facade) RemoveRole(ctx context.Context, u domain.User, roleName string) (domain.User, bool) {
	var (
		target role.Role
		found  bool
	)
	for _, r := range f.roles.Items() {
		if r.Name == roleName {
			target, found = r, true
			break
		}
	}
	if !found {
		f.users.SetError(fmt.Sprintf("Role %s not found in system.", roleName))
		return domain.User{}, false
	}

	if f.deps.Confirm == nil || !f.deps.Confirm.Confirm(ctx, prompt.Config{
		Title:       "Remove Role",
		Message:     fmt.Sprintf("Are you sure you want to remove role %q from %s?", roleName, u.Name),
		ConfirmText: "Remove",
		Type:        prompt.KindWarning,
	}) {
		return domain.User{}, false
	}
	return f.users.Mutate(ctx, viewstate.Mutation[domain.User]{
		Op:       "remove_role",
		Fallback: "Failed to remove role",
		Patch:    viewstate.PatchReplace,
		Call: func(ctx context.Context) (*domain.User, error) {
			return f.gw.RemoveRole(ctx, u.ID, target.ID)
		},
	})
}

func (f *Facade) Get(id int64) (domain.User, bool) { return f.users.Get(id) }

func (f *Facade) UpdateQuery(raw string)  { f.users.UpdateQuery(raw) }
func (f *Facade) Filtered() []domain.User { return f.users.Filtered() }
func (f *Facade) BusyID() int64           { return f.users.BusyID() }
func (f *Facade) Err() string             { return f.users.Err() }
func (f *Facade) ClearError()             { f.users.ClearError() }

func (f *Facade) Subscribe(fn func()) func() {
	return viewstate.SubscribeAll(fn, f.users, f.roles, f.branches)
}

func (f *Facade) Close() {
	f.users.Close()
	f.roles.Close()
	f.branches.Close()
}

func (f *Facade) View() View {
	return View{
		Users:    f.users.Snapshot(),
		Roles:    f.roles.Items(),
		Branches: f.branches.Items(),
	}
}

package role

import (
	"context"
	"sync"

	domain "staff-portal/internal/domain/role"
	"staff-portal/internal/usecase"
	"staff-portal/internal/viewstate"
)

type Facade struct {
	deps  usecase.Deps
	gw    domain.Gateway
	roles *viewstate.Collection[domain.Role]
	perms *viewstate.Collection[domain.Permission]
	// signal announces edit changes
	signal viewstate.Signal

	mu      sync.Mutex
	editing int64
}

// View is everything the role screen renders.
type View struct {
	Roles       viewstate.Snapshot[domain.Role] `json:"roles"`
	Permissions []domain.Permission             `json:"permissions"`
	Editing     int64                           `json:"editing,omitempty"`
}

func New(gw domain.Gateway, deps usecase.Deps) *Facade {
	return &Facade{
		deps:  deps,
		gw:    gw,
		roles: viewstate.NewCollection[domain.Role](deps.Options("role", "roles")),
		perms: viewstate.NewCollection[domain.Permission](deps.Options("permission", "permissions")),
	}
}

func (f *Facade) Load(ctx context.Context) bool { return f.roles.Load(ctx, f.gw.List) }

// LoadPermissions fetches the permission catalogue once.
func (f *Facade) LoadPermissions(ctx context.Context) bool {
	return f.perms.LoadOnce(ctx, f.gw.ListPermissions)
}

// Edit marks roleID as the role whose permissions are being edited.
func (f *Facade) Edit(roleID int64) {
	f.mu.Lock()
	f.editing = roleID
	f.mu.Unlock()
	f.signal.Notify()
}

func (f *Facade) Editing() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.editing
}

func (f *Facade) CancelEdit() { f.Edit(0) }

// UpdatePermissions replaces the role's permission set and ends the edit on success.
func (f *Facade) UpdatePermissions(ctx context.Context, roleID int64, permissionIDs []int64) (domain.Role, bool) {
	req := domain.UpdatePermissionsRequest{PermissionIDs: permissionIDs}
	if msg, ok := f.deps.Check(req); !ok {
		f.roles.SetError(msg)
		return domain.Role{}, false
	}
	r, ok := f.roles.Mutate(ctx, viewstate.Mutation[domain.Role]{
		Op:       "update_permissions",
		Fallback: "Failed to update permissions",
		Flag:     viewstate.FlagSaving,
		Patch:    viewstate.PatchReplace,
		Call: func(ctx context.Context) (*domain.Role, error) {
			return f.gw.UpdatePermissions(ctx, roleID, permissionIDs)
		},
	})
	if ok {
		f.mu.Lock()
		done := f.editing == roleID
		if done {
			f.editing = 0
		}
		f.mu.Unlock()
		if done {
			f.signal.Notify()
		}
	}
	return r, ok
}

// PermissionIDs maps the role's permission names to catalogue ids, for
// pre-checking the edit form. Names missing from the catalogue are skipped.
func (f *Facade) PermissionIDs(r domain.Role) []int64 {
	byName := map[string]int64{}
	for _, p := range f.perms.Items() {
		byName[p.Name] = p.ID
	}
	ids := make([]int64, 0, len(r.Permissions))
	for _, name := range r.Permissions {
		if id, ok := byName[name]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func (f *Facade) Get(id int64) (domain.Role, bool) { return f.roles.Get(id) }

func (f *Facade) UpdateQuery(raw string)  { f.roles.UpdateQuery(raw) }
func (f *Facade) Filtered() []domain.Role { return f.roles.Filtered() }
func (f *Facade) ClearError()             { f.roles.ClearError() }
func (f *Facade) Close()                  { f.roles.Close(); f.perms.Close() }

func (f *Facade) Subscribe(fn func()) func() {
	return viewstate.SubscribeAll(fn, f.roles, f.perms, &f.signal)
}

func (f *Facade) View() View {
	return View{
		Roles:       f.roles.Snapshot(),
		Permissions: f.perms.Items(),
		Editing:     f.Editing(),
	}
}

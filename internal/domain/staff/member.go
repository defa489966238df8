package staff

import "fmt"

// Role of a staff member
type Role string

const (
	RoleAssociate  Role = "ASSOCIATE"
	RoleSupervisor Role = "SUPERVISOR"
)

// ParseRole converts a wire value into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAssociate, RoleSupervisor:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown staff role %q", s)
	}
}

// Scope is the set of zones a member may be assigned work in. All=true
// overrides the location list.
type Scope struct {
	All         bool
	LocationIDs []string
}

// Covers reports whether the scope includes the given location.
func (s Scope) Covers(locationID string) bool {
	if s.All {
		return true
	}
	for _, id := range s.LocationIDs {
		if id == locationID {
			return true
		}
	}
	return false
}

// Member is one store employee the assigner can hand work to.
type Member struct {
	id      string
	name    string
	role    Role
	onShift bool
	scope   Scope
}

// NewMember creates a staff member.
func NewMember(id, name string, role Role, onShift bool, scope Scope) *Member {
	return &Member{
		id:      id,
		name:    name,
		role:    role,
		onShift: onShift,
		scope:   Scope{All: scope.All, LocationIDs: append([]string(nil), scope.LocationIDs...)},
	}
}

func (m *Member) ID() string    { return m.id }
func (m *Member) Name() string  { return m.name }
func (m *Member) Role() Role    { return m.role }
func (m *Member) OnShift() bool { return m.onShift }

// Scope returns a copy of the member's zone scope.
func (m *Member) Scope() Scope {
	return Scope{All: m.scope.All, LocationIDs: append([]string(nil), m.scope.LocationIDs...)}
}

// InScope reports whether the member may take work for the location.
func (m *Member) InScope(locationID string) bool {
	return m.scope.Covers(locationID)
}

// SetShift flips the shift flag, reporting whether it changed.
func (m *Member) SetShift(onShift bool) bool {
	if m.onShift == onShift {
		return false
	}
	m.onShift = onShift
	return true
}

// SetScope replaces the zone scope.
func (m *Member) SetScope(scope Scope) {
	m.scope = Scope{All: scope.All, LocationIDs: append([]string(nil), scope.LocationIDs...)}
}

// Rename updates the display name.
func (m *Member) Rename(name string) {
	m.name = name
}

// SetRole updates the role.
func (m *Member) SetRole(role Role) {
	m.role = role
}

// Clone returns a copy for repository hand-out.
func (m *Member) Clone() *Member {
	return NewMember(m.id, m.name, m.role, m.onShift, m.scope)
}

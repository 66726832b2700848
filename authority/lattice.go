package authority

// PermissionLevel is the ordered capability tier on a shared resource.
// Comparisons always go through the rank table, never string ordering.
type PermissionLevel string

const (
	LevelRead  PermissionLevel = "read"
	LevelWrite PermissionLevel = "write"
	LevelAdmin PermissionLevel = "admin"
)

var permissionLevelRanks = map[PermissionLevel]int{
	LevelRead:  0,
	LevelWrite: 1,
	LevelAdmin: 2,
}

func (l PermissionLevel) IsValid() bool {
	_, found := permissionLevelRanks[l]
	return found
}

// Rank returns -1 for values outside the lattice.
func (l PermissionLevel) Rank() int {
	rank, found := permissionLevelRanks[l]
	if !found {
		return -1
	}
	return rank
}

func (l PermissionLevel) Meets(need PermissionLevel) bool {
	if !l.IsValid() || !need.IsValid() {
		return false
	}
	return l.Rank() >= need.Rank()
}

func MaxLevel(a, b PermissionLevel) PermissionLevel {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// OrgRole is the ordered authority tier inside an organization.
// It is a separate lattice from PermissionLevel: an owner can not be
// demoted or removed.
type OrgRole string

const (
	OrgRoleMember OrgRole = "member"
	OrgRoleAdmin  OrgRole = "admin"
	OrgRoleOwner  OrgRole = "owner"
)

var orgRoleRanks = map[OrgRole]int{
	OrgRoleMember: 0,
	OrgRoleAdmin:  1,
	OrgRoleOwner:  2,
}

func (r OrgRole) IsValid() bool {
	_, found := orgRoleRanks[r]
	return found
}

func (r OrgRole) Rank() int {
	rank, found := orgRoleRanks[r]
	if !found {
		return -1
	}
	return rank
}

func (r OrgRole) Meets(need OrgRole) bool {
	if !r.IsValid() || !need.IsValid() {
		return false
	}
	return r.Rank() >= need.Rank()
}

package authz

// Role is one of the four privilege tiers.
type Role string

const (
	RoleMember      Role = "member"
	RoleTeamManager Role = "team_manager"
	RoleOrgAdmin    Role = "org_admin"
	RoleSystemAdmin Role = "system_admin"
)

var roleRank = map[Role]int{
	RoleMember:      0,
	RoleTeamManager: 1,
	RoleOrgAdmin:    2,
	RoleSystemAdmin: 3,
}

func rank(r Role) int {
	if v, ok := roleRank[r]; ok {
		return v
	}
	return -1
}

// Principal is the security identity resolved from the request credentials.
// It is an opaque capability object as far as the report core is concerned:
// the core only calls the privilege helpers and uses Subject for file naming.
type Principal struct {
	Subject     string
	UserID      int64
	GlobalRoles []Role
	OrgRoles    map[int64]Role
	TeamRoles   map[int64]Role
	TelegramID  int64
}

func (p Principal) IsSystemAdmin() bool {
	for _, r := range p.GlobalRoles {
		if r == RoleSystemAdmin {
			return true
		}
	}
	return false
}

func (p Principal) IsSelf(userID int64) bool {
	return p.UserID != 0 && p.UserID == userID
}

// HasAnyRole reports whether the principal holds at least one of the
// required roles anywhere (globally, in any org or in any team).
func (p Principal) HasAnyRole(required ...Role) bool {
	if len(required) == 0 {
		return true
	}
	for _, want := range required {
		if want == RoleSystemAdmin && p.IsSystemAdmin() {
			return true
		}
		for _, held := range p.GlobalRoles {
			if rank(held) >= rank(want) {
				return true
			}
		}
		for _, held := range p.OrgRoles {
			if rank(held) >= rank(want) {
				return true
			}
		}
		for _, held := range p.TeamRoles {
			if rank(held) >= rank(want) {
				return true
			}
		}
	}
	return false
}

// HasOrgPrivilege reports whether the principal holds at least the required
// role within the organization. System admins satisfy every check.
func (p Principal) HasOrgPrivilege(orgID int64, required Role) bool {
	if p.IsSystemAdmin() {
		return true
	}
	held, ok := p.OrgRoles[orgID]
	return ok && rank(held) >= rank(required)
}

// HasTeamPrivilege reports whether the principal holds at least the required
// role within the team, either directly or through an org-wide role.
func (p Principal) HasTeamPrivilege(teamID int64, required Role) bool {
	if p.IsSystemAdmin() {
		return true
	}
	if held, ok := p.TeamRoles[teamID]; ok && rank(held) >= rank(required) {
		return true
	}
	for _, held := range p.OrgRoles {
		if rank(held) >= rank(RoleOrgAdmin) && rank(held) >= rank(required) {
			return true
		}
	}
	return false
}

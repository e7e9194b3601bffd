// AngelaMos | 2026
// role.go

package workspace

// Role is the closed set of workspace roles, strictly ordered
// member < admin < owner. There are no dynamic roles.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
	RoleOwner  Role = "owner"
)

var roleRank = map[Role]int{
	RoleMember: 1,
	RoleAdmin:  2,
	RoleOwner:  3,
}

func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// Meets reports whether r satisfies a requirement of required: equal or
// higher rank passes. This is the only place in the codebase where roles
// are compared; call sites must never order roles themselves.
func (r Role) Meets(required Role) bool {
	rank, ok := roleRank[r]
	requiredRank, requiredOK := roleRank[required]
	return ok && requiredOK && rank >= requiredRank
}

func (r Role) String() string {
	return string(r)
}

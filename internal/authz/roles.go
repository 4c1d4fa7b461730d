package authz

const (
	RoleAuditor = "auditor"
	RoleAdmin   = "admin"
)

func IsKnownRole(role string) bool {
	return role == RoleAdmin || role == RoleAuditor
}

func IsReadOnly(role string) bool {
	return role == RoleAuditor
}

// gin context keys set by the auth middleware
const (
	CtxSubject = "subject"
	CtxRole    = "role"
)

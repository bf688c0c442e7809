package auth

// Claims identifies the caller of an authenticated request.
type Claims struct {
	Subject string
	Role    string
	// Source is "JWT" for bearer tokens and "DEV" when auth is disabled.
	Source string
}

const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)

// CanConfigure reports whether the caller may change the operator
// configuration.
func (c *Claims) CanConfigure() bool {
	return c != nil && c.Role == RoleAdmin
}

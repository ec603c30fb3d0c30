package domain

// Session is an immutable snapshot of a client's authentication state.
//
// While Loading is false, a non-nil Identity always comes with a resolved
// Role, and a nil Identity always comes with RoleNone.
type Session struct {
	Identity *Identity `json:"identity,omitempty"`
	Role     Role      `json:"role,omitempty"`
	Loading  bool      `json:"loading"`
}

func (s Session) SignedIn() bool     { return s.Identity != nil }
func (s Session) IsAdmin() bool      { return s.Role == RoleAdmin }
func (s Session) IsSuperAdmin() bool { return s.Role == RoleSuperAdmin }

// Resolved reports whether the snapshot is stable enough to act on.
func (s Session) Resolved() bool { return !s.Loading }

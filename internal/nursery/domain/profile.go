package domain

import "time"

// Profile is the application record attached to an identity. Role holds the
// raw stored value, which may be empty for records written by older tooling;
// read it through ParseRole.
type Profile struct {
	ID         string
	Email      string
	Role       string
	Attributes map[string]string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ProfilePatch describes a merge into a profile.
//
// An empty Email leaves the stored email alone. InitialRole only applies
// while the stored role is empty, so a late lazy create cannot overwrite a
// role an admin has already assigned. Attributes merge key by key. CreatedAt
// is only used when the row is first inserted.
type ProfilePatch struct {
	Email       string
	InitialRole Role
	Attributes  map[string]string
	CreatedAt   time.Time
}

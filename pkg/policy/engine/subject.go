package engine

// Subject describes the caller an authorization request is evaluated for.
// Resolution of a process or bus name to a Subject is the hosting daemon's
// concern; the engine only consumes the resolved identity.
type Subject struct {
	// UID is the subject's unix user ID.
	UID uint32

	// Name is the subject's unix username.
	Name string

	// Groups are the subject's unix group memberships.
	Groups []string

	// NetGroups are the subject's network-group memberships.
	NetGroups []string

	// Local reports whether the subject's session is local.
	Local bool

	// Active reports whether the subject's session is active.
	Active bool
}

package ticket

import "deskflow/internal/shared/auth"

// Actor identifies who is attempting an operation. System is set for
// transitions triggered internally by the approval engine, which bypass
// caller-role guards.
type Actor struct {
	ID     uint
	Roles  []string
	System bool
}

// SystemActor returns the actor used for engine-triggered transitions,
// attributed to the user whose decision caused them.
func SystemActor(userID uint) Actor {
	return Actor{ID: userID, System: true}
}

func (a Actor) IsAdmin() bool {
	return auth.IsAdmin(a.Roles)
}

package identity

// Role is a coarse-grained permission category assigned to a principal.
type Role string

// Known roles.
const (
	RoleSuperAdmin           Role = "super_admin"
	RoleDatabaseTutorManager Role = "database_tutor_manager"
)

// Principal describes the authenticated actor for a request.
type Principal struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
	PrimaryRole string `json:"primary_role,omitempty"`
	AccountType string `json:"account_type,omitempty"`
}

// State classifies the outcome of session resolution.
type State int

const (
	// StateUnknown means the managed session has not settled yet.
	StateUnknown State = iota
	// StateAuthenticated means a principal was resolved.
	StateAuthenticated
	// StateAnonymous means no session source yielded a principal.
	StateAnonymous
)

// String returns a human readable state label.
func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Resolution is the result of resolving session evidence for a request.
type Resolution struct {
	State     State
	Principal *Principal
}

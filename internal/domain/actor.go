package domain

type Role string

const (
	RoleAnonymous Role = "anonymous"
	RoleCustomer  Role = "customer"
	RoleStaff     Role = "staff"
	RoleAdmin     Role = "admin"
)

// ParseRole maps a claim value onto a known role; unknown values are anonymous.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleCustomer, RoleStaff, RoleAdmin:
		return Role(s)
	}
	return RoleAnonymous
}

// Actor is whoever issued the current request.
type Actor struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	Role Role   `json:"role"`
}

var Anonymous = Actor{Role: RoleAnonymous}

func (a Actor) IsAuthenticated() bool {
	return a.Role != RoleAnonymous && a.ID != ""
}

func (a Actor) IsStaff() bool {
	return a.Role == RoleStaff || a.Role == RoleAdmin
}

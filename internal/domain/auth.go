package domain

// ============================================================
// Auth — request/response types (matches the staff frontend contract)
// ============================================================

// SignInRequest is the body for POST /v1/auth/signin.
type SignInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignInResponse is the body for 200 from POST /v1/auth/signin.
type SignInResponse struct {
	Token    string   `json:"token"`
	Type     string   `json:"type"` // always "Bearer"
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

// SignUpRequest is the body for POST /v1/auth/signup.
type SignUpRequest struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Roles    []string `json:"roles,omitempty"`
}

// StaffAccount is a back-office user as stored by the auth collaborator.
// PasswordHash never leaves the service layer.
type StaffAccount struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Roles        []string
}

// Staff roles. Deletes require RoleAdmin; everything else needs a valid
// token of any role.
const (
	RoleAdmin = "ADMIN"
	RoleAgent = "AGENT"
)

package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// MockAdminID is the user id that a development mock token resolves to an
// admin identity.
const MockAdminID = "1"

// User models an account that can sign in to the bookstore.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

// IdentitySource records how a request identity was resolved.
type IdentitySource string

const (
	// SourceStore means the user record was loaded from the credential store.
	SourceStore IdentitySource = "store"
	// SourceClaims means the credential store was unreachable and the identity
	// was built from token claims alone.
	SourceClaims IdentitySource = "claims"
	// SourceMock means a development mock token was presented.
	SourceMock IdentitySource = "mock"
)

// Identity is the authenticated caller attached to a request.
type Identity struct {
	UserID string
	Email  string
	Role   string
	Source IdentitySource
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// DevAccount is a well-known development login. The same accounts are seeded
// into the database and answered by the edge proxy when the API is down.
type DevAccount struct {
	ID       string
	Email    string
	Password string
	Role     string
}

// DevAccounts returns the development accounts.
func DevAccounts() []DevAccount {
	return []DevAccount{
		{ID: MockAdminID, Email: "admin@test.com", Password: "admin123", Role: RoleAdmin},
		{ID: "2", Email: "user@test.com", Password: "user123", Role: RoleUser},
	}
}

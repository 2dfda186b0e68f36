package domain

import (
	"regexp"
	"strings"
	"time"
)

// Role partitions the identity store. Each role lives in its own collection,
// so username/email uniqueness holds per role rather than globally.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// ParseRole validates a raw role string coming off the wire.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleManager, RoleEmployee:
		return Role(s), true
	}
	return "", false
}

// CreatorModel discriminates the polymorphic CreatedBy reference on employees.
type CreatorModel string

const (
	CreatorAdmin   CreatorModel = "Admin"
	CreatorManager CreatorModel = "Manager"
)

// Identity models an authenticated actor: an admin, a manager, or an
// employee. It is a tagged union over Role: manager- and employee-only
// fields are zero for the other variants.
type Identity struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone"`
	Role         Role      `json:"role"`
	Image        string    `json:"image,omitempty"`
	IsActive     bool      `json:"is_active"`
	LastLogin    time.Time `json:"last_login,omitzero"`

	// Reset-code flow: 6-digit code mailed to the account owner.
	ResetCode       string    `json:"-"`
	ResetCodeExpire time.Time `json:"-"`

	// Reset-token flow: sha256 of an opaque URL token.
	ResetTokenHash   string    `json:"-"`
	ResetTokenExpire time.Time `json:"-"`

	// Manager fields.
	Department       string   `json:"department,omitempty"`
	ManagedEmployees []string `json:"managed_employees,omitempty"`

	// Employee fields.
	Position       string       `json:"position,omitempty"`
	EmployeeID     string       `json:"employee_id,omitempty"`
	Salary         float64      `json:"salary,omitempty"`
	JoiningDate    time.Time    `json:"joining_date,omitzero"`
	ManagedBy      string       `json:"managed_by,omitempty"`
	CreatedByModel CreatorModel `json:"created_by_model,omitempty"`

	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Public returns a copy with every secret field blanked. Handlers return
// identities through this so a hash loaded with includeSecret can never leak.
func (i *Identity) Public() *Identity {
	clone := *i
	clone.PasswordHash = ""
	clone.ResetCode = ""
	clone.ResetTokenHash = ""
	return &clone
}

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)
	emailRe    = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)
	phoneRe    = regexp.MustCompile(`^\+?[1-9]\d{0,15}$`)
)

// NormalizeUsername lowercases and trims a login name for storage and lookup.
func NormalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeEmail lowercases and trims an address for storage and lookup.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func ValidUsername(s string) bool { return usernameRe.MatchString(s) }
func ValidEmail(s string) bool    { return emailRe.MatchString(s) }
func ValidPhone(s string) bool    { return phoneRe.MatchString(s) }

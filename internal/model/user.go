package model

import (
	"fmt"
	"slices"
	"strconv"
	"time"
)

// Role is a console role. Roles are flat: a screen lists every role allowed on it.
type Role string

// Roles.
const (
	RoleAdmin Role = "Admin"
	RoleAgent Role = "Agent"
)

// Roles lists every known role.
var Roles = []Role{RoleAdmin, RoleAgent}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return slices.Contains(Roles, r)
}

// HasRole reports whether role is one of allowed. Unknown roles fail closed.
func HasRole(role Role, allowed []Role) bool {
	if !role.Valid() {
		return false
	}
	return slices.Contains(allowed, role)
}

// User is a backend account.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullName"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// AuthUser is the identity the session check answers with.
type AuthUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullname"`
	Role     Role   `json:"role"`
}

// Identity converts a stored user to the session identity.
func (u *User) Identity() AuthUser {
	return AuthUser{
		ID:       strconv.FormatInt(u.ID, 10),
		Email:    u.Email,
		FullName: u.FullName,
		Role:     u.Role,
	}
}

// Credentials are the login form values.
type Credentials struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

// Registration is the self-service sign-up payload.
type Registration struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
	Role        Role   `json:"role"`
	CompanyName string `json:"companyName"`
	Country     string `json:"country"`
	State       string `json:"state"`
	City        string `json:"city"`
}

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// ValidatePassword checks the password policy.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// Validate checks a registration before it is sent.
func (r Registration) Validate() error {
	errs := FieldErrors{}
	errs.Required("fullName", r.FullName, "Full name is required")
	errs.Required("email", r.Email, "Email is required")
	if r.Email != "" && !looksLikeEmail(r.Email) {
		errs.Add("email", "Enter a valid email address")
	}
	if err := ValidatePassword(r.Password); err != nil {
		errs.Add("password", err.Error())
	}
	if !r.Role.Valid() {
		errs.Add("role", "Choose a role")
	}
	return errs.Err()
}

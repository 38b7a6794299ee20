package domain

import "strings"

const RoleAdmin = "admin"

// User is the account record returned by the login and /users calls.
type User struct {
	ID    string `json:"_id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// DisplayName returns the name, falling back to the e-mail local part.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if at := strings.IndexByte(u.Email, '@'); at > 0 {
		return u.Email[:at]
	}
	return u.Email
}

// Session is the authenticated identity of the visitor.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// IsAdmin reports whether the session belongs to an admin account.
func (s *Session) IsAdmin() bool {
	return s != nil && strings.EqualFold(s.User.Role, RoleAdmin)
}

// Credentials is the body of POST /users/login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the body of POST /users and /users/create-admin.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
}

// PasswordReset is the body of POST /users/reset-password.
type PasswordReset struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Email) == "" || c.Password == "" {
		return &ValidationError{Message: "email and password are required"}
	}
	return nil
}

func (r Registration) Validate() error {
	switch {
	case strings.TrimSpace(r.Name) == "":
		return &ValidationError{Field: "name", Message: "name is required"}
	case !strings.Contains(r.Email, "@"):
		return &ValidationError{Field: "email", Message: "a valid email is required"}
	case len(r.Password) < 6:
		return &ValidationError{Field: "password", Message: "password must be at least 6 characters"}
	}
	return nil
}

func (r PasswordReset) Validate() error {
	switch {
	case strings.TrimSpace(r.Email) == "":
		return &ValidationError{Field: "email", Message: "email is required"}
	case strings.TrimSpace(r.OTP) == "":
		return &ValidationError{Field: "otp", Message: "one-time code is required"}
	case len(r.NewPassword) < 6:
		return &ValidationError{Field: "newPassword", Message: "password must be at least 6 characters"}
	}
	return nil
}

package domain

import "strings"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Identity is the authenticated user's snapshot held by the console for the
// lifetime of a session. It is written only by the authentication flow;
// everything else treats it as read-only.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Valid reports whether the identity is complete enough to trust. A partially
// populated identity (missing email or role) is discarded rather than used.
func (i *Identity) Valid() bool {
	return i != nil && i.Email != "" && i.Role != ""
}

// IsAdmin reports whether this identity may see the admin panel: either the
// admin role, or an email on the operator allowlist.
func (i *Identity) IsAdmin(allowlist []string) bool {
	if !i.Valid() {
		return false
	}
	if i.Role == RoleAdmin {
		return true
	}
	email := strings.ToLower(strings.TrimSpace(i.Email))
	for _, allowed := range allowlist {
		if email == strings.ToLower(strings.TrimSpace(allowed)) {
			return true
		}
	}
	return false
}

// DisplayName returns the name shown in the panel header, falling back to the
// local part of the email.
func (i *Identity) DisplayName() string {
	if i == nil {
		return ""
	}
	if i.Name != "" {
		return i.Name
	}
	if at := strings.IndexByte(i.Email, '@'); at > 0 {
		return i.Email[:at]
	}
	return "Admin"
}

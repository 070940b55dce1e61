package user

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNoSession = errors.New("no active session")
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// DefaultLoginScore is the credit score fabricated for every login.
// Registration starts at zero instead; the score only moves through
// profile updates.
const DefaultLoginScore = 650

type User struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	KYCVerified bool      `json:"kyc_verified"`
	Role        Role      `json:"role"`
	CreditScore int       `json:"credit_score"`
	CreatedAt   time.Time `json:"created_at"`
}

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// RoleForEmail derives the role the way the demo login does: any email
// containing "admin" gets the admin role, everything else is a user.
func RoleForEmail(email string) Role {
	if strings.Contains(email, "admin") {
		return RoleAdmin
	}
	return RoleUser
}

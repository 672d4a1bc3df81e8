package users

import "time"

// Account status values.
const (
	StatusDisabled int16 = 0
	StatusEnabled  int16 = 1
)

// User represents a user account. The password hash never serializes.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Nickname     string     `json:"nickname"`
	Phone        string     `json:"phone"`
	Avatar       string     `json:"avatar"`
	Status       int16      `json:"status"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	LastLoginIP  *string    `json:"last_login_ip,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Enabled reports whether the account may authenticate.
func (u User) Enabled() bool {
	return u.Status == StatusEnabled
}

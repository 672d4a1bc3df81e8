package auth

import "time"

// User is the authenticator's view of an account.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Nickname     string
	Status       int16
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Enabled reports whether the account may authenticate. A disabled
// account is rejected regardless of credential validity.
func (u *User) Enabled() bool {
	return u.Status == 1
}

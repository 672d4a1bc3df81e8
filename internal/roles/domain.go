package roles

import "time"

// Role status values.
const (
	StatusDisabled int16 = 0
	StatusEnabled  int16 = 1
)

// Role represents a named permission bundle.
type Role struct {
	ID          int64     `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      int16     `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

package permissions

import "time"

// Permission status values.
const (
	StatusDisabled int16 = 0
	StatusEnabled  int16 = 1
)

// Permission kinds.
const (
	TypeMenu   = "menu"
	TypeButton = "button"
	TypeAPI    = "api"
)

// RootParentID marks a permission with no parent.
const RootParentID int64 = 0

// Permission represents a single grantable capability. Path and Method are
// meaningful only for the api type.
type Permission struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	ParentID  int64     `json:"parent_id"`
	Path      string    `json:"path"`
	Method    string    `json:"method"`
	Icon      string    `json:"icon"`
	SortOrder int32     `json:"sort_order"`
	Status    int16     `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

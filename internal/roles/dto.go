package roles

type CreateRoleRequest struct {
	Code        string `json:"code" validate:"required,min=2,max=50"`
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=255"`
	Status      *int16 `json:"status,omitempty" validate:"omitempty,oneof=0 1"`
}

type UpdateRoleRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=255"`
	Status      *int16  `json:"status,omitempty" validate:"omitempty,oneof=0 1"`
}

type AssignPermissionsRequest struct {
	PermissionIDs []int64 `json:"permission_ids" validate:"dive,gt=0"`
}

// Filter narrows role listings. Nil fields apply no predicate.
type Filter struct {
	Code     *string
	Name     *string
	Status   *int16
	Page     int
	PageSize int
}

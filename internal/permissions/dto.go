package permissions

type CreatePermissionRequest struct {
	Code      string `json:"code" validate:"required,min=2,max=100"`
	Name      string `json:"name" validate:"required,max=100"`
	Type      string `json:"type" validate:"required,oneof=menu button api"`
	ParentID  int64  `json:"parent_id" validate:"gte=0"`
	Path      string `json:"path" validate:"max=255"`
	Method    string `json:"method" validate:"omitempty,oneof=GET POST PUT PATCH DELETE"`
	Icon      string `json:"icon" validate:"max=100"`
	SortOrder int32  `json:"sort_order"`
	Status    *int16 `json:"status,omitempty" validate:"omitempty,oneof=0 1"`
}

type UpdatePermissionRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Type      *string `json:"type,omitempty" validate:"omitempty,oneof=menu button api"`
	ParentID  *int64  `json:"parent_id,omitempty" validate:"omitempty,gte=0"`
	Path      *string `json:"path,omitempty" validate:"omitempty,max=255"`
	Method    *string `json:"method,omitempty" validate:"omitempty,oneof=GET POST PUT PATCH DELETE"`
	Icon      *string `json:"icon,omitempty" validate:"omitempty,max=100"`
	SortOrder *int32  `json:"sort_order,omitempty"`
	Status    *int16  `json:"status,omitempty" validate:"omitempty,oneof=0 1"`
}

// Filter narrows permission listings. Nil fields apply no predicate.
type Filter struct {
	Code     *string
	Name     *string
	Type     *string
	ParentID *int64
	Status   *int16
	Page     int
	PageSize int
}

package users

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Nickname string `json:"nickname" validate:"max=50"`
	Phone    string `json:"phone" validate:"max=30"`
	Avatar   string `json:"avatar" validate:"max=255"`
	Status   *int16 `json:"status,omitempty" validate:"omitempty,oneof=0 1"`
}

type UpdateUserRequest struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=100"`
	Nickname *string `json:"nickname,omitempty" validate:"omitempty,max=50"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Avatar   *string `json:"avatar,omitempty" validate:"omitempty,max=255"`
	Status   *int16  `json:"status,omitempty" validate:"omitempty,oneof=0 1"`
}

type AssignRolesRequest struct {
	RoleIDs []int64 `json:"role_ids" validate:"dive,gt=0"`
}

// Filter narrows user listings. Nil fields apply no predicate.
type Filter struct {
	Username *string
	Email    *string
	Status   *int16
	Page     int
	PageSize int
}

type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8,max=72"`
}

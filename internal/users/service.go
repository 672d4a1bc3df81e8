package users

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/atlas-admin/atlas-admin/internal/shared"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	Create(ctx context.Context, u User) (User, error)
	GetByID(ctx context.Context, id int64) (User, error)
	Update(ctx context.Context, id int64, patch UpdateUserRequest) (User, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f Filter) ([]User, int, error)
	ReplaceRoles(ctx context.Context, userID int64, roleIDs []int64) error
	RoleIDs(ctx context.Context, userID int64) ([]int64, error)
	UpdatePassword(ctx context.Context, id int64, hash string) error
}

// Service handles user management business logic.
type Service struct {
	repo       RepositoryPort
	bcryptCost int
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, bcryptCost int) *Service {
	if bcryptCost < bcrypt.DefaultCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{repo: repo, bcryptCost: bcryptCost}
}

// Create provisions a new account with a freshly hashed credential.
func (s *Service) Create(ctx context.Context, req CreateUserRequest) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	status := StatusEnabled
	if req.Status != nil {
		status = *req.Status
	}
	return s.repo.Create(ctx, User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Nickname:     req.Nickname,
		Phone:        req.Phone,
		Avatar:       req.Avatar,
		Status:       status,
	})
}

// Get fetches one account.
func (s *Service) Get(ctx context.Context, id int64) (User, error) {
	return s.repo.GetByID(ctx, id)
}

// Update applies a partial patch to an account.
func (s *Service) Update(ctx context.Context, id int64, req UpdateUserRequest) (User, error) {
	return s.repo.Update(ctx, id, req)
}

// Delete removes an account. An administrator may not delete their own
// account; role associations cascade with the row.
func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	if actorID == id {
		return fmt.Errorf("%w: cannot delete own account", shared.ErrForbidden)
	}
	return s.repo.Delete(ctx, id)
}

// List returns one page of accounts with the total match count.
func (s *Service) List(ctx context.Context, f Filter) ([]User, int, error) {
	return s.repo.List(ctx, f)
}

// AssignRoles replaces the user's role set. An empty set clears all
// assignments.
func (s *Service) AssignRoles(ctx context.Context, userID int64, roleIDs []int64) error {
	return s.repo.ReplaceRoles(ctx, userID, roleIDs)
}

// AssignedRoleIDs lists the ids of roles held by the user.
func (s *Service) AssignedRoleIDs(ctx context.Context, userID int64) ([]int64, error) {
	if _, err := s.repo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.RoleIDs(ctx, userID)
}

// ResetPassword replaces the account credential with a new hash.
func (s *Service) ResetPassword(ctx context.Context, id int64, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.repo.UpdatePassword(ctx, id, string(hash))
}

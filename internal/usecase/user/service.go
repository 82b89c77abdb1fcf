package user

import (
	"context"
	"strings"

	dom "example.com/storefront/internal/domain/user"
)

type Service struct {
	repo dom.Repository
}

func NewService(repo dom.Repository) *Service {
	return &Service{repo: repo}
}

type UpdateRoleInput struct {
	ExecutorID   string
	ExecutorRole dom.RoleCode
	ID           string
	RoleCode     dom.RoleCode
}

type DeleteUserInput struct {
	ExecutorID   string
	ExecutorRole dom.RoleCode
	ID           string
}

func (s *Service) ListUsers(ctx context.Context, filter dom.ListUsersFilter) ([]*dom.User, error) {
	if filter.RoleCode != nil && !filter.RoleCode.IsValid() {
		return nil, dom.ErrInvalidRoleCode
	}
	return s.repo.List(ctx, filter)
}

func (s *Service) GetUser(ctx context.Context, id string) (*dom.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateRole(ctx context.Context, in UpdateRoleInput) (*dom.User, error) {
	if !in.RoleCode.IsValid() {
		return nil, dom.ErrInvalidRoleCode
	}
	if !dom.CanAssignRole(in.ExecutorRole, in.RoleCode) {
		return nil, dom.ErrCannotAssignRole
	}

	target, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if err := checkCanManage(in.ExecutorID, in.ExecutorRole, target); err != nil {
		return nil, err
	}
	if target.RoleCode == in.RoleCode {
		return target, nil
	}

	return s.repo.UpdateRole(ctx, in.ID, in.RoleCode)
}

func (s *Service) DeleteUser(ctx context.Context, in DeleteUserInput) error {
	target, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		return err
	}
	if err := checkCanManage(in.ExecutorID, in.ExecutorRole, target); err != nil {
		return err
	}
	return s.repo.Delete(ctx, in.ID)
}

// AddShippingAddress appends addr to the user's address book.
func (s *Service) AddShippingAddress(ctx context.Context, userID string, addr dom.Address) (*dom.User, error) {
	addr = trimAddress(addr)
	if addr.FirstName == "" || addr.LastName == "" || addr.Country == "" ||
		addr.City == "" || addr.Zip == "" || addr.Line1 == "" {
		return nil, dom.ErrInvalidAddress
	}
	return s.repo.AddShippingAddress(ctx, userID, addr)
}

// checkCanManage keeps a plain ADMIN away from other admins and everyone
// away from their own account.
func checkCanManage(executorID string, executorRole dom.RoleCode, target *dom.User) error {
	if executorID != "" && executorID == target.ID {
		return dom.ErrCannotAssignRole
	}
	if target.RoleCode.IsAdmin() && !executorRole.IsSuperAdmin() {
		return dom.ErrAdminCannotChangeAdmin
	}
	return nil
}

func trimAddress(a dom.Address) dom.Address {
	a.FirstName = strings.TrimSpace(a.FirstName)
	a.LastName = strings.TrimSpace(a.LastName)
	a.Email = strings.TrimSpace(strings.ToLower(a.Email))
	a.Phone = strings.TrimSpace(a.Phone)
	a.Country = strings.TrimSpace(a.Country)
	a.City = strings.TrimSpace(a.City)
	a.Zip = strings.TrimSpace(a.Zip)
	a.Line1 = strings.TrimSpace(a.Line1)
	a.Line2 = strings.TrimSpace(a.Line2)
	a.Description = strings.TrimSpace(a.Description)
	return a
}

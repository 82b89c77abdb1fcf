package user

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	domuser "example.com/storefront/internal/domain/user"
)

type mockUserRepository struct {
	users         map[string]*domuser.User
	updateCalled  bool
	deleteCalled  bool
	addressCalled bool
}

func newMockUserRepository(users ...*domuser.User) *mockUserRepository {
	m := &mockUserRepository{users: make(map[string]*domuser.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserRepository) Create(ctx context.Context, u *domuser.User) (*domuser.User, error) {
	m.users[u.ID] = u
	return u, nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domuser.User, error) {
	if u, ok := m.users[id]; ok {
		cloned := *u
		return &cloned, nil
	}
	return nil, domuser.ErrUserNotFound
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domuser.User, error) {
	return nil, domuser.ErrUserNotFound
}

func (m *mockUserRepository) List(ctx context.Context, filter domuser.ListUsersFilter) ([]*domuser.User, error) {
	var result []*domuser.User
	for _, u := range m.users {
		if filter.RoleCode != nil && u.RoleCode != *filter.RoleCode {
			continue
		}
		result = append(result, u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockUserRepository) UpdateRole(ctx context.Context, id string, role domuser.RoleCode) (*domuser.User, error) {
	m.updateCalled = true
	u, ok := m.users[id]
	if !ok {
		return nil, domuser.ErrUserNotFound
	}
	u.RoleCode = role
	return u, nil
}

func (m *mockUserRepository) MarkEmailVerified(ctx context.Context, email string) error {
	return nil
}

func (m *mockUserRepository) AddShippingAddress(ctx context.Context, id string, addr domuser.Address) (*domuser.User, error) {
	m.addressCalled = true
	u, ok := m.users[id]
	if !ok {
		return nil, domuser.ErrUserNotFound
	}
	addr.ID = "addr-1"
	u.ShippingAddresses = append(u.ShippingAddresses, addr)
	return u, nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id string) error {
	m.deleteCalled = true
	if _, ok := m.users[id]; !ok {
		return domuser.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func seedUsers() *mockUserRepository {
	return newMockUserRepository(
		&domuser.User{ID: "super", RoleCode: domuser.RoleCodeSuperAdmin},
		&domuser.User{ID: "admin1", RoleCode: domuser.RoleCodeAdmin},
		&domuser.User{ID: "admin2", RoleCode: domuser.RoleCodeAdmin},
		&domuser.User{ID: "cust", RoleCode: domuser.RoleCodeCustomer},
	)
}

func TestListUsers_FilterByRole(t *testing.T) {
	svc := NewService(seedUsers())
	role := domuser.RoleCodeAdmin

	users, err := svc.ListUsers(context.Background(), domuser.ListUsersFilter{RoleCode: &role})
	require.NoError(t, err)
	require.Len(t, users, 2)

	bad := domuser.RoleCode("guest")
	_, err = svc.ListUsers(context.Background(), domuser.ListUsersFilter{RoleCode: &bad})
	require.ErrorIs(t, err, domuser.ErrInvalidRoleCode)
}

func TestUpdateRole_RoleRules(t *testing.T) {
	tests := []struct {
		name     string
		executor domuser.RoleCode
		execID   string
		target   string
		role     domuser.RoleCode
		wantErr  error
	}{
		{name: "admin promotes nobody to admin", executor: domuser.RoleCodeAdmin, execID: "admin1", target: "cust", role: domuser.RoleCodeAdmin, wantErr: domuser.ErrCannotAssignRole},
		{name: "admin cannot demote another admin", executor: domuser.RoleCodeAdmin, execID: "admin1", target: "admin2", role: domuser.RoleCodeCustomer, wantErr: domuser.ErrAdminCannotChangeAdmin},
		{name: "super admin promotes customer", executor: domuser.RoleCodeSuperAdmin, execID: "super", target: "cust", role: domuser.RoleCodeAdmin},
		{name: "super admin demotes admin", executor: domuser.RoleCodeSuperAdmin, execID: "super", target: "admin2", role: domuser.RoleCodeCustomer},
		{name: "no one changes their own role", executor: domuser.RoleCodeSuperAdmin, execID: "super", target: "super", role: domuser.RoleCodeCustomer, wantErr: domuser.ErrCannotAssignRole},
		{name: "customer cannot assign", executor: domuser.RoleCodeCustomer, execID: "cust", target: "admin1", role: domuser.RoleCodeCustomer, wantErr: domuser.ErrCannotAssignRole},
		{name: "unknown role", executor: domuser.RoleCodeSuperAdmin, execID: "super", target: "cust", role: "GUEST", wantErr: domuser.ErrInvalidRoleCode},
		{name: "missing target", executor: domuser.RoleCodeSuperAdmin, execID: "super", target: "ghost", role: domuser.RoleCodeCustomer, wantErr: domuser.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := seedUsers()
			svc := NewService(repo)

			u, err := svc.UpdateRole(context.Background(), UpdateRoleInput{
				ExecutorID:   tt.execID,
				ExecutorRole: tt.executor,
				ID:           tt.target,
				RoleCode:     tt.role,
			})

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.False(t, repo.updateCalled)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.role, u.RoleCode)
		})
	}
}

func TestUpdateRole_SameRoleSkipsWrite(t *testing.T) {
	repo := seedUsers()
	svc := NewService(repo)

	u, err := svc.UpdateRole(context.Background(), UpdateRoleInput{
		ExecutorID:   "admin1",
		ExecutorRole: domuser.RoleCodeAdmin,
		ID:           "cust",
		RoleCode:     domuser.RoleCodeCustomer,
	})

	require.NoError(t, err)
	require.Equal(t, domuser.RoleCodeCustomer, u.RoleCode)
	require.False(t, repo.updateCalled)
}

func TestDeleteUser(t *testing.T) {
	repo := seedUsers()
	svc := NewService(repo)
	ctx := context.Background()

	err := svc.DeleteUser(ctx, DeleteUserInput{ExecutorID: "admin1", ExecutorRole: domuser.RoleCodeAdmin, ID: "admin2"})
	require.ErrorIs(t, err, domuser.ErrAdminCannotChangeAdmin)
	require.False(t, repo.deleteCalled)

	require.NoError(t, svc.DeleteUser(ctx, DeleteUserInput{ExecutorID: "admin1", ExecutorRole: domuser.RoleCodeAdmin, ID: "cust"}))
	_, err = svc.GetUser(ctx, "cust")
	require.ErrorIs(t, err, domuser.ErrUserNotFound)
}

func TestAddShippingAddress(t *testing.T) {
	repo := seedUsers()
	svc := NewService(repo)

	u, err := svc.AddShippingAddress(context.Background(), "cust", domuser.Address{
		FirstName: " Ana ",
		LastName:  "Lopez",
		Email:     "ANA@EXAMPLE.COM",
		Country:   "PE",
		City:      "Lima",
		Zip:       "15001",
		Line1:     "Av. Siempre Viva 742",
	})

	require.NoError(t, err)
	require.Len(t, u.ShippingAddresses, 1)
	require.Equal(t, "Ana", u.ShippingAddresses[0].FirstName)
	require.Equal(t, "ana@example.com", u.ShippingAddresses[0].Email)
}

func TestAddShippingAddress_Incomplete(t *testing.T) {
	repo := seedUsers()
	svc := NewService(repo)

	_, err := svc.AddShippingAddress(context.Background(), "cust", domuser.Address{FirstName: "Ana", City: "  "})

	require.ErrorIs(t, err, domuser.ErrInvalidAddress)
	require.False(t, repo.addressCalled)
}

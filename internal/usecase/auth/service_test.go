package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	domuser "example.com/storefront/internal/domain/user"
)

type mockUserRepository struct {
	usersByEmail  map[string]*domuser.User
	getByEmailErr error
	createErr     error
	verified      []string
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		usersByEmail: make(map[string]*domuser.User),
	}
}

func (m *mockUserRepository) Create(ctx context.Context, u *domuser.User) (*domuser.User, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	if _, ok := m.usersByEmail[u.Email]; ok {
		return nil, domuser.ErrEmailAlreadyUsed
	}
	created := *u
	created.ID = "u-" + u.Username
	m.usersByEmail[u.Email] = &created
	return &created, nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domuser.User, error) {
	for _, u := range m.usersByEmail {
		if u.ID == id {
			cloned := *u
			return &cloned, nil
		}
	}
	return nil, domuser.ErrUserNotFound
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domuser.User, error) {
	if m.getByEmailErr != nil {
		return nil, m.getByEmailErr
	}
	if user, ok := m.usersByEmail[email]; ok {
		cloned := *user
		return &cloned, nil
	}
	return nil, domuser.ErrUserNotFound
}

func (m *mockUserRepository) List(ctx context.Context, filter domuser.ListUsersFilter) ([]*domuser.User, error) {
	return nil, nil
}

func (m *mockUserRepository) UpdateRole(ctx context.Context, id string, role domuser.RoleCode) (*domuser.User, error) {
	return nil, nil
}

func (m *mockUserRepository) MarkEmailVerified(ctx context.Context, email string) error {
	u, ok := m.usersByEmail[email]
	if !ok {
		return domuser.ErrUserNotFound
	}
	u.EmailVerified = true
	m.verified = append(m.verified, email)
	return nil
}

func (m *mockUserRepository) AddShippingAddress(ctx context.Context, id string, addr domuser.Address) (*domuser.User, error) {
	return nil, nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id string) error {
	return nil
}

type mockPasswordService struct {
	compareErr error
}

func (m *mockPasswordService) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (m *mockPasswordService) Compare(hash string, password string) error {
	return m.compareErr
}

type mockTokenService struct {
	token       string
	generateErr error
}

func (m *mockTokenService) GenerateToken(u *domuser.User) (string, error) {
	if m.generateErr != nil {
		return "", m.generateErr
	}
	if m.token != "" {
		return m.token, nil
	}
	return "mock-token-" + u.Email, nil
}

func (m *mockTokenService) ParseToken(token string) (*Claims, error) {
	return nil, nil
}

func (m *mockTokenService) GenerateEmailToken(email, username string) (string, error) {
	return "verify:" + email, nil
}

func (m *mockTokenService) ParseEmailToken(token string) (string, error) {
	email, ok := strings.CutPrefix(token, "verify:")
	if !ok {
		return "", errors.New("bad token")
	}
	return email, nil
}

type mockMailer struct {
	sendErr error
	links   []string
}

func (m *mockMailer) SendVerification(ctx context.Context, to, name, link string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.links = append(m.links, link)
	return nil
}

func newTestService(repo *mockUserRepository, passwords *mockPasswordService, tokens *mockTokenService, mailer *mockMailer) *Service {
	return NewService(repo, passwords, tokens, mailer, "http://shop.test/", zerolog.Nop())
}

func verifiedUser(email string, role domuser.RoleCode) *domuser.User {
	return &domuser.User{
		ID:            "65f1c0ffee0000000000abcd",
		Username:      "John Doe",
		Email:         email,
		PasswordHash:  "hashed_password",
		EmailVerified: true,
		AuthProvider:  domuser.ProviderLocal,
		RoleCode:      role,
	}
}

func TestSignUp_CreatesUserAndMailsLink(t *testing.T) {
	repo := newMockUserRepository()
	mailer := &mockMailer{}
	svc := newTestService(repo, &mockPasswordService{}, &mockTokenService{}, mailer)

	u, err := svc.SignUp(context.Background(), SignUpInput{
		Username: " jane ",
		Email:    "Jane@Example.com",
		Password: "pass1234",
	})

	require.NoError(t, err)
	require.Equal(t, "jane", u.Username)
	require.Equal(t, "jane@example.com", u.Email)
	require.Equal(t, "hashed:pass1234", u.PasswordHash)
	require.Equal(t, domuser.RoleCodeCustomer, u.RoleCode)
	require.False(t, u.EmailVerified)
	require.Equal(t, []string{"http://shop.test/verify-email/verify:jane@example.com"}, mailer.links)
}

func TestSignUp_EmailTaken(t *testing.T) {
	repo := newMockUserRepository()
	repo.usersByEmail["jane@example.com"] = verifiedUser("jane@example.com", domuser.RoleCodeCustomer)
	mailer := &mockMailer{}
	svc := newTestService(repo, &mockPasswordService{}, &mockTokenService{}, mailer)

	_, err := svc.SignUp(context.Background(), SignUpInput{Username: "jane", Email: "jane@example.com", Password: "x"})

	require.ErrorIs(t, err, domuser.ErrEmailAlreadyUsed)
	require.Empty(t, mailer.links)
}

func TestSignUp_MailFailure(t *testing.T) {
	repo := newMockUserRepository()
	mailer := &mockMailer{sendErr: errors.New("smtp down")}
	svc := newTestService(repo, &mockPasswordService{}, &mockTokenService{}, mailer)

	_, err := svc.SignUp(context.Background(), SignUpInput{Username: "jane", Email: "jane@example.com", Password: "x"})

	require.ErrorContains(t, err, "smtp down")
}

func TestVerifyEmail(t *testing.T) {
	repo := newMockUserRepository()
	u := verifiedUser("jane@example.com", domuser.RoleCodeCustomer)
	u.EmailVerified = false
	repo.usersByEmail[u.Email] = u
	svc := newTestService(repo, &mockPasswordService{}, &mockTokenService{}, &mockMailer{})

	require.NoError(t, svc.VerifyEmail(context.Background(), "verify:jane@example.com"))
	require.True(t, repo.usersByEmail["jane@example.com"].EmailVerified)

	require.ErrorIs(t, svc.VerifyEmail(context.Background(), "garbage"), domuser.ErrInvalidVerification)
	require.ErrorIs(t, svc.VerifyEmail(context.Background(), "verify:ghost@example.com"), domuser.ErrInvalidVerification)
}

func TestLogin_Success(t *testing.T) {
	repo := newMockUserRepository()
	repo.usersByEmail["john@example.com"] = verifiedUser("john@example.com", domuser.RoleCodeCustomer)

	svc := newTestService(repo, &mockPasswordService{}, &mockTokenService{token: "valid-jwt-token"}, &mockMailer{})

	result, err := svc.Login(context.Background(), LoginInput{
		Email:    "john@example.com",
		Password: "correctpassword",
	})

	require.NoError(t, err)
	require.NotNil(t, result)
	require.Equal(t, "valid-jwt-token", result.Token)
	require.Equal(t, "65f1c0ffee0000000000abcd", result.User.ID)
	require.Equal(t, "John Doe", result.User.Username)
	require.Equal(t, domuser.RoleCodeCustomer, result.User.RoleCode)
}

func TestLogin_EmailNormalization(t *testing.T) {
	tests := []struct {
		name       string
		inputEmail string
	}{
		{name: "Uppercase email is lowercased", inputEmail: "JOHN@EXAMPLE.COM"},
		{name: "Email with spaces is trimmed", inputEmail: "  john@example.com  "},
		{name: "Mixed case with spaces", inputEmail: "  John@Example.COM  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockUserRepository()
			repo.usersByEmail["john@example.com"] = verifiedUser("john@example.com", domuser.RoleCodeCustomer)
			svc := newTestService(repo, &mockPasswordService{}, &mockTokenService{token: "valid-token"}, &mockMailer{})

			result, err := svc.Login(context.Background(), LoginInput{
				Email:    tt.inputEmail,
				Password: "password123",
			})

			require.NoError(t, err)
			require.Equal(t, "john@example.com", result.User.Email)
		})
	}
}

func TestLogin_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(u *domuser.User)
		compare error
		wantErr error
	}{
		{
			name:    "unverified email",
			mutate:  func(u *domuser.User) { u.EmailVerified = false },
			wantErr: domuser.ErrEmailNotVerified,
		},
		{
			name:    "federated account",
			mutate:  func(u *domuser.User) { u.AuthProvider = domuser.ProviderGoogle },
			wantErr: domuser.ErrWrongAuthProvider,
		},
		{
			name:    "wrong password",
			mutate:  func(u *domuser.User) {},
			compare: errors.New("password mismatch"),
			wantErr: domuser.ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockUserRepository()
			u := verifiedUser("john@example.com", domuser.RoleCodeCustomer)
			tt.mutate(u)
			repo.usersByEmail[u.Email] = u
			svc := newTestService(repo, &mockPasswordService{compareErr: tt.compare}, &mockTokenService{}, &mockMailer{})

			result, err := svc.Login(context.Background(), LoginInput{Email: u.Email, Password: "pw"})

			require.ErrorIs(t, err, tt.wantErr)
			require.Nil(t, result)
		})
	}
}

func TestLogin_UserNotFound(t *testing.T) {
	svc := newTestService(newMockUserRepository(), &mockPasswordService{}, &mockTokenService{}, &mockMailer{})

	result, err := svc.Login(context.Background(), LoginInput{
		Email:    "nonexistent@example.com",
		Password: "anypassword",
	})

	require.ErrorIs(t, err, domuser.ErrUnauthorized)
	require.Nil(t, result)
}

func TestLogin_RepositoryFailureIsNotUnauthorized(t *testing.T) {
	repo := newMockUserRepository()
	repo.getByEmailErr = errors.New("connection reset")
	svc := newTestService(repo, &mockPasswordService{}, &mockTokenService{}, &mockMailer{})

	_, err := svc.Login(context.Background(), LoginInput{Email: "a@b.c", Password: "x"})

	require.Error(t, err)
	require.NotErrorIs(t, err, domuser.ErrUnauthorized)
}

func TestLogin_EmptyEmailOrPassword(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "Empty email", email: "", password: "password123"},
		{name: "Empty password", email: "john@example.com", password: ""},
		{name: "Email with only spaces", email: "   ", password: "password123"},
		{name: "Email with tabs", email: "\t\t", password: "password123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(newMockUserRepository(), &mockPasswordService{}, &mockTokenService{}, &mockMailer{})

			result, err := svc.Login(context.Background(), LoginInput{
				Email:    tt.email,
				Password: tt.password,
			})

			require.ErrorIs(t, err, domuser.ErrInvalidCredential)
			require.Nil(t, result)
		})
	}
}

func TestLogin_TokenGenerationError(t *testing.T) {
	repo := newMockUserRepository()
	repo.usersByEmail["john@example.com"] = verifiedUser("john@example.com", domuser.RoleCodeAdmin)
	svc := newTestService(repo, &mockPasswordService{}, &mockTokenService{generateErr: errors.New("token generation failed")}, &mockMailer{})

	result, err := svc.Login(context.Background(), LoginInput{
		Email:    "john@example.com",
		Password: "correctpassword",
	})

	require.EqualError(t, err, "token generation failed")
	require.Nil(t, result)
}

func TestMe(t *testing.T) {
	repo := newMockUserRepository()
	repo.usersByEmail["john@example.com"] = verifiedUser("john@example.com", domuser.RoleCodeCustomer)
	svc := newTestService(repo, &mockPasswordService{}, &mockTokenService{}, &mockMailer{})

	u, err := svc.Me(context.Background(), "65f1c0ffee0000000000abcd")
	require.NoError(t, err)
	require.Equal(t, "john@example.com", u.Email)

	_, err = svc.Me(context.Background(), "missing")
	require.ErrorIs(t, err, domuser.ErrUserNotFound)
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	domuser "example.com/storefront/internal/domain/user"
)

type PasswordService interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
}

type Claims struct {
	UserID   string
	RoleCode domuser.RoleCode
	Email    string
	Name     string
}

type TokenService interface {
	GenerateToken(u *domuser.User) (string, error)
	ParseToken(token string) (*Claims, error)
	GenerateEmailToken(email, username string) (string, error)
	ParseEmailToken(token string) (string, error)
}

type Mailer interface {
	SendVerification(ctx context.Context, to, name, link string) error
}

type Service struct {
	userRepo     domuser.Repository
	passwords    PasswordService
	tokens       TokenService
	mailer       Mailer
	clientOrigin string
	log          zerolog.Logger
}

func NewService(
	userRepo domuser.Repository,
	passwords PasswordService,
	tokens TokenService,
	mailer Mailer,
	clientOrigin string,
	log zerolog.Logger,
) *Service {
	return &Service{
		userRepo:     userRepo,
		passwords:    passwords,
		tokens:       tokens,
		mailer:       mailer,
		clientOrigin: strings.TrimRight(clientOrigin, "/"),
		log:          log.With().Str("component", "auth").Logger(),
	}
}

type SignUpInput struct {
	Username string
	Email    string
	Password string
}

// SignUp creates a local account with an empty cart and mails a
// verification link. The account cannot log in until the link is followed.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*domuser.User, error) {
	email := normalizeEmail(in.Email)
	username := strings.TrimSpace(in.Username)
	if email == "" || username == "" || in.Password == "" {
		return nil, domuser.ErrInvalidCredential
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	u, err := s.userRepo.Create(ctx, &domuser.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		AuthProvider: domuser.ProviderLocal,
		RoleCode:     domuser.RoleCodeCustomer,
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateEmailToken(u.Email, u.Username)
	if err != nil {
		return nil, err
	}
	link := s.clientOrigin + "/verify-email/" + token
	if err := s.mailer.SendVerification(ctx, u.Email, u.Username, link); err != nil {
		s.log.Error().Err(err).Str("user_id", u.ID).Msg("verification mail not sent")
		return nil, fmt.Errorf("send verification mail: %w", err)
	}

	s.log.Info().Str("user_id", u.ID).Msg("user signed up")
	return u, nil
}

func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	email, err := s.tokens.ParseEmailToken(strings.TrimSpace(token))
	if err != nil {
		return domuser.ErrInvalidVerification
	}
	if err := s.userRepo.MarkEmailVerified(ctx, email); err != nil {
		if errors.Is(err, domuser.ErrUserNotFound) {
			return domuser.ErrInvalidVerification
		}
		return err
	}
	return nil
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	Token string
	User  *domuser.User
}

func (s *Service) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domuser.ErrInvalidCredential
	}

	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domuser.ErrUserNotFound) {
			return nil, domuser.ErrUnauthorized
		}
		return nil, err
	}

	if u.AuthProvider != domuser.ProviderLocal {
		return nil, domuser.ErrWrongAuthProvider
	}
	if !u.EmailVerified {
		return nil, domuser.ErrEmailNotVerified
	}
	if err := s.passwords.Compare(u.PasswordHash, in.Password); err != nil {
		return nil, domuser.ErrUnauthorized
	}

	token, err := s.tokens.GenerateToken(u)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token: token,
		User:  u,
	}, nil
}

func (s *Service) Me(ctx context.Context, userID string) (*domuser.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

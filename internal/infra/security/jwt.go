package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domuser "example.com/storefront/internal/domain/user"
	authuc "example.com/storefront/internal/usecase/auth"
)

// emailTokenTTL matches the lifetime of the verification link in the mail.
const emailTokenTTL = 7 * 24 * time.Hour

type JWTService struct {
	secret      []byte
	emailSecret []byte
	expiration  time.Duration
	now         func() time.Time
}

func NewJWTService(secret, emailSecret string, expiration time.Duration) *JWTService {
	return &JWTService{
		secret:      []byte(secret),
		emailSecret: []byte(emailSecret),
		expiration:  expiration,
		now:         time.Now,
	}
}

type jwtClaims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

type emailClaims struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func (s *JWTService) GenerateToken(u *domuser.User) (string, error) {
	now := s.now()
	claims := jwtClaims{
		UserID: u.ID,
		Role:   string(u.RoleCode),
		Email:  u.Email,
		Name:   u.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *JWTService) ParseToken(token string) (*authuc.Claims, error) {
	claims := &jwtClaims{}
	if err := s.parse(token, s.secret, claims); err != nil {
		return nil, err
	}

	role, err := domuser.ParseRoleCode(claims.Role)
	if err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, errors.New("token carries no user id")
	}

	return &authuc.Claims{
		UserID:   claims.UserID,
		RoleCode: role,
		Email:    claims.Email,
		Name:     claims.Name,
	}, nil
}

// GenerateEmailToken signs the address a verification link confirms. It uses
// its own secret so an access token never verifies an address.
func (s *JWTService) GenerateEmailToken(email, username string) (string, error) {
	now := s.now()
	claims := emailClaims{
		Email:    email,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(emailTokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.emailSecret)
}

func (s *JWTService) ParseEmailToken(token string) (string, error) {
	claims := &emailClaims{}
	if err := s.parse(token, s.emailSecret, claims); err != nil {
		return "", err
	}
	if claims.Email == "" {
		return "", errors.New("token carries no email")
	}
	return claims.Email, nil
}

func (s *JWTService) parse(token string, secret []byte, claims jwt.Claims) error {
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return err
	}
	if !parsed.Valid {
		return fmt.Errorf("invalid token")
	}
	return nil
}

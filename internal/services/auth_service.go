package services

import (
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"classhub/internal/apperrors"
	"classhub/internal/models"
	"classhub/internal/repository"
)

// Identity is what every engine operation trusts about the caller. Ownership
// and state checks still happen inside the services.
type Identity struct {
	UserID uuid.UUID
	Role   models.UserRole
}

type AuthService interface {
	Login(email, password string) (string, error)
	Authenticate(token string) (Identity, error)
}

type authClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type authService struct {
	users      repository.UserRepository
	secret     []byte
	expiration time.Duration
}

func NewAuthService(users repository.UserRepository, secret string, expiration time.Duration) AuthService {
	return &authService{
		users:      users,
		secret:     []byte(secret),
		expiration: expiration,
	}
}

// Login verifies credentials and returns a signed token. Failures are
// uniform so callers cannot probe which emails exist.
func (s *authService) Login(email, password string) (string, error) {
	user, err := s.users.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", apperrors.NewPermission("invalid credentials")
	}
	if !user.IsActive {
		return "", apperrors.NewPermission("account is deactivated")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", apperrors.NewPermission("invalid credentials")
	}

	now := time.Now()
	claims := authClaims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", apperrors.NewStorage("sign token", err)
	}

	// Best-effort; a failed timestamp write must not block the login.
	user.LastLogin = &now
	if err := s.users.Update(user); err != nil {
		log.Printf("last login update for %s dropped: %v", user.ID, err)
	}
	return token, nil
}

// Authenticate parses and verifies a token and returns the caller identity.
func (s *authService) Authenticate(tokenString string) (Identity, error) {
	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, apperrors.NewPermission("invalid or expired token")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Identity{}, apperrors.NewPermission("invalid token subject")
	}
	return Identity{UserID: userID, Role: models.UserRole(claims.Role)}, nil
}

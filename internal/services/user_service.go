package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"classhub/internal/apperrors"
	"classhub/internal/models"
	"classhub/internal/repository"
)

type CreateUserInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
	Role     string `validate:"required,oneof=admin teacher student"`
}

// UpdateUserInput carries admin-side changes; nil fields keep current values.
type UpdateUserInput struct {
	Name     *string
	Role     *string `validate:"omitempty,oneof=admin teacher student"`
	IsActive *bool
}

// UpdateProfileInput carries self-service changes.
type UpdateProfileInput struct {
	Name     *string
	Password *string `validate:"omitempty,min=6"`
	Avatar   *string
}

type UserService interface {
	Create(input CreateUserInput) (*models.User, error)
	Update(userID uuid.UUID, input UpdateUserInput) (*models.User, error)
	UpdateProfile(userID uuid.UUID, input UpdateProfileInput) (*models.User, error)
	Get(userID uuid.UUID) (*models.User, error)
	List() ([]*models.User, error)
	Delete(userID uuid.UUID) error
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

// Create registers an account. Emails are unique and stored lowercased.
func (s *userService) Create(input CreateUserInput) (*models.User, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))

	_, err := s.users.GetByEmail(email)
	if err == nil {
		return nil, apperrors.NewConflict("a user with this email already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewStorage("check existing user", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.NewStorage("hash password", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Name:         input.Name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.UserRole(input.Role),
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := s.users.Create(user); err != nil {
		return nil, apperrors.NewStorage("create user", err)
	}
	return user, nil
}

// Update applies admin changes: rename, role change, activate/deactivate.
func (s *userService) Update(userID uuid.UUID, input UpdateUserInput) (*models.User, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, fetchErr(err, "load user", "user")
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Role != nil {
		user.Role = models.UserRole(*input.Role)
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	user.UpdatedAt = time.Now()

	if err := s.users.Update(user); err != nil {
		return nil, apperrors.NewStorage("update user", err)
	}
	return user, nil
}

// UpdateProfile applies self-service changes: name, avatar, password.
func (s *userService) UpdateProfile(userID uuid.UUID, input UpdateProfileInput) (*models.User, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, fetchErr(err, "load user", "user")
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Avatar != nil {
		user.Avatar = *input.Avatar
	}
	if input.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperrors.NewStorage("hash password", err)
		}
		user.PasswordHash = string(hash)
	}
	user.UpdatedAt = time.Now()

	if err := s.users.Update(user); err != nil {
		return nil, apperrors.NewStorage("update user", err)
	}
	return user, nil
}

func (s *userService) Get(userID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, fetchErr(err, "load user", "user")
	}
	return user, nil
}

func (s *userService) List() ([]*models.User, error) {
	users, err := s.users.List()
	if err != nil {
		return nil, apperrors.NewStorage("list users", err)
	}
	return users, nil
}

func (s *userService) Delete(userID uuid.UUID) error {
	if _, err := s.users.GetByID(userID); err != nil {
		return fetchErr(err, "load user", "user")
	}
	if err := s.users.Delete(userID); err != nil {
		return apperrors.NewStorage("delete user", err)
	}
	return nil
}

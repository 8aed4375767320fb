package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/logger"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrDuplicateIdentity    = errors.New("username or email already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidUsername      = fmt.Errorf("username must be %d to %d characters and may not contain '@'", constants.MinUsernameLength, constants.MaxUsernameLength)
	ErrEmailRequired        = errors.New("email is required")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrPasswordTooLong      = errors.New("password too long")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// DuplicateIdentityError names the field that collided, when known.
type DuplicateIdentityError struct {
	Field string
}

func (e *DuplicateIdentityError) Error() string {
	if e.Field == "" {
		return ErrDuplicateIdentity.Error()
	}
	return e.Field + " already exists"
}

func (e *DuplicateIdentityError) Unwrap() error {
	return ErrDuplicateIdentity
}

// AuthService is the credential store: it registers users and verifies
// their passwords.
type AuthService struct {
	userRepo  repository.UserRepository
	cost      int
	dummyHash []byte
}

// NewAuthService creates a new AuthService hashing with the given bcrypt cost.
func NewAuthService(userRepo repository.UserRepository, cost int) (*AuthService, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	// compared against when the identity is unknown, so both branches pay one bcrypt comparison
	dummyHash, err := bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}

	return &AuthService{
		userRepo:  userRepo,
		cost:      cost,
		dummyHash: dummyHash,
	}, nil
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register creates a new user. A username or email collision, including one
// lost to a concurrent registration, fails with *DuplicateIdentityError.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if n := utf8.RuneCountInString(username); n < constants.MinUsernameLength || n > constants.MaxUsernameLength ||
		strings.Contains(username, "@") {
		return nil, ErrInvalidUsername
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, ErrEmailRequired
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if len(input.Password) > constants.MaxPasswordLength {
		return nil, ErrPasswordTooLong
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.CreateUnique(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameTaken):
			return nil, &DuplicateIdentityError{Field: "username"}
		case errors.Is(err, repository.ErrEmailTaken):
			return nil, &DuplicateIdentityError{Field: "email"}
		case errors.Is(err, repository.ErrDuplicateUser):
			return nil, &DuplicateIdentityError{}
		default:
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	}

	logger.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Verify checks a password against the user whose username or email equals
// identity. Unknown identities and wrong passwords both fail with
// ErrInvalidCredentials.
func (s *AuthService) Verify(ctx context.Context, identity, password string) (*models.User, error) {
	identity = strings.TrimSpace(identity)
	if strings.Contains(identity, "@") {
		identity = strings.ToLower(identity)
	}

	user, err := s.userRepo.FindByIdentity(ctx, identity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"todoapi/internal/model"
	"todoapi/internal/pkg/jwtutil"
	"todoapi/internal/repository"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrPasswordTooShort  = errors.New("password must be at least 8 characters")
	ErrEmailTaken        = errors.New("email already registered")
	ErrInvalidCredential = errors.New("invalid email or password")
)

const minPasswordLength = 8

type AuthService struct {
	userRepo      *repository.UserRepository
	jwtSecret     string
	jwtExpiration time.Duration
}

type SignupInput struct {
	Email    string
	Password string
}

type SigninInput struct {
	Email    string
	Password string
}

type SigninResult struct {
	Token     string
	ExpiresIn int
	User      *model.User
}

func NewAuthService(userRepo *repository.UserRepository, jwtSecret string, jwtExpiration time.Duration) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

func (s *AuthService) Signup(input SignupInput) (*model.User, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, ErrInvalidInput
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	existing, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	user := &model.User{
		Email:          email,
		HashedPassword: string(hash),
	}
	if err := s.userRepo.Create(user); err != nil {
		// Two signups racing on the same email are settled by the unique
		// index, not by the pre-check above.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// Signin returns the same ErrInvalidCredential for an unknown email and a
// wrong password so responses cannot be used to enumerate accounts.
func (s *AuthService) Signin(input SigninInput) (*SigninResult, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" || input.Password == "" {
		return nil, ErrInvalidCredential
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredential
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredential
	}

	token, err := jwtutil.GenerateToken(s.jwtSecret, s.jwtExpiration, user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &SigninResult{
		Token:     token,
		ExpiresIn: int(s.jwtExpiration.Seconds()),
		User:      user,
	}, nil
}

func (s *AuthService) GetUserByID(id string) (*model.User, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	return s.userRepo.GetByID(id)
}

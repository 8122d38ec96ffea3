//go:generate go run go.uber.org/mock/mockgen -source=service.go -destination=../mocks/mock_user_store.go -package=mocks

// Package auth registers accounts and logs them in, issuing the opaque
// session token that realtime connections authenticate with.
package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Tyrowin/boardchat/internal/store"
)

var (
	ErrInvalidUsername    = errors.New("invalid username (3-20 letters, digits, '_' or '-')")
	ErrInvalidPassword    = errors.New("password must be between 4 and 72 characters")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// maxPasswordBytes is the most input bcrypt will hash.
const maxPasswordBytes = 72

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	err := v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("auth: register username validation: %v", err))
	}
	return v
}

// UserStore defines the storage interface for auth.
type UserStore interface {
	CreateUser(ctx context.Context, username, passwordHash, token string) error
	UserByName(ctx context.Context, username string) (store.User, error)
	RotateToken(ctx context.Context, id int64, token string) error
}

// Credentials is the body of both the register and login requests.
type Credentials struct {
	Username string `json:"username" validate:"required,min=3,max=20,username"`
	Password string `json:"password" validate:"required,min=4,max=72"`
}

// Grant is returned on successful register or login.
type Grant struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// Service provides username/password authentication.
type Service struct {
	store    UserStore
	cost     int
	newToken func() string
}

// NewService creates an auth service hashing with the given bcrypt cost.
// Out of range costs use bcrypt.DefaultCost.
func NewService(store UserStore, cost int) *Service {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Service{
		store:    store,
		cost:     cost,
		newToken: uuid.NewString,
	}
}

// Register creates an account and returns its first token.
func (s *Service) Register(ctx context.Context, c Credentials) (Grant, error) {
	if err := validateCredentials(c); err != nil {
		return Grant{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(c.Password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return Grant{}, ErrInvalidPassword
	}
	if err != nil {
		return Grant{}, fmt.Errorf("hash password: %w", err)
	}

	token := s.newToken()
	if err := s.store.CreateUser(ctx, c.Username, string(hash), token); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return Grant{}, ErrUsernameTaken
		}
		return Grant{}, fmt.Errorf("create user: %w", err)
	}

	return Grant{Token: token, Username: c.Username}, nil
}

// Login checks the password and rotates the token, so any previously issued
// token stops working.
func (s *Service) Login(ctx context.Context, c Credentials) (Grant, error) {
	if err := validate.Var(c.Username, "required,min=3,max=20,username"); err != nil {
		return Grant{}, ErrInvalidUsername
	}

	user, err := s.store.UserByName(ctx, c.Username)
	if errors.Is(err, store.ErrNotFound) {
		return Grant{}, ErrInvalidCredentials
	}
	if err != nil {
		return Grant{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(c.Password)); err != nil {
		return Grant{}, ErrInvalidCredentials
	}

	token := s.newToken()
	if err := s.store.RotateToken(ctx, user.ID, token); err != nil {
		return Grant{}, fmt.Errorf("rotate token: %w", err)
	}

	return Grant{Token: token, Username: user.Username}, nil
}

func validateCredentials(c Credentials) error {
	err := validate.Struct(c)
	if err == nil {
		// max=72 counts runes; bcrypt limits bytes.
		if len(c.Password) > maxPasswordBytes {
			return ErrInvalidPassword
		}
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 && fieldErrs[0].Field() == "Password" {
		return ErrInvalidPassword
	}
	return ErrInvalidUsername
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"messagely/internal/common"
	"messagely/internal/common/security"
	"messagely/internal/domain/model"
	"messagely/internal/domain/repository"
)

type AuthService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

type RegisterRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// dummyPasswordHash is a valid bcrypt digest that matches no password. It is
// verified when the username is unknown so that login latency does not reveal
// whether an account exists.
const dummyPasswordHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if req.Username == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" || req.Phone == "" {
		return nil, common.ErrBadRequest
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		Username:       req.Username,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Phone:          req.Phone,
		HashedPassword: hashedPassword,
		JoinAt:         now,
		LastLoginAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrDuplicateUsername) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := security.GenerateToken(user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	user.HashedPassword = "" // Clear hash before returning
	return &AuthResponse{User: user, Token: token}, nil
}

// Authenticate reports whether the credentials are valid. An unknown username
// and a wrong password are indistinguishable to the caller, and both cost one
// bcrypt verification.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (bool, error) {
	hash, err := s.userRepo.GetPasswordHash(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			security.CheckPasswordHash(password, dummyPasswordHash)
			return false, nil
		}
		return false, fmt.Errorf("failed to look up credentials: %w", err)
	}
	return security.CheckPasswordHash(password, hash), nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, common.ErrBadRequest
	}

	ok, err := s.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	// The username just authenticated, so a missing row here is an integrity
	// violation and fails the request.
	if err := s.TouchLogin(ctx, req.Username); err != nil {
		return nil, err
	}

	user, err := s.userRepo.Get(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	token, err := security.GenerateToken(user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResponse{User: user, Token: token}, nil
}

// TouchLogin records a successful authentication for the user.
func (s *AuthService) TouchLogin(ctx context.Context, username string) error {
	return s.userRepo.UpdateLastLogin(ctx, username, time.Now().UTC())
}

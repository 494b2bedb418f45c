package services

import (
	"errors"

	"github.com/dkrylov/camshop/app/models"
	"github.com/dkrylov/camshop/app/repositories"
	"github.com/dkrylov/camshop/pkg/auth"
)

// ErrInvalidCredentials covers both unknown email and wrong password so the
// response does not leak which one failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

// TokenPair is what a successful login returns.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthService logs back-office users in and issues their tokens.
type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService() *AuthService {
	return &AuthService{users: repositories.NewUserRepository()}
}

// Login verifies the password and returns a token pair.
func (s *AuthService) Login(email, password string) (TokenPair, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.Password, password) {
		return TokenPair{}, ErrInvalidCredentials
	}

	access, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := auth.GenerateRefreshToken(user.ID, user.Role)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh exchanges a valid refresh token for a fresh pair.
func (s *AuthService) Refresh(refreshToken string) (TokenPair, error) {
	claims, err := auth.ValidateToken(refreshToken)
	if err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}

	user, err := s.users.FindByID(claims.UserID)
	if err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}

	access, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := auth.GenerateRefreshToken(user.ID, user.Role)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Register creates a back-office account with a bcrypt-hashed password.
func (s *AuthService) Register(name, email, password, role string) (models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{Name: name, Email: email, Password: hash, Role: role}
	if err := s.users.Create(&user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

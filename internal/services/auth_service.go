package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"avoidxray/internal/auth"
	"avoidxray/internal/models"
)

// AuthService handles registration and login
type AuthService struct {
	db *gorm.DB
}

// NewAuthService creates a new AuthService
func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

// Register creates a new user account and returns it with a session token
func (s *AuthService) Register(email, username, password string, name *string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)

	if email == "" || username == "" {
		return nil, "", validationf("Email and username are required")
	}
	if len(password) < 8 {
		return nil, "", validationf("Password must be at least 8 characters")
	}

	var existing models.User
	if err := s.db.Where("email = ? OR username = ?", email, username).First(&existing).Error; err == nil {
		return nil, "", validationf("Email or username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		Name:         name,
		PasswordHash: string(hash),
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := auth.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// Login verifies credentials and returns the user with a session token
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrUnauthorized
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// GetUserByID retrieves a user by ID
func (s *AuthService) GetUserByID(userID string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

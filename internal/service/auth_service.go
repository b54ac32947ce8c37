package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"cavea/internal/models"
	"cavea/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidPassword = errors.New("invalid password")
	ErrEmailTaken      = errors.New("email already registered")
	ErrInvalidToken    = errors.New("invalid token")
)

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	Logout(ctx context.Context, tokenID uint) error
	Authenticate(ctx context.Context, plaintext string) (*models.User, *models.AccessToken, error)
}

type RegisterInput struct {
	Name      string
	Firstname string
	Email     string
	Password  string
}

type authService struct {
	users  repository.UserRepository
	tokens repository.TokenRepository
}

func NewAuthService(users repository.UserRepository, tokens repository.TokenRepository) AuthService {
	return &authService{users: users, tokens: tokens}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:      input.Name,
		Firstname: input.Firstname,
		Email:     input.Email,
		Password:  string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login verifies the credentials and issues a fresh opaque token. All of the
// user's previous tokens are revoked first, so at most one session is live.
func (s *authService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrUserNotFound
		}
		return "", nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", nil, ErrInvalidPassword
	}

	if err := s.tokens.DeleteByUser(ctx, user.ID); err != nil {
		return "", nil, fmt.Errorf("failed to revoke previous tokens: %w", err)
	}

	plaintext, err := generateToken()
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	token := &models.AccessToken{
		UserID:    user.ID,
		Name:      "api-token",
		TokenHash: hashToken(plaintext),
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		return "", nil, fmt.Errorf("failed to store token: %w", err)
	}

	return plaintext, user, nil
}

func (s *authService) Logout(ctx context.Context, tokenID uint) error {
	return s.tokens.Delete(ctx, tokenID)
}

func (s *authService) Authenticate(ctx context.Context, plaintext string) (*models.User, *models.AccessToken, error) {
	token, err := s.tokens.GetByHash(ctx, hashToken(plaintext))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidToken
		}
		return nil, nil, fmt.Errorf("failed to look up token: %w", err)
	}

	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		return nil, nil, ErrInvalidToken
	}

	now := time.Now().UTC()
	if err := s.tokens.TouchLastUsed(ctx, token.ID, now); err != nil {
		// Not fatal: the token is valid either way.
		log.Printf("failed to touch token last_used_at: %v", err)
	}

	return user, token, nil
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func hashToken(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

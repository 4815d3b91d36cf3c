package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"contentplanner/internal/config"
	"contentplanner/internal/models"
	"contentplanner/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const invalidCredentials = "invalid email or password"

type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	ResolveIdentity(ctx context.Context, tokenString string) (*models.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	cfg      *config.Config
	now      func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{
		userRepo: userRepo,
		cfg:      cfg,
		now:      func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, string, error) {
	email := normalizeEmail(req.Email)
	username := strings.TrimSpace(req.Username)
	if email == "" || username == "" || req.Password == "" {
		return nil, "", ValidationError("email, password and username are required")
	}

	if _, err := s.userRepo.GetUserByEmail(ctx, email); err == nil {
		return nil, "", ConflictError("Email already registered")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", fmt.Errorf("lookup user by email: %w", err)
	}

	if _, err := s.userRepo.GetUserByUsername(ctx, username); err == nil {
		return nil, "", ConflictError("Username already taken")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", fmt.Errorf("lookup user by username: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		UserID:       uuid.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: string(hashedPassword),
		CreatedAt:    s.now(),
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", ConflictError("Email or username already registered")
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return nil, "", err
	}

	return publicUser(user), token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", UnauthorizedError(invalidCredentials)
		}
		return nil, "", fmt.Errorf("lookup user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", UnauthorizedError(invalidCredentials)
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return nil, "", err
	}

	return publicUser(user), token, nil
}

func (s *authService) ResolveIdentity(ctx context.Context, tokenString string) (*models.User, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecretKey), nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, UnauthorizedError("Could not validate credentials")
	}

	if claims.Subject == "" {
		return nil, UnauthorizedError("Could not validate credentials")
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, UnauthorizedError("User not found")
		}
		return nil, fmt.Errorf("lookup user by id: %w", err)
	}

	return publicUser(user), nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.UserID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecretKey))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tokenString, nil
}

// publicUser strips the password hash before a user leaves the service.
func publicUser(u *models.User) *models.User {
	out := *u
	out.PasswordHash = ""
	return &out
}

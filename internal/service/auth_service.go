package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"scribe/internal/middleware"
	"scribe/internal/models"
	"scribe/internal/repository"
	"scribe/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = 24 * time.Hour

type AuthService struct {
	userRepo repository.UserRepository
	secret   string
	ttl      time.Duration
	rdb      *redis.Client
}

// NewAuthService creates an AuthService. rdb may be nil, in which case logout
// cannot revoke tokens before they expire.
func NewAuthService(userRepo repository.UserRepository, secret string, ttl time.Duration, rdb *redis.Client) *AuthService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &AuthService{userRepo: userRepo, secret: secret, ttl: ttl, rdb: rdb}
}

func (s *AuthService) Signup(ctx context.Context, username, password string) (*models.User, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return nil, models.NewFieldValidationError("username", err.Error())
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, models.NewFieldValidationError("password", err.Error())
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{Username: username, Password: string(hashed)}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if models.IsConstraintViolation(err) {
			return nil, &models.AppError{
				Code:    models.CodeConstraintViolation,
				Message: "A user with that username already exists.",
				Fields:  map[string]string{"username": "A user with that username already exists."},
				Err:     err,
			}
		}
		return nil, err
	}
	middleware.Logger.InfoContext(ctx, "user signed up", slog.Uint64("user_id", uint64(user.ID)))
	return user, nil
}

// Login checks credentials and returns a signed access token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if models.IsNotFound(err) {
			return "", nil, models.NewUnauthorizedError("Invalid credentials")
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, models.NewUnauthorizedError("Invalid credentials")
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return "", nil, models.NewInternalError(err)
	}
	return token, user, nil
}

// IssueToken signs an HS256 token for userID.
func (s *AuthService) IssueToken(userID uint) (string, error) {
	if s.secret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iss": middleware.TokenIssuer,
		"aud": middleware.TokenAudience,
		"exp": now.Add(s.ttl).Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"jti": uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// Logout revokes the token described by claims until it would have expired.
func (s *AuthService) Logout(ctx context.Context, claims *middleware.TokenClaims) error {
	if claims == nil || claims.JTI == "" {
		return nil
	}
	if s.rdb == nil {
		middleware.Logger.WarnContext(ctx, "logout without Redis cannot revoke token")
		return nil
	}

	ttl := time.Until(claims.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.rdb.Set(ctx, middleware.BlacklistPrefix+claims.JTI, "1", ttl).Err(); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

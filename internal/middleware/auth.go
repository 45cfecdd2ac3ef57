// Package middleware provides request-scoped Fiber middleware: authentication,
// rate limiting, structured logging, and tracing.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"scribe/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

// Token claim values and the Redis prefix for revoked token IDs.
const (
	TokenIssuer     = "scribe-api"
	TokenAudience   = "scribe-client"
	BlacklistPrefix = "blacklist:"
)

// Fiber locals keys set by the authentication middleware.
const (
	LocalUserID = "userID"
	LocalClaims = "tokenClaims"
)

var (
	ErrMissingToken = errors.New("authorization token required")
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrRevokedToken = errors.New("token has been revoked")
)

// TokenClaims is the verified subset of an access token.
type TokenClaims struct {
	UserID    uint
	JTI       string
	ExpiresAt time.Time
}

// ParseToken verifies an HS256 token signed with secret and extracts its claims.
func ParseToken(secret, tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(secret), nil
	},
		jwt.WithIssuer(TokenIssuer),
		jwt.WithAudience(TokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return nil, ErrInvalidToken
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return nil, ErrInvalidToken
	}

	out := &TokenClaims{UserID: uint(userID)}
	if jti, ok := claims["jti"].(string); ok {
		out.JTI = jti
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}

// Authenticator resolves the current user from a bearer token.
type Authenticator struct {
	secret   string
	loginURL string
	rdb      *redis.Client
}

// NewAuthenticator creates an Authenticator. rdb may be nil, in which case
// revoked tokens are not checked.
func NewAuthenticator(secret, loginURL string, rdb *redis.Client) *Authenticator {
	return &Authenticator{secret: secret, loginURL: loginURL, rdb: rdb}
}

func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func (a *Authenticator) resolve(c *fiber.Ctx) (*TokenClaims, error) {
	tokenString := bearerToken(c)
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	claims, err := ParseToken(a.secret, tokenString)
	if err != nil {
		return nil, err
	}

	if claims.JTI != "" && a.rdb != nil {
		n, err := a.rdb.Exists(c.UserContext(), BlacklistPrefix+claims.JTI).Result()
		if err != nil {
			observability.RedisErrorRate.WithLabelValues("blacklist_check").Inc()
			Logger.WarnContext(c.UserContext(), "token blacklist check failed", slog.String("error", err.Error()))
		} else if n > 0 {
			return nil, ErrRevokedToken
		}
	}
	return claims, nil
}

func setUser(c *fiber.Ctx, claims *TokenClaims) {
	c.Locals(LocalUserID, claims.UserID)
	c.Locals(LocalClaims, claims)
	c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, claims.UserID))
}

// Required enforces authentication. Unauthenticated requests are redirected
// to the login URL with the original path in the "next" query parameter.
func (a *Authenticator) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := a.resolve(c)
		if err != nil {
			return c.Redirect(LoginRedirect(a.loginURL, c.OriginalURL()), fiber.StatusFound)
		}
		setUser(c, claims)
		return c.Next()
	}
}

// Optional sets the current user when a valid token is present and never rejects.
func (a *Authenticator) Optional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if claims, err := a.resolve(c); err == nil {
			setUser(c, claims)
		}
		return c.Next()
	}
}

// LoginRedirect builds "<loginURL>?next=<next>".
func LoginRedirect(loginURL, next string) string {
	sep := "?"
	if strings.Contains(loginURL, "?") {
		sep = "&"
	}
	return loginURL + sep + "next=" + url.QueryEscape(next)
}

// UserID returns the authenticated user's id, or 0 for anonymous requests.
func UserID(c *fiber.Ctx) uint {
	if uid, ok := c.Locals(LocalUserID).(uint); ok {
		return uid
	}
	return 0
}

// Claims returns the verified token claims of the current request, if any.
func Claims(c *fiber.Ctx) *TokenClaims {
	claims, _ := c.Locals(LocalClaims).(*TokenClaims)
	return claims
}

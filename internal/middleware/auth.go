// Package middleware provides authentication, logging, tracing, metrics and
// rate limiting middleware for the HTTP server.
package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	tokenIssuer   = "inkwell-api"
	tokenAudience = "inkwell-client"
)

// ErrRevocationUnavailable is returned by Revoke when no Redis client is configured.
var ErrRevocationUnavailable = errors.New("token revocation store unavailable")

// TokenClaims is the verified content of a bearer token.
type TokenClaims struct {
	UserID    uint
	ID        string
	ExpiresAt time.Time
}

// TokenManager issues and verifies HS256 bearer tokens. Revoked token IDs
// are kept in Redis until the token would have expired anyway.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	rdb    *redis.Client
	now    func() time.Time
}

// NewTokenManager returns a TokenManager. rdb may be nil, in which case
// revocation is unavailable and tokens are valid until they expire.
func NewTokenManager(secret string, ttl time.Duration, rdb *redis.Client) *TokenManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, rdb: rdb, now: time.Now}
}

func revokedKey(jti string) string {
	return "blacklist:" + jti
}

// Issue signs a token for userID.
func (m *TokenManager) Issue(userID uint) (string, error) {
	now := m.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		Issuer:    tokenIssuer,
		Audience:  jwt.ClaimStrings{tokenAudience},
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ID:        fmt.Sprintf("%d-%s", now.Unix(), uuid.New().String()[:8]),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses tokenString and checks signature, issuer, audience, expiry and revocation.
func (m *TokenManager) Verify(ctx context.Context, tokenString string) (*TokenClaims, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, models.NewUnauthorizedError("Invalid or expired token")
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 0)
	if err != nil || userID == 0 {
		return nil, models.NewUnauthorizedError("Invalid user ID in token")
	}

	if m.rdb != nil && claims.ID != "" {
		n, err := m.rdb.Exists(ctx, revokedKey(claims.ID)).Result()
		switch {
		case err != nil:
			Logger.WarnContext(ctx, "token revocation check failed", slog.String("error", err.Error()))
		case n > 0:
			return nil, models.NewUnauthorizedError("Token has been revoked")
		}
	}

	return &TokenClaims{
		UserID:    uint(userID),
		ID:        claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Revoke marks the token as unusable for the rest of its lifetime.
func (m *TokenManager) Revoke(ctx context.Context, claims *TokenClaims) error {
	if m.rdb == nil {
		return ErrRevocationUnavailable
	}
	ttl := claims.ExpiresAt.Sub(m.now())
	if ttl <= 0 {
		return nil
	}
	return m.rdb.Set(ctx, revokedKey(claims.ID), "1", ttl).Err()
}

func bearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return "", models.NewUnauthorizedError("Authorization header required")
	}
	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", models.NewUnauthorizedError("Invalid authorization header format")
	}
	return strings.TrimSpace(token), nil
}

// AuthRequired rejects requests without a valid bearer token and stores the
// acting user ID in c.Locals("userID") and in the request context.
func (m *TokenManager) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := bearerToken(c)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}

		claims, err := m.Verify(c.UserContext(), token)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}

		c.Locals("userID", claims.UserID)
		c.Locals("tokenClaims", claims)
		c.SetUserContext(WithUserID(c.UserContext(), claims.UserID))
		return c.Next()
	}
}

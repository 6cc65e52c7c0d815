// FILE: internal/pkg/serverutils/jwt_middleware.go
package serverutils

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const LocalUserID = "user_id"

var errMissingToken = errors.New("missing token")

// bearerToken pulls the token from the Authorization header, falling back to
// the `token` query param used by browser websocket clients.
func bearerToken(ctx *fiber.Ctx) (string, error) {
	authHeader := ctx.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") && len(authHeader) > 7 {
		return authHeader[7:], nil
	}
	if q := ctx.Query("token"); q != "" {
		return q, nil
	}
	return "", errMissingToken
}

func parseUserID(tokenStr string, secret []byte) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}
	userId, ok := claims["user_id"].(string)
	if !ok || userId == "" {
		return "", errors.New("token missing user_id")
	}
	return userId, nil
}

// NewJwtMiddleware rejects requests without a valid HMAC token and stores the
// `user_id` claim in ctx.Locals.
func NewJwtMiddleware(secret string) fiber.Handler {
	key := []byte(secret)
	return func(ctx *fiber.Ctx) error {
		tokenStr, err := bearerToken(ctx)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Missing token"})
		}

		userId, err := parseUserID(tokenStr, key)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token"})
		}

		ctx.Locals(LocalUserID, userId)
		return ctx.Next()
	}
}

// NewOptionalJwtMiddleware sets the `user_id` local when a valid token is
// present and lets every request through.
func NewOptionalJwtMiddleware(secret string) fiber.Handler {
	key := []byte(secret)
	return func(ctx *fiber.Ctx) error {
		if tokenStr, err := bearerToken(ctx); err == nil {
			if userId, err := parseUserID(tokenStr, key); err == nil {
				ctx.Locals(LocalUserID, userId)
			}
		}
		return ctx.Next()
	}
}

// UserIDFromLocals returns the authenticated user id, or "" when unauthenticated.
func UserIDFromLocals(ctx *fiber.Ctx) string {
	userId, _ := ctx.Locals(LocalUserID).(string)
	return userId
}

// SignToken issues an HS256 token for userId. Used by tooling and tests; the
// auth service owning login lives outside this backend.
func SignToken(secret, userId string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userId,
		"exp":     time.Now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

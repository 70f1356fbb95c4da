package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/homegrid/backend/internal/auth"
	"github.com/homegrid/backend/internal/config"
)

const (
	CtxUserID     = "user_id"
	CtxUsername   = "username"
	CtxSessionJTI = "session_jti"
)

// AuthMiddleware validates the bearer token and checks that its session
// record still exists, so logged-out tokens stop working before they expire.
func AuthMiddleware(cfg *config.Config, sessions *auth.SessionStore, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization header"})
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenStr == authHeader {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid authorization format"})
		}

		claims, err := auth.ParseJWT(cfg.JWTSecret, tokenStr)
		if err != nil {
			log.Debug("jwt parse error", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
		}

		alive, err := sessions.Exists(c.Context(), claims.ID)
		if err != nil {
			log.Error("session lookup failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
		}
		if !alive {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "session expired"})
		}

		c.Locals(CtxUserID, claims.UserID)
		c.Locals(CtxUsername, claims.Username)
		c.Locals(CtxSessionJTI, claims.ID)

		return c.Next()
	}
}

func GetUserID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(CtxUserID).(uuid.UUID)
	return id
}

func GetUsername(c *fiber.Ctx) string {
	name, _ := c.Locals(CtxUsername).(string)
	return name
}

func GetSessionJTI(c *fiber.Ctx) string {
	jti, _ := c.Locals(CtxSessionJTI).(string)
	return jti
}

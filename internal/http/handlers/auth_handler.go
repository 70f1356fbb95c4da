package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/homegrid/backend/internal/auth"
	"github.com/homegrid/backend/internal/config"
	"github.com/homegrid/backend/internal/http/dto"
	"github.com/homegrid/backend/internal/middleware"
	"github.com/homegrid/backend/internal/models"
	"github.com/homegrid/backend/internal/repositories"
)

type AuthHandler struct {
	userRepo *repositories.UserRepo
	sessions *auth.SessionStore
	cfg      *config.Config
	log      *zap.Logger
}

func NewAuthHandler(userRepo *repositories.UserRepo, sessions *auth.SessionStore, cfg *config.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{userRepo: userRepo, sessions: sessions, cfg: cfg, log: log}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	if req.Username == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "username and password are required"})
	}

	hash, err := auth.HashPassword(req.Password, h.cfg.BcryptCost)
	if err != nil {
		h.log.Error("failed to hash password", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}

	user, err := h.userRepo.Create(c.Context(), req.Username, hash)
	if err != nil {
		if errors.Is(err, repositories.ErrUsernameTaken) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: "this username is already taken"})
		}
		h.log.Error("failed to create user", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}

	token, err := h.issueSession(c, user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.AuthResponse{Token: token, User: user})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	if req.Username == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "username and password are required"})
	}

	user, err := h.userRepo.GetByUsername(c.Context(), req.Username)
	if err != nil {
		if !errors.Is(err, repositories.ErrUserNotFound) {
			h.log.Error("failed to look up user", zap.Error(err))
		}
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "invalid username or password"})
	}

	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "invalid username or password"})
	}

	token, err := h.issueSession(c, user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}

	return c.JSON(dto.AuthResponse{Token: token, User: user})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	jti := middleware.GetSessionJTI(c)
	if err := h.sessions.Revoke(c.Context(), jti); err != nil {
		h.log.Error("failed to revoke session", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	return c.JSON(dto.MessageResponse{Message: "logout successful"})
}

// Session reports whether the presented token still maps to a live session.
// Public: the dashboard calls it before deciding which page to show, so an
// absent or dead token answers logged_in=false instead of 401.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
	if authHeader == "" || tokenStr == authHeader {
		return c.JSON(dto.SessionResponse{LoggedIn: false})
	}

	claims, err := auth.ParseJWT(h.cfg.JWTSecret, tokenStr)
	if err != nil {
		return c.JSON(dto.SessionResponse{LoggedIn: false})
	}

	alive, err := h.sessions.Exists(c.Context(), claims.ID)
	if err != nil {
		h.log.Error("session lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	if !alive {
		return c.JSON(dto.SessionResponse{LoggedIn: false})
	}

	return c.JSON(dto.SessionResponse{LoggedIn: true, Username: claims.Username})
}

func (h *AuthHandler) issueSession(c *fiber.Ctx, user *models.User) (string, error) {
	token, jti, err := auth.GenerateJWT(h.cfg.JWTSecret, user.ID, user.Username, h.cfg.JWTExpiration)
	if err != nil {
		h.log.Error("failed to generate jwt", zap.Error(err))
		return "", err
	}

	if err := h.sessions.Create(c.Context(), jti, user.Username); err != nil {
		h.log.Error("failed to store session", zap.Error(err))
		return "", err
	}

	return token, nil
}

package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/homegrid/backend/internal/http/dto"
	"github.com/homegrid/backend/internal/models"
	"github.com/homegrid/backend/internal/services"
)

type LogHandler struct {
	feedService *services.FeedService
	log         *zap.Logger
}

func NewLogHandler(feedService *services.FeedService, log *zap.Logger) *LogHandler {
	return &LogHandler{feedService: feedService, log: log}
}

// Logs serves the recent activity, newest first, capped at the page size.
// A storage failure is surfaced as an error so the dashboard shows a
// "could not load" state rather than an empty feed.
func (h *LogHandler) Logs(c *fiber.Ctx) error {
	limit := 0
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	entries, err := h.feedService.Recent(c.Context(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "could not fetch logs"})
	}
	if entries == nil {
		entries = []models.ActivityEntry{}
	}
	return c.JSON(entries)
}

package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/homegrid/backend/internal/controller"
	"github.com/homegrid/backend/internal/http/dto"
	"github.com/homegrid/backend/internal/middleware"
	"github.com/homegrid/backend/internal/services"
)

type DeviceHandler struct {
	relayService  *services.RelayService
	deviceService *services.DeviceService
	log           *zap.Logger
}

func NewDeviceHandler(relayService *services.RelayService, deviceService *services.DeviceService, log *zap.Logger) *DeviceHandler {
	return &DeviceHandler{relayService: relayService, deviceService: deviceService, log: log}
}

// Turn relays POST /turn/:device/:action to the controller. A controller
// failure answers non-2xx so the dashboard reverts its switch.
func (h *DeviceHandler) Turn(c *fiber.Ctx) error {
	device := c.Params("device")
	action := c.Params("action")

	var req dto.TurnRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	userID := middleware.GetUserID(c)
	username := middleware.GetUsername(c)

	result, err := h.relayService.Relay(c.Context(), userID, username, device, req.DeviceName, action)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownDevice), errors.Is(err, services.ErrInvalidAction):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid device or action"})
		case errors.Is(err, controller.ErrControllerUnavailable):
			return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Error: "failed to communicate with the hardware device"})
		default:
			h.log.Error("relay failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
		}
	}

	return c.JSON(dto.MessageResponse{
		Message:      fmt.Sprintf("command for %s sent successfully", device),
		AuditWarning: result.AuditWarning,
	})
}

// Devices lists the allow-listed devices with last known controller state.
func (h *DeviceHandler) Devices(c *fiber.Ctx) error {
	return c.JSON(h.deviceService.List(c.Context()))
}

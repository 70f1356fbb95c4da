package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/homegrid/backend/internal/config"
	"github.com/homegrid/backend/internal/models"
)

// StateReader reports last known device positions (controller.StateProbe in prod).
type StateReader interface {
	Probe(ctx context.Context) (map[string]bool, error)
}

// DeviceService lists the allow-listed devices, annotated with the
// controller's reported state when the status page is reachable.
type DeviceService struct {
	cfg   *config.Config
	probe StateReader
	log   *zap.Logger
}

func NewDeviceService(cfg *config.Config, probe StateReader, log *zap.Logger) *DeviceService {
	return &DeviceService{cfg: cfg, probe: probe, log: log}
}

func (s *DeviceService) List(ctx context.Context) []models.Device {
	var states map[string]bool
	if s.probe != nil {
		var err error
		states, err = s.probe.Probe(ctx)
		if err != nil {
			// Probe failure only costs the state annotation.
			s.log.Warn("controller status probe failed", zap.Error(err))
		}
	}

	devices := make([]models.Device, 0, len(s.cfg.Devices))
	for _, d := range s.cfg.Devices {
		dev := models.Device{
			TechnicalName: d.TechnicalName,
			DisplayName:   d.DisplayName,
		}
		if state, ok := states[d.TechnicalName]; ok {
			v := state
			dev.State = &v
		}
		devices = append(devices, dev)
	}
	return devices
}

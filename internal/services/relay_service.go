package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/homegrid/backend/internal/config"
	"github.com/homegrid/backend/internal/events"
	"github.com/homegrid/backend/internal/models"
)

// ErrUnknownDevice is returned when the technical name is not allow-listed.
// The request never reaches the controller.
var ErrUnknownDevice = errors.New("unknown device")

// ErrInvalidAction is returned when the requested action is not on/off.
var ErrInvalidAction = errors.New("invalid action")

// DeviceSender is the outbound command boundary (controller.Client in prod).
type DeviceSender interface {
	Send(ctx context.Context, technicalName string, action models.Action) error
}

// ActivityAppender is the audit boundary (repositories.ActivityLogRepo in prod).
type ActivityAppender interface {
	Append(ctx context.Context, userID uuid.UUID, deviceName string, action models.Action) (*models.ActionRecord, error)
}

// RelayResult reports one relayed command. AuditWarning is set when the
// controller actuated the device but the audit append failed; the toggle
// still counts as a success because the physical state already changed.
type RelayResult struct {
	Record       *models.ActionRecord
	DeviceName   string
	Action       models.Action
	AuditWarning string
}

// RelayService turns a validated user toggle into exactly one controller
// command and at most one audit append. No retries: commands are not safe to
// replay, the user re-toggles manually if the controller was unreachable.
type RelayService struct {
	cfg       *config.Config
	sender    DeviceSender
	activity  ActivityAppender
	publisher events.Publisher
	log       *zap.Logger
}

func NewRelayService(
	cfg *config.Config,
	sender DeviceSender,
	activity ActivityAppender,
	publisher events.Publisher,
	log *zap.Logger,
) *RelayService {
	return &RelayService{
		cfg:       cfg,
		sender:    sender,
		activity:  activity,
		publisher: publisher,
		log:       log,
	}
}

// Relay validates the request, forwards it to the controller, and appends an
// audit record on success. Audit failures are reported through AuditWarning
// instead of failing the relay; controller failures propagate and leave no
// audit record behind.
func (s *RelayService) Relay(ctx context.Context, userID uuid.UUID, username, technicalName, friendlyName, rawAction string) (*RelayResult, error) {
	entry, ok := s.cfg.Device(technicalName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDevice, technicalName)
	}

	action, err := models.ParseAction(rawAction)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAction, rawAction)
	}

	deviceName := friendlyName
	if deviceName == "" {
		deviceName = entry.DisplayName
	}

	if err := s.sender.Send(ctx, technicalName, action); err != nil {
		s.log.Error("controller command failed",
			zap.String("device", technicalName),
			zap.String("action", string(action)),
			zap.Error(err))
		return nil, err
	}

	result := &RelayResult{DeviceName: deviceName, Action: action}

	rec, err := s.activity.Append(ctx, userID, deviceName, action)
	if err != nil {
		// The device already actuated; losing the audit row must not turn a
		// successful toggle into a user-visible failure.
		s.log.Error("failed to append activity log",
			zap.String("device", deviceName),
			zap.String("action", string(action)),
			zap.Error(err))
		result.AuditWarning = "action completed but could not be recorded in the activity log"
		return result, nil
	}
	result.Record = rec

	if err := s.publisher.Publish(ctx, events.StreamActivity, events.Event{
		Type: events.EventDeviceToggled,
		Payload: map[string]any{
			"device_name": deviceName,
			"action":      string(action),
			"timestamp":   rec.Timestamp,
			"username":    username,
		},
	}); err != nil {
		s.log.Warn("failed to publish toggle event", zap.Error(err))
	}

	return result, nil
}

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/homegrid/backend/internal/config"
	"github.com/homegrid/backend/internal/events"
	"github.com/homegrid/backend/internal/models"
)

type fakeSender struct {
	calls []string
	err   error
}

func (f *fakeSender) Send(_ context.Context, technicalName string, action models.Action) error {
	f.calls = append(f.calls, technicalName+"/"+string(action))
	return f.err
}

type fakeAppender struct {
	calls []models.ActionRecord
	err   error
}

func (f *fakeAppender) Append(_ context.Context, userID uuid.UUID, deviceName string, action models.Action) (*models.ActionRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	rec := models.ActionRecord{
		ID:         int64(len(f.calls) + 1),
		UserID:     userID,
		DeviceName: deviceName,
		Action:     action,
		Timestamp:  time.Now(),
	}
	f.calls = append(f.calls, rec)
	return &rec, nil
}

type fakePublisher struct {
	published []events.Event
}

func (f *fakePublisher) Publish(_ context.Context, _ string, event events.Event) error {
	f.published = append(f.published, event)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Devices: []config.DeviceEntry{
			{TechnicalName: "bulb1", DisplayName: "Living Room Light"},
			{TechnicalName: "bulb2", DisplayName: "Bedroom Light"},
		},
	}
}

func newTestRelay(sender *fakeSender, appender *fakeAppender, pub *fakePublisher) *RelayService {
	return NewRelayService(testConfig(), sender, appender, pub, zap.NewNop())
}

func TestRelaySuccessAppendsRecord(t *testing.T) {
	sender := &fakeSender{}
	appender := &fakeAppender{}
	pub := &fakePublisher{}
	svc := newTestRelay(sender, appender, pub)

	userID := uuid.New()
	result, err := svc.Relay(context.Background(), userID, "alice", "bulb1", "Living Room Light", "on")
	if err != nil {
		t.Fatalf("Relay returned error: %v", err)
	}

	if len(sender.calls) != 1 || sender.calls[0] != "bulb1/on" {
		t.Errorf("sender calls = %v, want exactly one bulb1/on", sender.calls)
	}
	if len(appender.calls) != 1 {
		t.Fatalf("appender calls = %d, want 1", len(appender.calls))
	}
	rec := appender.calls[0]
	if rec.UserID != userID || rec.DeviceName != "Living Room Light" || rec.Action != models.ActionOn {
		t.Errorf("appended record = %+v", rec)
	}
	if result.Record == nil || result.AuditWarning != "" {
		t.Errorf("result = %+v, want record and no audit warning", result)
	}
	if len(pub.published) != 1 || pub.published[0].Type != events.EventDeviceToggled {
		t.Errorf("published events = %+v, want one device_toggled", pub.published)
	}
}

func TestRelayControllerFailureSkipsAudit(t *testing.T) {
	sendErr := errors.New("controller unavailable: connection refused")
	sender := &fakeSender{err: sendErr}
	appender := &fakeAppender{}
	svc := newTestRelay(sender, appender, &fakePublisher{})

	_, err := svc.Relay(context.Background(), uuid.New(), "alice", "bulb1", "Living Room Light", "off")
	if !errors.Is(err, sendErr) {
		t.Fatalf("Relay error = %v, want propagated sender error", err)
	}
	if len(appender.calls) != 0 {
		t.Errorf("appender was called %d times after controller failure, want 0", len(appender.calls))
	}
	if len(sender.calls) != 1 {
		t.Errorf("sender calls = %d, want exactly 1 (no retries)", len(sender.calls))
	}
}

func TestRelayAuditFailureIsNonFatal(t *testing.T) {
	sender := &fakeSender{}
	appender := &fakeAppender{err: errors.New("database is down")}
	pub := &fakePublisher{}
	svc := newTestRelay(sender, appender, pub)

	result, err := svc.Relay(context.Background(), uuid.New(), "alice", "bulb1", "Living Room Light", "on")
	if err != nil {
		t.Fatalf("Relay returned error despite controller success: %v", err)
	}
	if result.AuditWarning == "" {
		t.Error("result.AuditWarning is empty, want a warning about the lost audit record")
	}
	if result.Record != nil {
		t.Errorf("result.Record = %+v, want nil when the append failed", result.Record)
	}
	if len(pub.published) != 0 {
		t.Errorf("published %d events after audit failure, want 0", len(pub.published))
	}
}

func TestRelayRejectsUnknownDevice(t *testing.T) {
	sender := &fakeSender{}
	appender := &fakeAppender{}
	svc := newTestRelay(sender, appender, &fakePublisher{})

	for _, device := range []string{"", "garage", "../admin", "bulb1/extra"} {
		_, err := svc.Relay(context.Background(), uuid.New(), "alice", device, "X", "on")
		if !errors.Is(err, ErrUnknownDevice) {
			t.Errorf("device %q: error = %v, want ErrUnknownDevice", device, err)
		}
	}
	if len(sender.calls) != 0 {
		t.Errorf("sender was called for rejected devices: %v", sender.calls)
	}
}

func TestRelayRejectsInvalidAction(t *testing.T) {
	sender := &fakeSender{}
	appender := &fakeAppender{}
	svc := newTestRelay(sender, appender, &fakePublisher{})

	for _, action := range []string{"", "toggle", "onoff"} {
		_, err := svc.Relay(context.Background(), uuid.New(), "alice", "bulb1", "X", action)
		if !errors.Is(err, ErrInvalidAction) {
			t.Errorf("action %q: error = %v, want ErrInvalidAction", action, err)
		}
	}
	if len(sender.calls) != 0 {
		t.Errorf("sender was called for rejected actions: %v", sender.calls)
	}
}

func TestRelayBlankFriendlyNameUsesRegistryDisplayName(t *testing.T) {
	sender := &fakeSender{}
	appender := &fakeAppender{}
	svc := newTestRelay(sender, appender, &fakePublisher{})

	result, err := svc.Relay(context.Background(), uuid.New(), "alice", "bulb2", "", "on")
	if err != nil {
		t.Fatalf("Relay returned error: %v", err)
	}
	if result.DeviceName != "Bedroom Light" {
		t.Errorf("DeviceName = %q, want registry display name", result.DeviceName)
	}
	if appender.calls[0].DeviceName != "Bedroom Light" {
		t.Errorf("logged device name = %q, want Bedroom Light", appender.calls[0].DeviceName)
	}
}

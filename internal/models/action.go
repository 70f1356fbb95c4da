package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Action is the desired device state carried by a toggle command.
type Action string

const (
	ActionOn  Action = "on"
	ActionOff Action = "off"
)

// ParseAction accepts the wire form of an action ("on"/"off", any case).
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(s) {
	case string(ActionOn):
		return ActionOn, nil
	case string(ActionOff):
		return ActionOff, nil
	default:
		return "", fmt.Errorf("invalid action %q", s)
	}
}

// Display renders the action the way the dashboard shows it.
func (a Action) Display() string {
	return strings.ToUpper(string(a))
}

// ActionRecord is one immutable audit entry: who turned what on or off and
// when. ID is assigned by the store at insert and is strictly increasing, so
// it breaks ordering ties between records with equal timestamps.
type ActionRecord struct {
	ID         int64     `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	DeviceName string    `json:"device_name"`
	Action     Action    `json:"action"`
	Timestamp  time.Time `json:"timestamp"`
}

// ActivityEntry is an ActionRecord joined with the acting user's handle,
// the shape served by the log query endpoint.
type ActivityEntry struct {
	DeviceName string    `json:"device_name"`
	Action     Action    `json:"action"`
	Timestamp  time.Time `json:"timestamp"`
	Username   string    `json:"username"`
}

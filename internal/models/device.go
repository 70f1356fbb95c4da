package models

// Device is an allow-listed controllable device. State is the last known
// on/off position reported by the controller status probe; nil when the
// controller has not been probed or the device was absent from the page.
type Device struct {
	TechnicalName string `json:"technical_name"`
	DisplayName   string `json:"display_name"`
	State         *bool  `json:"state,omitempty"`
}

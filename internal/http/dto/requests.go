package dto

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TurnRequest carries the display name the dashboard shows for the device;
// it is logged as-is, the technical name travels in the path.
type TurnRequest struct {
	DeviceName string `json:"deviceName"`
}

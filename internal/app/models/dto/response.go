package dto

// HealthResponse is returned by the liveness probe
type HealthResponse struct {
	Success  bool   `json:"success" example:"true"`
	Message  string `json:"message" example:"Server OK"`
	Database int    `json:"database" example:"2"`
}

package handlers

// ForecastRequest selects a point by free text or by lat/lon. Exactly one form
// must be given; that rule is enforced by the location resolver.
type ForecastRequest struct {
	Description string   `form:"description" json:"description" validate:"omitempty,max=200"`
	Lat         *float64 `form:"lat" json:"lat" validate:"omitempty,latitude"`
	Lon         *float64 `form:"lon" json:"lon" validate:"omitempty,longitude"`
	Events      int      `form:"events" json:"events" validate:"omitempty,min=1,max=50"`
}

// ErrorResponse represents an error response with validation
type ErrorResponse struct {
	Error   string `json:"error" validate:"required,min=1,max=500"`
	Code    string `json:"code,omitempty" validate:"omitempty,min=1,max=50"`
	Details string `json:"details,omitempty" validate:"omitempty,max=1000"`
}

// HealthResponse represents health check response with validation
type HealthResponse struct {
	Status    string `json:"status" validate:"required,oneof=ok alive ready unavailable"`
	Uptime    string `json:"uptime" validate:"required"`
	Timestamp string `json:"timestamp,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

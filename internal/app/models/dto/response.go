package dto

// SuccessResponse is returned by delete endpoints
type SuccessResponse struct {
	Message string `json:"message" example:"Section deleted"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Sessions int    `json:"sessions" example:"3"`
}

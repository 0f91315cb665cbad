package dto

// CreateSectionRequest is the body of POST /api/admin/sections
type CreateSectionRequest struct {
	Name        string  `json:"name" binding:"required" example:"CS101"`
	Icon        string  `json:"icon" binding:"required" example:"💻"`
	Description *string `json:"description,omitempty"`
}

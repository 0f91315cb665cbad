package dto

// CreateNewsRequest is the body of POST /api/admin/news
type CreateNewsRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

package dto

// CreateKnowledgeRequest is the body of POST /api/admin/knowledge-base
type CreateKnowledgeRequest struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
}

// SearchRequest is the body of POST /api/student/assistant/search
type SearchRequest struct {
	Query string `json:"query" binding:"required"`
}

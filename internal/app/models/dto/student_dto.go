package dto

// CreateStudentRequest is the body of POST /api/admin/students
type CreateStudentRequest struct {
	FullName     string `json:"fullName" binding:"required"`
	UniversityID string `json:"universityId" binding:"required"`
	Password     string `json:"password" binding:"required"`
}

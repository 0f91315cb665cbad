package dto

// UploadFileRequest holds the metadata part of the multipart upload.
// The blob itself is read separately from the "file" form field.
type UploadFileRequest struct {
	FileName string `form:"fileName" binding:"required"`
	Section  string `form:"section" binding:"required"`
}

package models

import "time"

// File is the metadata record of an uploaded blob. SectionID is a plain
// reference: deleting the section leaves the file in place.
type File struct {
	ID               int64     `json:"id" db:"id"`
	FileName         string    `json:"fileName" db:"file_name" example:"Week 1 slides"`
	SectionID        int64     `json:"sectionId" db:"section_id"`
	Section          *Section  `json:"section"`
	FilePath         string    `json:"filePath" db:"file_path"`
	FileURL          string    `json:"fileUrl" db:"file_url"`
	OriginalFileName string    `json:"originalFileName" db:"original_file_name" example:"week1.pdf"`
	FileSize         int64     `json:"fileSize" db:"file_size"`
	UploadedAt       time.Time `json:"uploadedAt" db:"uploaded_at"`
}

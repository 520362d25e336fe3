package api

import "upfile/internal/models"

// ErrorResponse is a generic JSON error wrapper.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// UploadResponse is returned by POST /upload.
type UploadResponse struct {
	Success bool     `json:"success"`
	URLs    []string `json:"urls"`
	Skipped []string `json:"skipped,omitempty"`
}

// ConvertResponse is returned by POST /convert when at least one URL was stored.
type ConvertResponse struct {
	Success  bool     `json:"success"`
	URLs     []string `json:"urls"`
	Warnings []string `json:"warnings,omitempty"`
}

// ConvertFailure is returned by POST /convert when every URL failed.
type ConvertFailure struct {
	Error     string   `json:"error"`
	Code      string   `json:"code,omitempty"`
	ErrorCode int      `json:"error_code,omitempty"`
	Details   []string `json:"details"`
}

// FileListResponse is returned by GET /admin/files.
type FileListResponse = models.FileListing

// DeleteResponse is returned by DELETE /admin/files/{name}.
type DeleteResponse struct {
	Deleted string `json:"deleted"`
}

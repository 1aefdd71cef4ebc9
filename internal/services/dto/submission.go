package dto

import (
	"io"
	"time"
)

// SubmissionFileInput carries one uploaded file from the presentation
// layer into the core. Content is streamed to blob storage; only
// metadata and the storage key are persisted.
type SubmissionFileInput struct {
	OriginalName string
	MimeType     string
	SizeBytes    int64
	Content      io.Reader
}

type SubmitWorkRequest struct {
	TextNotes *string `json:"text_notes"`
	Files     []SubmissionFileInput
}

type RequestChangesRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type SubmissionFileResponse struct {
	ID           string `json:"id"`
	OriginalName string `json:"original_name"`
	MimeType     string `json:"mime_type"`
	SizeBytes    int64  `json:"size_bytes"`
	FileURL      string `json:"file_url"`
}

type SubmissionResponse struct {
	ID                  string                   `json:"id"`
	ApplicationID       string                   `json:"application_id"`
	JobID               string                   `json:"job_id"`
	FreelancerID        string                   `json:"freelancer_id"`
	TextNotes           *string                  `json:"text_notes,omitempty"`
	Status              string                   `json:"status"`
	ChangeRequestReason *string                  `json:"change_request_reason,omitempty"`
	Files               []SubmissionFileResponse `json:"files"`
	CreatedAt           time.Time                `json:"created_at"`
}

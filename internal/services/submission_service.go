package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"slowork_backend/internal/config"
	"slowork_backend/internal/models"
	"slowork_backend/internal/repositories"
	"slowork_backend/internal/services/dto"
	"slowork_backend/internal/storage"
	"slowork_backend/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubmissionService struct {
	submissionRepo      repositories.SubmissionRepository
	applicationRepo     repositories.ApplicationRepository
	jobRepo             repositories.JobRepository
	notificationService NotificationService
	storage             storage.Storage
	maxFileSize         int64
	allowedExtensions   map[string]bool
}

func NewSubmissionService(
	submissionRepo repositories.SubmissionRepository,
	applicationRepo repositories.ApplicationRepository,
	jobRepo repositories.JobRepository,
	notificationService NotificationService,
	storageInstance storage.Storage,
	cfg *config.Config,
) *SubmissionService {
	allowed := make(map[string]bool, len(cfg.Upload.AllowedExtensions))
	for _, ext := range cfg.Upload.AllowedExtensions {
		allowed[strings.ToLower(ext)] = true
	}
	return &SubmissionService{
		submissionRepo:      submissionRepo,
		applicationRepo:     applicationRepo,
		jobRepo:             jobRepo,
		notificationService: notificationService,
		storage:             storageInstance,
		maxFileSize:         cfg.Upload.MaxSize,
		allowedExtensions:   allowed,
	}
}

// Submit records a work delivery on an accepted application. The new
// submission is resubmitted when an earlier one carries
// changes_requested, submitted otherwise; the job moves to submitted
// either way. Files are validated up front so a violation stores
// nothing at all.
func (s *SubmissionService) Submit(ctx context.Context, db *gorm.DB, applicationID, freelancerID string, req *dto.SubmitWorkRequest) (*dto.SubmissionResponse, error) {
	application, err := s.applicationRepo.FindByID(db, applicationID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, err
	}

	if application.FreelancerID != freelancerID {
		return nil, apperrors.ErrPermissionDenied("submission", "You can only submit work for your own applications")
	}
	if application.Status != models.ApplicationStatusAccepted {
		return nil, apperrors.ErrInvalidOperation("submission", "This application is not accepted yet")
	}
	if application.Job.Status.IsTerminal() {
		return nil, apperrors.ErrInvalidOperation("submission", "This job no longer accepts submissions")
	}

	for i := range req.Files {
		if err := s.validateFile(&req.Files[i]); err != nil {
			return nil, err
		}
	}

	submission := &models.WorkSubmission{
		ApplicationID: applicationID,
		JobID:         application.JobID,
		FreelancerID:  freelancerID,
		TextNotes:     req.TextNotes,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		hasChanges, err := s.submissionRepo.HasChangesRequested(tx, applicationID)
		if err != nil {
			return err
		}
		if hasChanges {
			submission.Status = models.SubmissionStatusResubmitted
		} else {
			submission.Status = models.SubmissionStatusSubmitted
		}

		if err := s.submissionRepo.Create(tx, submission); err != nil {
			return err
		}

		for i := range req.Files {
			file, err := s.storeFile(ctx, submission.ID, &req.Files[i])
			if err != nil {
				return err
			}
			if err := s.submissionRepo.CreateFile(tx, file); err != nil {
				return err
			}
			submission.Files = append(submission.Files, *file)
		}

		return s.jobRepo.UpdateStatus(tx, application.JobID, models.JobStatusSubmitted)
	})
	if err != nil {
		return nil, err
	}

	emitNotification(db, s.notificationService, application.Job.EmployerID,
		models.NotificationTypeStatus,
		"Work submitted",
		fmt.Sprintf("%s submitted work for '%s'.", application.Freelancer.Name, application.Job.Title),
		"job", application.JobID,
		map[string]interface{}{"job_id": application.JobID, "submission_id": submission.ID},
	)

	return buildSubmissionResponse(submission), nil
}

// Approve clears any change-request reason, finalizes the submission
// and completes the job. Terminal; reviews unlock.
func (s *SubmissionService) Approve(db *gorm.DB, submissionID, employerID string) (*dto.SubmissionResponse, error) {
	submission, err := s.submissionRepo.FindByID(db, submissionID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrSubmissionNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, err
	}

	if submission.Job.EmployerID != employerID {
		return nil, apperrors.ErrPermissionDenied("submission", "Only the job owner can approve submissions")
	}
	if !isAwaitingDecision(submission.Status) {
		return nil, apperrors.ErrInvalidOperation("submission", "This submission is not awaiting a decision")
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		submission.Status = models.SubmissionStatusApproved
		submission.ChangeRequestReason = nil
		if err := s.submissionRepo.Update(tx, submission); err != nil {
			return err
		}
		return s.jobRepo.UpdateStatus(tx, submission.JobID, models.JobStatusCompleted)
	})
	if err != nil {
		return nil, err
	}

	emitNotification(db, s.notificationService, submission.FreelancerID,
		models.NotificationTypeStatus,
		"Submission approved",
		fmt.Sprintf("Your submission for '%s' was approved.", submission.Job.Title),
		"job", submission.JobID,
		map[string]interface{}{"job_id": submission.JobID, "submission_id": submission.ID},
	)

	return buildSubmissionResponse(submission), nil
}

// RequestChanges stores the reason, flags the submission and sends the
// job back to in_progress.
func (s *SubmissionService) RequestChanges(db *gorm.DB, submissionID, employerID string, req *dto.RequestChangesRequest) (*dto.SubmissionResponse, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, apperrors.ValidationError(map[string]string{"reason": "a reason is required when requesting changes"})
	}

	submission, err := s.submissionRepo.FindByID(db, submissionID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrSubmissionNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, err
	}

	if submission.Job.EmployerID != employerID {
		return nil, apperrors.ErrPermissionDenied("submission", "Only the job owner can request changes")
	}
	if !isAwaitingDecision(submission.Status) {
		return nil, apperrors.ErrInvalidOperation("submission", "This submission is not awaiting a decision")
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		submission.Status = models.SubmissionStatusChangesRequested
		submission.ChangeRequestReason = &reason
		if err := s.submissionRepo.Update(tx, submission); err != nil {
			return err
		}
		return s.jobRepo.UpdateStatus(tx, submission.JobID, models.JobStatusInProgress)
	})
	if err != nil {
		return nil, err
	}

	emitNotification(db, s.notificationService, submission.FreelancerID,
		models.NotificationTypeStatus,
		"Changes requested",
		fmt.Sprintf("Changes were requested for '%s'. Reason: %s", submission.Job.Title, reason),
		"submission", submission.ID,
		map[string]interface{}{"job_id": submission.JobID, "submission_id": submission.ID},
	)

	return buildSubmissionResponse(submission), nil
}

func (s *SubmissionService) GetJobSubmissions(db *gorm.DB, jobID, requesterID string) ([]dto.SubmissionResponse, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, err
	}

	allowed := job.EmployerID == requesterID
	if !allowed && job.SelectedApplication != nil {
		allowed = job.SelectedApplication.FreelancerID == requesterID
	}
	if !allowed {
		return nil, apperrors.ErrPermissionDenied("submission", "Only the job participants can view submissions")
	}

	submissions, err := s.submissionRepo.FindByJob(db, jobID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.SubmissionResponse, 0, len(submissions))
	for i := range submissions {
		out = append(out, *buildSubmissionResponse(&submissions[i]))
	}
	return out, nil
}

func (s *SubmissionService) GetFreelancerSubmissions(db *gorm.DB, freelancerID string) ([]dto.SubmissionResponse, error) {
	submissions, err := s.submissionRepo.FindByFreelancer(db, freelancerID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.SubmissionResponse, 0, len(submissions))
	for i := range submissions {
		out = append(out, *buildSubmissionResponse(&submissions[i]))
	}
	return out, nil
}

// ---------------- helpers ----------------

func isAwaitingDecision(status models.SubmissionStatus) bool {
	return status == models.SubmissionStatusSubmitted || status == models.SubmissionStatusResubmitted
}

func (s *SubmissionService) validateFile(file *dto.SubmissionFileInput) error {
	if file.SizeBytes > s.maxFileSize {
		return apperrors.ErrFileTooLarge(file.OriginalName, file.SizeBytes, s.maxFileSize)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(file.OriginalName), "."))
	if !s.allowedExtensions[ext] {
		return apperrors.ErrInvalidFileType(file.OriginalName, ext)
	}
	return nil
}

func (s *SubmissionService) storeFile(ctx context.Context, submissionID string, file *dto.SubmissionFileInput) (*models.SubmissionFile, error) {
	ext := strings.ToLower(filepath.Ext(file.OriginalName))
	path := fmt.Sprintf("submissions/%s/%s%s", submissionID, uuid.NewString(), ext)

	if err := s.storage.Save(ctx, path, file.Content, file.MimeType); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStorageError, "submission", "Failed to store submission file", 500)
	}

	url, err := s.storage.GetURL(ctx, path)
	if err != nil {
		url = ""
	}

	return &models.SubmissionFile{
		SubmissionID: submissionID,
		OriginalName: file.OriginalName,
		MimeType:     file.MimeType,
		SizeBytes:    file.SizeBytes,
		FilePath:     path,
		FileURL:      url,
	}, nil
}

func buildSubmissionResponse(submission *models.WorkSubmission) *dto.SubmissionResponse {
	files := make([]dto.SubmissionFileResponse, 0, len(submission.Files))
	for _, f := range submission.Files {
		files = append(files, dto.SubmissionFileResponse{
			ID:           f.ID,
			OriginalName: f.OriginalName,
			MimeType:     f.MimeType,
			SizeBytes:    f.SizeBytes,
			FileURL:      f.FileURL,
		})
	}
	return &dto.SubmissionResponse{
		ID:                  submission.ID,
		ApplicationID:       submission.ApplicationID,
		JobID:               submission.JobID,
		FreelancerID:        submission.FreelancerID,
		TextNotes:           submission.TextNotes,
		Status:              string(submission.Status),
		ChangeRequestReason: submission.ChangeRequestReason,
		Files:               files,
		CreatedAt:           submission.CreatedAt,
	}
}

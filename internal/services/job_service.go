package services

import (
	"fmt"

	"slowork_backend/internal/models"
	"slowork_backend/internal/repositories"
	"slowork_backend/internal/services/dto"
	"slowork_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type JobService struct {
	jobRepo             repositories.JobRepository
	categoryRepo        repositories.CategoryRepository
	userRepo            repositories.UserRepository
	applicationRepo     repositories.ApplicationRepository
	notificationService NotificationService
}

func NewJobService(
	jobRepo repositories.JobRepository,
	categoryRepo repositories.CategoryRepository,
	userRepo repositories.UserRepository,
	applicationRepo repositories.ApplicationRepository,
	notificationService NotificationService,
) *JobService {
	return &JobService{
		jobRepo:             jobRepo,
		categoryRepo:        categoryRepo,
		userRepo:            userRepo,
		applicationRepo:     applicationRepo,
		notificationService: notificationService,
	}
}

// CreateJob posts a new open job for an employer.
func (s *JobService) CreateJob(db *gorm.DB, employerID string, req *dto.CreateJobRequest) (*dto.JobResponse, error) {
	employer, err := s.userRepo.FindByID(db, employerID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, err
	}
	if employer.Role != models.UserRoleEmployer {
		return nil, apperrors.ErrInsufficientPermissions
	}

	if req.BudgetMax < req.BudgetMin {
		return nil, apperrors.ValidationError(map[string]string{"budget_max": "must not be less than budget_min"})
	}

	category, err := s.categoryRepo.FindByID(db, req.CategoryID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, err
	}

	job := &models.Job{
		EmployerID:   employerID,
		CategoryID:   category.ID,
		Title:        req.Title,
		Description:  req.Description,
		BudgetMin:    req.BudgetMin,
		BudgetMax:    req.BudgetMax,
		LocationCity: req.LocationCity,
		DeadlineDate: req.DeadlineDate,
		Status:       models.JobStatusOpen,
	}

	if err := s.jobRepo.Create(db, job); err != nil {
		return nil, err
	}
	job.Category = *category

	return buildJobResponse(job), nil
}

func (s *JobService) GetJob(db *gorm.DB, jobID string) (*dto.JobResponse, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, err
	}
	return buildJobResponse(job), nil
}

func (s *JobService) SearchJobs(db *gorm.DB, criteria repositories.JobSearchCriteria) (*dto.JobListResponse, error) {
	jobs, total, err := s.jobRepo.Search(db, criteria)
	if err != nil {
		return nil, err
	}

	page := criteria.Page
	if page <= 0 {
		page = 1
	}

	out := make([]dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		out = append(out, *buildJobResponse(&jobs[i]))
	}
	return &dto.JobListResponse{Jobs: out, Total: total, Page: page}, nil
}

func (s *JobService) GetEmployerJobs(db *gorm.DB, employerID string) ([]dto.JobResponse, error) {
	jobs, err := s.jobRepo.FindByEmployer(db, employerID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		out = append(out, *buildJobResponse(&jobs[i]))
	}
	return out, nil
}

// UpdateJob edits job fields. Allowed only while the job is still open;
// once a freelancer is selected the terms are frozen.
func (s *JobService) UpdateJob(db *gorm.DB, jobID, employerID string, req *dto.UpdateJobRequest) (*dto.JobResponse, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, err
	}

	if job.EmployerID != employerID {
		return nil, apperrors.ErrPermissionDenied("job", "You can only edit your own jobs")
	}
	if job.Status != models.JobStatusOpen {
		return nil, apperrors.ErrInvalidOperation("job", "Only open jobs can be edited")
	}

	if req.CategoryID != nil {
		category, err := s.categoryRepo.FindByID(db, *req.CategoryID)
		if err != nil {
			if apperrors.Is(err, repositories.ErrCategoryNotFound) {
				return nil, apperrors.ErrNotFound(err)
			}
			return nil, err
		}
		job.CategoryID = category.ID
		job.Category = *category
	}
	if req.Title != nil {
		job.Title = *req.Title
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.BudgetMin != nil {
		job.BudgetMin = *req.BudgetMin
	}
	if req.BudgetMax != nil {
		job.BudgetMax = *req.BudgetMax
	}
	if req.LocationCity != nil {
		job.LocationCity = req.LocationCity
	}
	if req.DeadlineDate != nil {
		job.DeadlineDate = req.DeadlineDate
	}

	if job.BudgetMax < job.BudgetMin {
		return nil, apperrors.ValidationError(map[string]string{"budget_max": "must not be less than budget_min"})
	}

	if err := s.jobRepo.Update(db, job); err != nil {
		return nil, err
	}
	return buildJobResponse(job), nil
}

// MarkCompleted lets the employer complete an assigned job directly,
// skipping the submission review round. Terminal; reviews unlock.
func (s *JobService) MarkCompleted(db *gorm.DB, jobID, employerID string) (*dto.JobResponse, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, err
	}

	if job.EmployerID != employerID {
		return nil, apperrors.ErrPermissionDenied("job", "Only the job owner can mark it completed")
	}
	switch job.Status {
	case models.JobStatusAssigned, models.JobStatusInProgress, models.JobStatusSubmitted:
	default:
		return nil, apperrors.ErrInvalidOperation("job", "Only an assigned job can be marked completed")
	}

	if err := s.jobRepo.UpdateStatus(db, jobID, models.JobStatusCompleted); err != nil {
		return nil, err
	}
	job.Status = models.JobStatusCompleted

	if job.SelectedApplication != nil {
		emitNotification(db, s.notificationService, job.SelectedApplication.FreelancerID,
			models.NotificationTypeStatus,
			"Job marked as completed",
			fmt.Sprintf("'%s' was marked as completed.", job.Title),
			"job", job.ID,
			map[string]interface{}{"job_id": job.ID},
		)
	}

	return buildJobResponse(job), nil
}

// CancelJob closes a job before completion. The selected freelancer,
// if any, is told.
func (s *JobService) CancelJob(db *gorm.DB, jobID, employerID string) (*dto.JobResponse, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, err
	}

	if job.EmployerID != employerID {
		return nil, apperrors.ErrPermissionDenied("job", "Only the job owner can cancel it")
	}
	if job.Status.IsTerminal() {
		return nil, apperrors.ErrInvalidOperation("job", "This job is already closed")
	}

	if err := s.jobRepo.UpdateStatus(db, jobID, models.JobStatusCancelled); err != nil {
		return nil, err
	}
	job.Status = models.JobStatusCancelled

	if job.SelectedApplication != nil {
		emitNotification(db, s.notificationService, job.SelectedApplication.FreelancerID,
			models.NotificationTypeStatus,
			"Job cancelled",
			fmt.Sprintf("'%s' was cancelled by the employer.", job.Title),
			"job", job.ID,
			map[string]interface{}{"job_id": job.ID},
		)
	}

	// Pending applicants find out too; their applications go nowhere now.
	if pending, err := s.applicationRepo.FindByJob(db, jobID); err == nil {
		var recipients []string
		for i := range pending {
			if pending[i].Status == models.ApplicationStatusPending {
				recipients = append(recipients, pending[i].FreelancerID)
			}
		}
		emitNotificationFanout(db, s.notificationService, recipients,
			models.NotificationTypeStatus,
			"Job cancelled",
			fmt.Sprintf("'%s' was cancelled by the employer.", job.Title),
			"job", job.ID,
			map[string]interface{}{"job_id": job.ID},
		)
	}

	return buildJobResponse(job), nil
}

// DeleteJob removes an open job that never got off the ground.
func (s *JobService) DeleteJob(db *gorm.DB, jobID, employerID string) error {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return err
	}

	if job.EmployerID != employerID {
		return apperrors.ErrPermissionDenied("job", "You can only delete your own jobs")
	}
	if job.Status != models.JobStatusOpen {
		return apperrors.ErrInvalidOperation("job", "Only open jobs can be deleted")
	}

	return s.jobRepo.Delete(db, jobID)
}

func buildJobResponse(job *models.Job) *dto.JobResponse {
	resp := &dto.JobResponse{
		ID:                    job.ID,
		EmployerID:            job.EmployerID,
		Title:                 job.Title,
		Description:           job.Description,
		BudgetMin:             job.BudgetMin,
		BudgetMax:             job.BudgetMax,
		LocationCity:          job.LocationCity,
		DeadlineDate:          job.DeadlineDate,
		Status:                string(job.Status),
		SelectedApplicationID: job.SelectedApplicationID,
		CreatedAt:             job.CreatedAt,
	}
	if job.Category.ID != "" {
		resp.Category = buildCategoryResponse(&job.Category)
	}
	return resp
}

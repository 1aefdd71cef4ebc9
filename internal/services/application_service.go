package services

import (
	"fmt"

	"slowork_backend/internal/models"
	"slowork_backend/internal/repositories"
	"slowork_backend/internal/services/dto"
	"slowork_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ApplicationService struct {
	applicationRepo     repositories.ApplicationRepository
	jobRepo             repositories.JobRepository
	userRepo            repositories.UserRepository
	notificationService NotificationService
}

func NewApplicationService(
	applicationRepo repositories.ApplicationRepository,
	jobRepo repositories.JobRepository,
	userRepo repositories.UserRepository,
	notificationService NotificationService,
) *ApplicationService {
	return &ApplicationService{
		applicationRepo:     applicationRepo,
		jobRepo:             jobRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
	}
}

// Apply creates a pending application and notifies the employer.
// A repeated application for the same (job, freelancer) pair is an
// informational no-op reported through ApplyResult.AlreadyApplied.
func (s *ApplicationService) Apply(db *gorm.DB, jobID, freelancerID string, req *dto.ApplyRequest) (*dto.ApplyResult, error) {
	freelancer, err := s.userRepo.FindByID(db, freelancerID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, err
	}
	if freelancer.Role != models.UserRoleFreelancer {
		return nil, apperrors.ErrInsufficientPermissions
	}

	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, err
	}

	if job.EmployerID == freelancerID {
		return nil, apperrors.ErrSelfApplication
	}
	if job.Status != models.JobStatusOpen {
		return nil, apperrors.ErrJobNotOpen
	}

	if req.ProposedBudget < 0 {
		return nil, apperrors.ValidationError(map[string]string{"proposed_budget": "must not be negative"})
	}
	if req.ProposedDays < 1 {
		return nil, apperrors.ValidationError(map[string]string{"proposed_days": "must be at least 1"})
	}

	existing, err := s.applicationRepo.FindByJobAndFreelancer(db, jobID, freelancerID)
	if err == nil {
		return &dto.ApplyResult{
			Application:    buildApplicationResponse(existing),
			AlreadyApplied: true,
		}, nil
	}
	if !apperrors.Is(err, repositories.ErrApplicationNotFound) {
		return nil, err
	}

	application := &models.Application{
		JobID:          jobID,
		FreelancerID:   freelancerID,
		CoverMessage:   req.CoverMessage,
		ProposedBudget: req.ProposedBudget,
		ProposedDays:   req.ProposedDays,
		Status:         models.ApplicationStatusPending,
	}
	if err := s.applicationRepo.Create(db, application); err != nil {
		return nil, err
	}

	emitNotification(db, s.notificationService, job.EmployerID,
		models.NotificationTypeApply,
		"New application received",
		fmt.Sprintf("%s applied to your job '%s'.", freelancer.Name, job.Title),
		"job", job.ID,
		map[string]interface{}{"job_id": job.ID, "application_id": application.ID},
	)

	return &dto.ApplyResult{Application: buildApplicationResponse(application)}, nil
}

// Accept is the single-winner transition. The job row is locked for the
// duration, so two concurrent accepts on the same job serialize and the
// loser observes a job that is no longer open.
func (s *ApplicationService) Accept(db *gorm.DB, applicationID, employerID string) error {
	var (
		freelancerID string
		jobID        string
		jobTitle     string
	)

	err := db.Transaction(func(tx *gorm.DB) error {
		probe, err := s.applicationRepo.FindByID(tx, applicationID)
		if err != nil {
			if apperrors.Is(err, repositories.ErrApplicationNotFound) {
				return apperrors.ErrNotFound(err)
			}
			return err
		}

		job, err := s.jobRepo.FindByIDForUpdate(tx, probe.JobID)
		if err != nil {
			return err
		}
		if job.EmployerID != employerID {
			return apperrors.ErrPermissionDenied("application", "Only the job owner can accept applications")
		}
		if job.Status != models.JobStatusOpen {
			return apperrors.ErrInvalidOperation("job", "This job is no longer open")
		}

		// Re-read under the lock; the pre-lock snapshot may be stale.
		application, err := s.applicationRepo.FindByID(tx, applicationID)
		if err != nil {
			return err
		}
		if application.Status != models.ApplicationStatusPending {
			return apperrors.ErrInvalidOperation("application", "This application has already been decided")
		}

		flipped, err := s.applicationRepo.UpdateStatusFrom(tx, applicationID,
			models.ApplicationStatusPending, models.ApplicationStatusAccepted)
		if err != nil {
			return err
		}
		if !flipped {
			return apperrors.ErrInvalidOperation("application", "This application has already been decided")
		}
		if err := s.applicationRepo.RejectSiblings(tx, job.ID, applicationID); err != nil {
			return err
		}
		if err := s.jobRepo.AssignApplication(tx, job.ID, applicationID); err != nil {
			return err
		}

		freelancerID = application.FreelancerID
		jobID = job.ID
		jobTitle = job.Title
		return nil
	})
	if err != nil {
		return err
	}

	emitNotification(db, s.notificationService, freelancerID,
		models.NotificationTypeStatus,
		"Application accepted",
		fmt.Sprintf("You have been selected for '%s'.", jobTitle),
		"job", jobID,
		map[string]interface{}{"job_id": jobID, "application_id": applicationID},
	)

	return nil
}

// Reject flips a single pending application; siblings and the job are
// untouched. The conditional flip keeps a racing Accept from being
// silently overwritten.
func (s *ApplicationService) Reject(db *gorm.DB, applicationID, employerID string) error {
	application, err := s.applicationRepo.FindByID(db, applicationID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrApplicationNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return err
	}

	if application.Job.EmployerID != employerID {
		return apperrors.ErrPermissionDenied("application", "Only the job owner can reject applications")
	}

	flipped, err := s.applicationRepo.UpdateStatusFrom(db, applicationID,
		models.ApplicationStatusPending, models.ApplicationStatusRejected)
	if err != nil {
		return err
	}
	if !flipped {
		return apperrors.ErrInvalidOperation("application", "This application has already been decided")
	}

	emitNotification(db, s.notificationService, application.FreelancerID,
		models.NotificationTypeStatus,
		"Application update",
		fmt.Sprintf("Your application for '%s' was rejected.", application.Job.Title),
		"job", application.JobID,
		map[string]interface{}{"job_id": application.JobID, "application_id": application.ID},
	)

	return nil
}

// GetJobApplications lists a job's applications for its employer.
func (s *ApplicationService) GetJobApplications(db *gorm.DB, jobID, requesterID string) ([]dto.ApplicationResponse, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, err
	}
	if job.EmployerID != requesterID {
		return nil, apperrors.ErrPermissionDenied("application", "Only the job owner can view its applications")
	}

	applications, err := s.applicationRepo.FindByJob(db, jobID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ApplicationResponse, 0, len(applications))
	for i := range applications {
		out = append(out, *buildApplicationResponse(&applications[i]))
	}
	return out, nil
}

func (s *ApplicationService) GetFreelancerApplications(db *gorm.DB, freelancerID string) ([]dto.ApplicationResponse, error) {
	applications, err := s.applicationRepo.FindByFreelancer(db, freelancerID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ApplicationResponse, 0, len(applications))
	for i := range applications {
		out = append(out, *buildApplicationResponse(&applications[i]))
	}
	return out, nil
}

func buildApplicationResponse(application *models.Application) *dto.ApplicationResponse {
	resp := &dto.ApplicationResponse{
		ID:             application.ID,
		JobID:          application.JobID,
		FreelancerID:   application.FreelancerID,
		CoverMessage:   application.CoverMessage,
		ProposedBudget: application.ProposedBudget,
		ProposedDays:   application.ProposedDays,
		Status:         string(application.Status),
		CreatedAt:      application.CreatedAt,
	}
	if application.Freelancer.ID != "" {
		resp.FreelancerName = application.Freelancer.Name
	}
	return resp
}

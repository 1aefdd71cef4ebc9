package repositories

import (
	"errors"

	"slowork_backend/internal/models"

	"gorm.io/gorm"
)

var ErrSubmissionNotFound = errors.New("submission not found")

type SubmissionRepository interface {
	Create(db *gorm.DB, submission *models.WorkSubmission) error
	CreateFile(db *gorm.DB, file *models.SubmissionFile) error
	FindByID(db *gorm.DB, id string) (*models.WorkSubmission, error)
	FindByApplication(db *gorm.DB, applicationID string) ([]models.WorkSubmission, error)
	FindByJob(db *gorm.DB, jobID string) ([]models.WorkSubmission, error)
	FindByFreelancer(db *gorm.DB, freelancerID string) ([]models.WorkSubmission, error)
	HasChangesRequested(db *gorm.DB, applicationID string) (bool, error)
	Update(db *gorm.DB, submission *models.WorkSubmission) error
}

type SubmissionRepositoryImpl struct{}

func NewSubmissionRepository() SubmissionRepository {
	return &SubmissionRepositoryImpl{}
}

func (r *SubmissionRepositoryImpl) Create(db *gorm.DB, submission *models.WorkSubmission) error {
	return db.Create(submission).Error
}

func (r *SubmissionRepositoryImpl) CreateFile(db *gorm.DB, file *models.SubmissionFile) error {
	return db.Create(file).Error
}

func (r *SubmissionRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.WorkSubmission, error) {
	var submission models.WorkSubmission
	err := db.Preload("Job").Preload("Application").Preload("Files").
		First(&submission, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	return &submission, nil
}

func (r *SubmissionRepositoryImpl) FindByApplication(db *gorm.DB, applicationID string) ([]models.WorkSubmission, error) {
	var submissions []models.WorkSubmission
	err := db.Preload("Files").
		Where("application_id = ?", applicationID).
		Order("created_at DESC").
		Find(&submissions).Error
	return submissions, err
}

func (r *SubmissionRepositoryImpl) FindByJob(db *gorm.DB, jobID string) ([]models.WorkSubmission, error) {
	var submissions []models.WorkSubmission
	err := db.Preload("Files").Preload("Freelancer").
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		Find(&submissions).Error
	return submissions, err
}

func (r *SubmissionRepositoryImpl) FindByFreelancer(db *gorm.DB, freelancerID string) ([]models.WorkSubmission, error) {
	var submissions []models.WorkSubmission
	err := db.Preload("Files").Preload("Job").
		Where("freelancer_id = ?", freelancerID).
		Order("created_at DESC").
		Find(&submissions).Error
	return submissions, err
}

// HasChangesRequested reports whether any earlier submission of the
// application is sitting in changes_requested. Decides submitted vs
// resubmitted for the next delivery.
func (r *SubmissionRepositoryImpl) HasChangesRequested(db *gorm.DB, applicationID string) (bool, error) {
	var count int64
	err := db.Model(&models.WorkSubmission{}).
		Where("application_id = ? AND status = ?", applicationID, models.SubmissionStatusChangesRequested).
		Count(&count).Error
	return count > 0, err
}

func (r *SubmissionRepositoryImpl) Update(db *gorm.DB, submission *models.WorkSubmission) error {
	return db.Save(submission).Error
}

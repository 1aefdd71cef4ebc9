package repositories

import (
	"errors"

	"slowork_backend/internal/models"

	"gorm.io/gorm"
)

var ErrApplicationNotFound = errors.New("application not found")

type ApplicationRepository interface {
	Create(db *gorm.DB, application *models.Application) error
	FindByID(db *gorm.DB, id string) (*models.Application, error)
	FindByJob(db *gorm.DB, jobID string) ([]models.Application, error)
	FindByJobAndFreelancer(db *gorm.DB, jobID, freelancerID string) (*models.Application, error)
	FindByFreelancer(db *gorm.DB, freelancerID string) ([]models.Application, error)
	// UpdateStatusFrom flips the status only while the row still holds
	// the expected one; the application row is the serialization point
	// for its own status. Reports whether a row changed.
	UpdateStatusFrom(db *gorm.DB, applicationID string, from, to models.ApplicationStatus) (bool, error)
	// RejectSiblings force-rejects every other application of the job.
	RejectSiblings(db *gorm.DB, jobID, acceptedApplicationID string) error
}

type ApplicationRepositoryImpl struct{}

func NewApplicationRepository() ApplicationRepository {
	return &ApplicationRepositoryImpl{}
}

func (r *ApplicationRepositoryImpl) Create(db *gorm.DB, application *models.Application) error {
	return db.Create(application).Error
}

func (r *ApplicationRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Application, error) {
	var application models.Application
	err := db.Preload("Job").Preload("Freelancer").First(&application, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &application, nil
}

func (r *ApplicationRepositoryImpl) FindByJob(db *gorm.DB, jobID string) ([]models.Application, error) {
	var applications []models.Application
	err := db.Preload("Freelancer").
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		Find(&applications).Error
	return applications, err
}

func (r *ApplicationRepositoryImpl) FindByJobAndFreelancer(db *gorm.DB, jobID, freelancerID string) (*models.Application, error) {
	var application models.Application
	err := db.First(&application, "job_id = ? AND freelancer_id = ?", jobID, freelancerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &application, nil
}

func (r *ApplicationRepositoryImpl) FindByFreelancer(db *gorm.DB, freelancerID string) ([]models.Application, error) {
	var applications []models.Application
	err := db.Preload("Job").Preload("Job.Category").
		Where("freelancer_id = ?", freelancerID).
		Order("created_at DESC").
		Find(&applications).Error
	return applications, err
}

func (r *ApplicationRepositoryImpl) UpdateStatusFrom(db *gorm.DB, applicationID string, from, to models.ApplicationStatus) (bool, error) {
	result := db.Model(&models.Application{}).
		Where("id = ? AND status = ?", applicationID, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *ApplicationRepositoryImpl) RejectSiblings(db *gorm.DB, jobID, acceptedApplicationID string) error {
	return db.Model(&models.Application{}).
		Where("job_id = ? AND id <> ?", jobID, acceptedApplicationID).
		Update("status", models.ApplicationStatusRejected).Error
}

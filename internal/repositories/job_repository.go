package repositories

import (
	"errors"
	"time"

	"slowork_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrJobNotFound = errors.New("job not found")

// JobSearchCriteria filters public job listings.
type JobSearchCriteria struct {
	Search     string `form:"search"`
	CategoryID string `form:"category_id"`
	Status     string `form:"status"`
	City       string `form:"city"`
	PostedDays int    `form:"posted_days"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

type JobRepository interface {
	Create(db *gorm.DB, job *models.Job) error
	FindByID(db *gorm.DB, id string) (*models.Job, error)
	// FindByIDForUpdate takes a row lock on the job. The job row is the
	// serialization point for the application-acceptance race.
	FindByIDForUpdate(db *gorm.DB, id string) (*models.Job, error)
	FindByEmployer(db *gorm.DB, employerID string) ([]models.Job, error)
	Search(db *gorm.DB, criteria JobSearchCriteria) ([]models.Job, int64, error)
	Update(db *gorm.DB, job *models.Job) error
	UpdateStatus(db *gorm.DB, jobID string, status models.JobStatus) error
	AssignApplication(db *gorm.DB, jobID, applicationID string) error
	Delete(db *gorm.DB, id string) error
}

type JobRepositoryImpl struct{}

func NewJobRepository() JobRepository {
	return &JobRepositoryImpl{}
}

func (r *JobRepositoryImpl) Create(db *gorm.DB, job *models.Job) error {
	return db.Create(job).Error
}

func (r *JobRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Job, error) {
	var job models.Job
	err := db.Preload("Category").Preload("SelectedApplication").First(&job, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *JobRepositoryImpl) FindByIDForUpdate(db *gorm.DB, id string) (*models.Job, error) {
	var job models.Job
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&job, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *JobRepositoryImpl) FindByEmployer(db *gorm.DB, employerID string) ([]models.Job, error) {
	var jobs []models.Job
	err := db.Preload("Category").
		Where("employer_id = ?", employerID).
		Order("created_at DESC").
		Find(&jobs).Error
	return jobs, err
}

func (r *JobRepositoryImpl) Search(db *gorm.DB, criteria JobSearchCriteria) ([]models.Job, int64, error) {
	query := db.Model(&models.Job{})

	if criteria.Search != "" {
		like := "%" + criteria.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ? OR location_city ILIKE ?", like, like, like)
	}
	if criteria.CategoryID != "" {
		query = query.Where("category_id = ?", criteria.CategoryID)
	}
	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}
	if criteria.City != "" {
		query = query.Where("location_city = ?", criteria.City)
	}
	if criteria.PostedDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -criteria.PostedDays)
		query = query.Where("created_at >= ?", cutoff)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if criteria.Page <= 0 {
		criteria.Page = 1
	}
	if criteria.PageSize <= 0 {
		criteria.PageSize = 20
	}

	var jobs []models.Job
	err := query.Preload("Category").
		Order("created_at DESC").
		Limit(criteria.PageSize).
		Offset((criteria.Page - 1) * criteria.PageSize).
		Find(&jobs).Error

	return jobs, total, err
}

func (r *JobRepositoryImpl) Update(db *gorm.DB, job *models.Job) error {
	return db.Save(job).Error
}

func (r *JobRepositoryImpl) UpdateStatus(db *gorm.DB, jobID string, status models.JobStatus) error {
	result := db.Model(&models.Job{}).Where("id = ?", jobID).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

// AssignApplication flips the job to assigned and records the winner in
// one UPDATE. Callers run it inside the acceptance transaction.
func (r *JobRepositoryImpl) AssignApplication(db *gorm.DB, jobID, applicationID string) error {
	result := db.Model(&models.Job{}).Where("id = ?", jobID).Updates(map[string]interface{}{
		"status":                  models.JobStatusAssigned,
		"selected_application_id": applicationID,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *JobRepositoryImpl) Delete(db *gorm.DB, id string) error {
	result := db.Delete(&models.Job{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

package repositories

import (
	"errors"

	"slowork_backend/internal/models"

	"gorm.io/gorm"
)

var ErrReviewNotFound = errors.New("review not found")

// RatingStats is the raw aggregate over reviews received by a user.
type RatingStats struct {
	Average float64
	Count   int64
}

type ReviewRepository interface {
	Create(db *gorm.DB, review *models.Review) error
	FindByID(db *gorm.DB, id string) (*models.Review, error)
	FindByJobReviewerReviewee(db *gorm.DB, jobID, reviewerID, revieweeID string) (*models.Review, error)
	FindByReviewee(db *gorm.DB, revieweeID string) ([]models.Review, error)
	FindByJob(db *gorm.DB, jobID string) ([]models.Review, error)
	// GetRatingStats recomputes from the full current review set, never
	// incrementally.
	GetRatingStats(db *gorm.DB, revieweeID string) (*RatingStats, error)
}

type ReviewRepositoryImpl struct{}

func NewReviewRepository() ReviewRepository {
	return &ReviewRepositoryImpl{}
}

func (r *ReviewRepositoryImpl) Create(db *gorm.DB, review *models.Review) error {
	return db.Create(review).Error
}

func (r *ReviewRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Review, error) {
	var review models.Review
	err := db.Preload("Reviewer").Preload("Reviewee").First(&review, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepositoryImpl) FindByJobReviewerReviewee(db *gorm.DB, jobID, reviewerID, revieweeID string) (*models.Review, error) {
	var review models.Review
	err := db.First(&review, "job_id = ? AND reviewer_id = ? AND reviewee_id = ?", jobID, reviewerID, revieweeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepositoryImpl) FindByReviewee(db *gorm.DB, revieweeID string) ([]models.Review, error) {
	var reviews []models.Review
	err := db.Preload("Reviewer").Preload("Job").
		Where("reviewee_id = ?", revieweeID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *ReviewRepositoryImpl) FindByJob(db *gorm.DB, jobID string) ([]models.Review, error) {
	var reviews []models.Review
	err := db.Preload("Reviewer").Preload("Reviewee").
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *ReviewRepositoryImpl) GetRatingStats(db *gorm.DB, revieweeID string) (*RatingStats, error) {
	var stats RatingStats

	err := db.Model(&models.Review{}).
		Where("reviewee_id = ?", revieweeID).
		Count(&stats.Count).Error
	if err != nil {
		return nil, err
	}

	if stats.Count == 0 {
		return &stats, nil
	}

	err = db.Model(&models.Review{}).
		Where("reviewee_id = ?", revieweeID).
		Select("AVG(rating)").
		Scan(&stats.Average).Error
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

package services

import (
	"fmt"
	"math"

	"slowork_backend/internal/models"
	"slowork_backend/internal/repositories"
	"slowork_backend/internal/services/dto"
	"slowork_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ReviewService interface {
	// CreateReview saves a review on a completed job and synchronously
	// recomputes the reviewee's aggregate rating. A repeated
	// (job, reviewer, reviewee) attempt is an informational no-op.
	CreateReview(db *gorm.DB, jobID, reviewerID, target string, req *dto.CreateReviewRequest) (*dto.ReviewResult, error)
	GetUserReviews(db *gorm.DB, userID string) ([]dto.ReviewResponse, error)
	GetJobReviews(db *gorm.DB, jobID string) ([]dto.ReviewResponse, error)
	GetUserRating(db *gorm.DB, userID string) (*dto.RatingResponse, error)

	// RecalculateUserRating recomputes rating_avg/rating_count from the
	// full current review set.
	RecalculateUserRating(db *gorm.DB, userID string) error
}

type reviewService struct {
	reviewRepo          repositories.ReviewRepository
	jobRepo             repositories.JobRepository
	userRepo            repositories.UserRepository
	applicationRepo     repositories.ApplicationRepository
	notificationService NotificationService
}

func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	jobRepo repositories.JobRepository,
	userRepo repositories.UserRepository,
	applicationRepo repositories.ApplicationRepository,
	notificationService NotificationService,
) ReviewService {
	return &reviewService{
		reviewRepo:          reviewRepo,
		jobRepo:             jobRepo,
		userRepo:            userRepo,
		applicationRepo:     applicationRepo,
		notificationService: notificationService,
	}
}

// ---------------- Review operations ----------------

func (s *reviewService) CreateReview(db *gorm.DB, jobID, reviewerID, target string, req *dto.CreateReviewRequest) (*dto.ReviewResult, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, apperrors.ValidationError(map[string]string{"rating": "must be between 1 and 5"})
	}

	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, err
	}

	if job.Status != models.JobStatusCompleted {
		return nil, apperrors.ErrInvalidOperation("review", "Reviews are available after a job is completed")
	}

	revieweeID, err := s.resolveReviewee(job, reviewerID, target)
	if err != nil {
		return nil, err
	}

	// Duplicate attempt on the same (job, reviewer, reviewee) triple is
	// reported as already-done, not as a failure.
	existing, err := s.reviewRepo.FindByJobReviewerReviewee(db, jobID, reviewerID, revieweeID)
	if err == nil {
		return &dto.ReviewResult{
			Review:          buildReviewResponse(existing),
			AlreadyReviewed: true,
		}, nil
	}
	if !apperrors.Is(err, repositories.ErrReviewNotFound) {
		return nil, err
	}

	review := &models.Review{
		JobID:      jobID,
		ReviewerID: reviewerID,
		RevieweeID: revieweeID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}

	// The write and the aggregate recompute are one unit of work.
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.reviewRepo.Create(tx, review); err != nil {
			return err
		}
		return s.RecalculateUserRating(tx, revieweeID)
	})
	if err != nil {
		return nil, err
	}

	reviewer, err := s.userRepo.FindByID(db, reviewerID)
	reviewerName := reviewerID
	if err == nil {
		reviewerName = reviewer.Name
	}
	emitNotification(db, s.notificationService, revieweeID,
		models.NotificationTypeReview,
		"New review received",
		fmt.Sprintf("%s left you a review on '%s'.", reviewerName, job.Title),
		"job", job.ID,
		map[string]interface{}{"job_id": job.ID, "review_id": review.ID},
	)

	return &dto.ReviewResult{Review: buildReviewResponse(review)}, nil
}

// resolveReviewee applies the direction rules: the employer reviews the
// selected freelancer, the selected freelancer reviews the employer.
func (s *reviewService) resolveReviewee(job *models.Job, reviewerID, target string) (string, error) {
	switch target {
	case dto.ReviewTargetFreelancer:
		if job.EmployerID != reviewerID {
			return "", apperrors.ErrPermissionDenied("review", "Only the employer can review the freelancer")
		}
		if job.SelectedApplication == nil {
			return "", apperrors.ErrInvalidOperation("review", "No freelancer selected for this job")
		}
		return job.SelectedApplication.FreelancerID, nil

	case dto.ReviewTargetEmployer:
		if job.SelectedApplication == nil || job.SelectedApplication.FreelancerID != reviewerID {
			return "", apperrors.ErrPermissionDenied("review", "You did not work on this job")
		}
		return job.EmployerID, nil
	}

	return "", apperrors.NewBadRequestError("Unknown review target: " + target)
}

func (s *reviewService) GetUserReviews(db *gorm.DB, userID string) ([]dto.ReviewResponse, error) {
	reviews, err := s.reviewRepo.FindByReviewee(db, userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, *buildReviewResponse(&reviews[i]))
	}
	return out, nil
}

func (s *reviewService) GetJobReviews(db *gorm.DB, jobID string) ([]dto.ReviewResponse, error) {
	reviews, err := s.reviewRepo.FindByJob(db, jobID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, *buildReviewResponse(&reviews[i]))
	}
	return out, nil
}

// ---------------- Rating operations ----------------

func (s *reviewService) GetUserRating(db *gorm.DB, userID string) (*dto.RatingResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, err
	}
	return &dto.RatingResponse{
		UserID:      user.ID,
		RatingAvg:   user.RatingAvg,
		RatingCount: user.RatingCount,
	}, nil
}

func (s *reviewService) RecalculateUserRating(db *gorm.DB, userID string) error {
	stats, err := s.reviewRepo.GetRatingStats(db, userID)
	if err != nil {
		return err
	}

	avg := 0.0
	if stats.Count > 0 {
		avg = roundHalfUp(stats.Average)
	}

	return s.userRepo.UpdateRating(db, userID, avg, int(stats.Count))
}

// roundHalfUp rounds to 2 decimal places, ties away from zero.
// Ratings are non-negative so this matches half-up.
func roundHalfUp(x float64) float64 {
	return math.Round(x*100) / 100
}

func buildReviewResponse(review *models.Review) *dto.ReviewResponse {
	resp := &dto.ReviewResponse{
		ID:         review.ID,
		JobID:      review.JobID,
		ReviewerID: review.ReviewerID,
		RevieweeID: review.RevieweeID,
		Rating:     review.Rating,
		Comment:    review.Comment,
		CreatedAt:  review.CreatedAt,
	}
	if review.Reviewer.ID != "" {
		resp.ReviewerName = review.Reviewer.Name
	}
	return resp
}

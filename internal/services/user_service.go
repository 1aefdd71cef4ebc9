package services

import (
	"slowork_backend/internal/models"
	"slowork_backend/internal/repositories"
	"slowork_backend/internal/services/dto"
	"slowork_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type UserService struct {
	userRepo   repositories.UserRepository
	reviewRepo repositories.ReviewRepository
}

func NewUserService(userRepo repositories.UserRepository, reviewRepo repositories.ReviewRepository) *UserService {
	return &UserService{userRepo: userRepo, reviewRepo: reviewRepo}
}

func (s *UserService) GetUser(db *gorm.DB, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, err
	}
	return buildUserResponse(user), nil
}

// GetPublicProfile returns the user together with the reviews they
// received. The rating fields on the user are the derived aggregate.
func (s *UserService) GetPublicProfile(db *gorm.DB, userID string) (*dto.PublicProfileResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, err
	}

	reviews, err := s.reviewRepo.FindByReviewee(db, userID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, *buildReviewResponse(&reviews[i]))
	}

	return &dto.PublicProfileResponse{
		User:    *buildUserResponse(user),
		Reviews: out,
	}, nil
}

func (s *UserService) UpdateProfile(db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.LocationCity != nil {
		user.LocationCity = req.LocationCity
	}

	if err := s.userRepo.Update(db, user); err != nil {
		return nil, err
	}
	return buildUserResponse(user), nil
}

func buildUserResponse(user *models.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		Name:         user.Name,
		Role:         string(user.Role),
		Phone:        user.Phone,
		LocationCity: user.LocationCity,
		RatingAvg:    user.RatingAvg,
		RatingCount:  user.RatingCount,
		CreatedAt:    user.CreatedAt,
	}
}

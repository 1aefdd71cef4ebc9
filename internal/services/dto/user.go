package dto

import "time"

type UserResponse struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Phone        *string   `json:"phone,omitempty"`
	LocationCity *string   `json:"location_city,omitempty"`
	RatingAvg    float64   `json:"rating_avg"`
	RatingCount  int       `json:"rating_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type UpdateProfileRequest struct {
	Name         *string `json:"name"`
	Phone        *string `json:"phone"`
	LocationCity *string `json:"location_city"`
}

// PublicProfileResponse is the profile page payload: identity, derived
// rating and the reviews received.
type PublicProfileResponse struct {
	User    UserResponse     `json:"user"`
	Reviews []ReviewResponse `json:"reviews"`
}

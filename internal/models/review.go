package models

type Review struct {
	BaseModel
	JobID      string `gorm:"not null;index;uniqueIndex:idx_reviews_job_reviewer_reviewee"`
	ReviewerID string `gorm:"not null;index;uniqueIndex:idx_reviews_job_reviewer_reviewee"`
	RevieweeID string `gorm:"not null;index;uniqueIndex:idx_reviews_job_reviewer_reviewee"`
	Rating     int    `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment    *string

	// Relations
	Job      Job  `gorm:"foreignKey:JobID"`
	Reviewer User `gorm:"foreignKey:ReviewerID"`
	Reviewee User `gorm:"foreignKey:RevieweeID"`
}

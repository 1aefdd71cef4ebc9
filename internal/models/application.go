package models

type Application struct {
	BaseModel
	JobID          string `gorm:"not null;index;uniqueIndex:idx_applications_job_freelancer"`
	FreelancerID   string `gorm:"not null;index;uniqueIndex:idx_applications_job_freelancer"`
	CoverMessage   *string
	ProposedBudget float64           `gorm:"type:decimal(10,2);not null"`
	ProposedDays   int               `gorm:"not null"`
	Status         ApplicationStatus `gorm:"type:varchar(20);not null;default:'pending'"`

	// Relations
	Job        Job  `gorm:"foreignKey:JobID"`
	Freelancer User `gorm:"foreignKey:FreelancerID"`
}

package models

import "time"

type Job struct {
	BaseModel
	EmployerID   string `gorm:"not null;index"`
	CategoryID   string `gorm:"not null;index"`
	Title        string `gorm:"not null"`
	Description  string
	BudgetMin    float64 `gorm:"type:decimal(10,2);not null"`
	BudgetMax    float64 `gorm:"type:decimal(10,2);not null"`
	LocationCity *string
	DeadlineDate *time.Time
	Status       JobStatus `gorm:"type:varchar(20);not null;default:'open'"`

	// Set only when an application is accepted; must reference an
	// accepted application of this job.
	SelectedApplicationID *string `gorm:"index"`

	// Relations
	Employer            User         `gorm:"foreignKey:EmployerID"`
	Category            JobCategory  `gorm:"foreignKey:CategoryID"`
	SelectedApplication *Application `gorm:"foreignKey:SelectedApplicationID"`
}

package models

type WorkSubmission struct {
	BaseModel
	ApplicationID string `gorm:"not null;index"`
	// JobID is carried redundantly so employer-side queries do not
	// have to join through applications.
	JobID               string `gorm:"not null;index"`
	FreelancerID        string `gorm:"not null;index"`
	TextNotes           *string
	Status              SubmissionStatus `gorm:"type:varchar(20);not null;default:'submitted'"`
	ChangeRequestReason *string

	// Relations
	Application Application      `gorm:"foreignKey:ApplicationID"`
	Job         Job              `gorm:"foreignKey:JobID"`
	Freelancer  User             `gorm:"foreignKey:FreelancerID"`
	Files       []SubmissionFile `gorm:"foreignKey:SubmissionID"`
}

type SubmissionFile struct {
	BaseModel
	SubmissionID string `gorm:"not null;index"`
	OriginalName string `gorm:"not null"`
	MimeType     string
	SizeBytes    int64
	FilePath     string `gorm:"not null"` // storage key
	FileURL      string
}

package models

type User struct {
	BaseModel
	Email        string   `gorm:"uniqueIndex;not null"`
	PasswordHash string   `gorm:"not null"`
	Name         string   `gorm:"not null"`
	Role         UserRole `gorm:"type:varchar(20);not null"`
	Phone        *string
	LocationCity *string

	// Derived fields, written only by the rating recompute.
	RatingAvg   float64 `gorm:"type:decimal(3,2);default:0"`
	RatingCount int     `gorm:"default:0"`
}

package repositories

import (
	"errors"

	"slowork_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryInUse    = errors.New("category is referenced by existing jobs")
)

type CategoryRepository interface {
	Create(db *gorm.DB, category *models.JobCategory) error
	FindByID(db *gorm.DB, id string) (*models.JobCategory, error)
	FindAll(db *gorm.DB) ([]models.JobCategory, error)
	SlugExists(db *gorm.DB, slug string) (bool, error)
	Update(db *gorm.DB, category *models.JobCategory) error
	Delete(db *gorm.DB, id string) error
	CountJobs(db *gorm.DB, categoryID string) (int64, error)
}

type CategoryRepositoryImpl struct{}

func NewCategoryRepository() CategoryRepository {
	return &CategoryRepositoryImpl{}
}

func (r *CategoryRepositoryImpl) Create(db *gorm.DB, category *models.JobCategory) error {
	return db.Create(category).Error
}

func (r *CategoryRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.JobCategory, error) {
	var category models.JobCategory
	err := db.First(&category, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepositoryImpl) FindAll(db *gorm.DB) ([]models.JobCategory, error) {
	var categories []models.JobCategory
	err := db.Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *CategoryRepositoryImpl) SlugExists(db *gorm.DB, slug string) (bool, error) {
	var count int64
	err := db.Model(&models.JobCategory{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (r *CategoryRepositoryImpl) Update(db *gorm.DB, category *models.JobCategory) error {
	return db.Save(category).Error
}

func (r *CategoryRepositoryImpl) Delete(db *gorm.DB, id string) error {
	result := db.Delete(&models.JobCategory{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepositoryImpl) CountJobs(db *gorm.DB, categoryID string) (int64, error) {
	var count int64
	err := db.Model(&models.Job{}).Where("category_id = ?", categoryID).Count(&count).Error
	return count, err
}

package services

import (
	"fmt"
	"regexp"
	"strings"

	"slowork_backend/internal/models"
	"slowork_backend/internal/repositories"
	"slowork_backend/internal/services/dto"
	"slowork_backend/pkg/apperrors"

	"gorm.io/gorm"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

type CategoryService struct {
	categoryRepo repositories.CategoryRepository
}

func NewCategoryService(categoryRepo repositories.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

func (s *CategoryService) CreateCategory(db *gorm.DB, req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.ValidationError(map[string]string{"name": "name is required"})
	}

	slug, err := s.uniqueSlug(db, name)
	if err != nil {
		return nil, err
	}

	category := &models.JobCategory{Name: name, Slug: slug}
	if err := s.categoryRepo.Create(db, category); err != nil {
		return nil, err
	}
	return buildCategoryResponse(category), nil
}

func (s *CategoryService) GetCategory(db *gorm.DB, id string) (*dto.CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(db, id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, err
	}
	return buildCategoryResponse(category), nil
}

func (s *CategoryService) ListCategories(db *gorm.DB) ([]dto.CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(db)
	if err != nil {
		return nil, err
	}

	out := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, *buildCategoryResponse(&categories[i]))
	}
	return out, nil
}

// UpdateCategory renames a category. The slug follows the new name.
func (s *CategoryService) UpdateCategory(db *gorm.DB, id string, req *dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(db, id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.ValidationError(map[string]string{"name": "name is required"})
	}

	if name != category.Name {
		slug, err := s.uniqueSlug(db, name)
		if err != nil {
			return nil, err
		}
		category.Name = name
		category.Slug = slug
		if err := s.categoryRepo.Update(db, category); err != nil {
			return nil, err
		}
	}
	return buildCategoryResponse(category), nil
}

// DeleteCategory refuses while jobs still reference the category.
func (s *CategoryService) DeleteCategory(db *gorm.DB, id string) error {
	if _, err := s.categoryRepo.FindByID(db, id); err != nil {
		if apperrors.Is(err, repositories.ErrCategoryNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return err
	}

	count, err := s.categoryRepo.CountJobs(db, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.ErrConflict(repositories.ErrCategoryInUse, "category",
			"Category is referenced by existing jobs")
	}

	return s.categoryRepo.Delete(db, id)
}

// uniqueSlug normalizes the name and appends a numeric suffix until the
// slug is free: "web-design", "web-design-2", "web-design-3", ...
func (s *CategoryService) uniqueSlug(db *gorm.DB, name string) (string, error) {
	base := slugify(name)
	if base == "" {
		base = "category"
	}

	slug := base
	for i := 2; ; i++ {
		exists, err := s.categoryRepo.SlugExists(db, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func slugify(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	return strings.Trim(slugPattern.ReplaceAllString(lower, "-"), "-")
}

func buildCategoryResponse(category *models.JobCategory) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:   category.ID,
		Name: category.Name,
		Slug: category.Slug,
	}
}

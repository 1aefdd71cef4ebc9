package services

import (
	"testing"

	"slowork_backend/internal/models"
	"slowork_backend/internal/repositories"
	"slowork_backend/internal/services/dto"
	"slowork_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Web Design", "web-design"},
		{"  Web   Design  ", "web-design"},
		{"C++ & Systems", "c-systems"},
		{"Déjà Vu", "d-j-vu"},
		{"---", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, slugify(tc.name), "slugify(%q)", tc.name)
	}
}

func TestCreateCategory_SlugCollisionGetsSuffix(t *testing.T) {
	tx := testDB(t)
	svc := NewCategoryService(repositories.NewCategoryRepository())

	first, err := svc.CreateCategory(tx, &dto.CreateCategoryRequest{Name: "Web Design"})
	require.NoError(t, err)
	assert.Equal(t, "web-design", first.Slug)

	second, err := svc.CreateCategory(tx, &dto.CreateCategoryRequest{Name: "Web design"})
	require.NoError(t, err)
	assert.Equal(t, "web-design-2", second.Slug)

	third, err := svc.CreateCategory(tx, &dto.CreateCategoryRequest{Name: "WEB DESIGN"})
	require.NoError(t, err)
	assert.Equal(t, "web-design-3", third.Slug)
}

func TestDeleteCategory_RefusedWhileInUse(t *testing.T) {
	tx := testDB(t)
	svc := NewCategoryService(repositories.NewCategoryRepository())

	employer := createTestUser(t, tx, "Employer", models.UserRoleEmployer)
	job := createTestJob(t, tx, employer.ID, models.JobStatusOpen)

	err := svc.DeleteCategory(tx, job.CategoryID)
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)

	// Once the job is gone the category can be deleted.
	require.NoError(t, tx.Delete(&models.Job{}, "id = ?", job.ID).Error)
	require.NoError(t, svc.DeleteCategory(tx, job.CategoryID))
}

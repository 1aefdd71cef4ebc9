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

func newJobService() *JobService {
	return NewJobService(
		repositories.NewJobRepository(),
		repositories.NewCategoryRepository(),
		repositories.NewUserRepository(),
		repositories.NewApplicationRepository(),
		NewNotificationService(repositories.NewNotificationRepository()),
	)
}

func TestCreateJob_StartsOpen(t *testing.T) {
	tx := testDB(t)
	svc := newJobService()

	employer := createTestUser(t, tx, "employer", models.UserRoleEmployer)
	category := createTestCategory(t, tx)

	job, err := svc.CreateJob(tx, employer.ID, &dto.CreateJobRequest{
		CategoryID:  category.ID,
		Title:       "Build a landing page",
		Description: "One page, responsive.",
		BudgetMin:   100,
		BudgetMax:   500,
	})
	require.NoError(t, err)
	assert.Equal(t, string(models.JobStatusOpen), job.Status)
	assert.Equal(t, employer.ID, job.EmployerID)
	require.NotNil(t, job.Category)
	assert.Equal(t, category.ID, job.Category.ID)
}

func TestCreateJob_FreelancerForbidden(t *testing.T) {
	tx := testDB(t)
	svc := newJobService()

	freelancer := createTestUser(t, tx, "freelancer", models.UserRoleFreelancer)
	category := createTestCategory(t, tx)

	_, err := svc.CreateJob(tx, freelancer.ID, &dto.CreateJobRequest{
		CategoryID:  category.ID,
		Title:       "Not allowed",
		Description: "x",
		BudgetMin:   1,
		BudgetMax:   2,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)
}

func TestCreateJob_BudgetMaxBelowMin(t *testing.T) {
	tx := testDB(t)
	svc := newJobService()

	employer := createTestUser(t, tx, "employer", models.UserRoleEmployer)
	category := createTestCategory(t, tx)

	_, err := svc.CreateJob(tx, employer.ID, &dto.CreateJobRequest{
		CategoryID:  category.ID,
		Title:       "Backwards budget",
		Description: "x",
		BudgetMin:   500,
		BudgetMax:   100,
	})
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)
}

func TestUpdateJob_FrozenAfterAssignment(t *testing.T) {
	tx := testDB(t)
	svc := newJobService()

	employer := createTestUser(t, tx, "employer", models.UserRoleEmployer)
	freelancer := createTestUser(t, tx, "freelancer", models.UserRoleFreelancer)
	job := createTestJob(t, tx, employer.ID, models.JobStatusOpen)
	application := createTestApplication(t, tx, job.ID, freelancer.ID, models.ApplicationStatusAccepted)
	assignJob(t, tx, job, application)

	newTitle := "Changed terms"
	_, err := svc.UpdateJob(tx, job.ID, employer.ID, &dto.UpdateJobRequest{Title: &newTitle})
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeInvalidOperation, appErr.Code)
}

func TestMarkCompleted_NotifiesSelectedFreelancer(t *testing.T) {
	tx := testDB(t)
	svc := newJobService()

	employer := createTestUser(t, tx, "employer", models.UserRoleEmployer)
	freelancer := createTestUser(t, tx, "freelancer", models.UserRoleFreelancer)
	job := createTestJob(t, tx, employer.ID, models.JobStatusOpen)
	application := createTestApplication(t, tx, job.ID, freelancer.ID, models.ApplicationStatusAccepted)
	assignJob(t, tx, job, application)

	resp, err := svc.MarkCompleted(tx, job.ID, employer.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.JobStatusCompleted), resp.Status)

	var notes int64
	tx.Model(&models.Notification{}).Where("user_id = ?", freelancer.ID).Count(&notes)
	assert.Equal(t, int64(1), notes)
}

func TestMarkCompleted_OpenJobRejected(t *testing.T) {
	tx := testDB(t)
	svc := newJobService()

	employer := createTestUser(t, tx, "employer", models.UserRoleEmployer)
	job := createTestJob(t, tx, employer.ID, models.JobStatusOpen)

	_, err := svc.MarkCompleted(tx, job.ID, employer.ID)
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeInvalidOperation, appErr.Code)
}

func TestCancelJob_TerminalJobRejected(t *testing.T) {
	tx := testDB(t)
	svc := newJobService()

	employer := createTestUser(t, tx, "employer", models.UserRoleEmployer)
	job := createTestJob(t, tx, employer.ID, models.JobStatusCompleted)

	_, err := svc.CancelJob(tx, job.ID, employer.ID)
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeInvalidOperation, appErr.Code)
}

func TestDeleteJob_OnlyOwnerAndOnlyOpen(t *testing.T) {
	tx := testDB(t)
	svc := newJobService()

	employer := createTestUser(t, tx, "employer", models.UserRoleEmployer)
	other := createTestUser(t, tx, "other", models.UserRoleEmployer)
	job := createTestJob(t, tx, employer.ID, models.JobStatusOpen)

	err := svc.DeleteJob(tx, job.ID, other.ID)
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeForbidden, appErr.Code)

	require.NoError(t, svc.DeleteJob(tx, job.ID, employer.ID))

	_, err = svc.GetJob(tx, job.ID)
	require.Error(t, err)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

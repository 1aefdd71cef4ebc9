package services

import (
	"testing"

	"slowork_backend/internal/models"
	"slowork_backend/internal/services/dto"
	"slowork_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply_CreatesPendingApplication(t *testing.T) {
	tx := testDB(t)
	svc := newTestServices(t)

	employer := createTestUser(t, tx, "employer", models.UserRoleEmployer)
	freelancer := createTestUser(t, tx, "freelancer", models.UserRoleFreelancer)
	job := createTestJob(t, tx, employer.ID, models.JobStatusOpen)

	result, err := svc.applicationService.Apply(tx, job.ID, freelancer.ID, &dto.ApplyRequest{
		ProposedBudget: 250,
		ProposedDays:   10,
	})
	require.NoError(t, err)
	require.NotNil(t, result.Application)
	assert.False(t, result.AlreadyApplied)
	assert.Equal(t, string(models.ApplicationStatusPending), result.Application.Status)

	// The employer gets an apply notification.
	var count int64
	tx.Model(&models.Notification{}).Where("user_id = ? AND type = ?", employer.ID, models.NotificationTypeApply).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestApply_DuplicateIsInformationalNoOp(t *testing.T) {
	tx := testDB(t)
	svc := newTestServices(t)

	employer := createTestUser(t, tx, "employer", models.UserRoleEmployer)
	freelancer := createTestUser(t, tx, "freelancer", models.UserRoleFreelancer)
	job := createTestJob(t, tx, employer.ID, models.JobStatusOpen)

	first, err := svc.applicationService.Apply(tx, job.ID, freelancer.ID, &dto.ApplyRequest{ProposedBudget: 250, ProposedDays: 10})
	require.NoError(t, err)

	second, err := svc.applicationService.Apply(tx, job.ID, freelancer.ID, &dto.ApplyRequest{ProposedBudget: 300, ProposedDays: 5})
	require.NoError(t, err)
	assert.True(t, second.AlreadyApplied)
	assert.Equal(t, first.Application.ID, second.Application.ID)

	var count int64
	tx.Model(&models.Application{}).Where("job_id = ?", job.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestApply_OwnJobRejected(t *testing.T) {
	tx := testDB(t)
	svc := newTestServices(t)

	employer := createTestUser(t, tx, "employer", models.UserRoleEmployer)
	job := createTestJob(t, tx, employer.ID, models.JobStatusOpen)

	// Give the employer a freelancer row to rule out the role check
	// masking the self-apply rule.
	employer.Role = models.UserRoleFreelancer
	require.NoError(t, tx.Save(employer).Error)

	_, err := svc.applicationService.Apply(tx, job.ID, employer.ID, &dto.ApplyRequest{ProposedBudget: 100, ProposedDays: 3})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrSelfApplication)
}

func TestApply_ClosedJobRejected(t *testing.T) {
	tx := testDB(t)
	svc := newTestServices(t)

	employer := createTestUser(t, tx, "employer", models.UserRoleEmployer)
	freelancer := createTestUser(t, tx, "freelancer", models.UserRoleFreelancer)
	job := createTestJob(t, tx, employer.ID, models.JobStatusAssigned)

	_, err := svc.applicationService.Apply(tx, job.ID, freelancer.ID, &dto.ApplyRequest{ProposedBudget: 100, ProposedDays: 3})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrJobNotOpen)
}

func TestAccept_SingleWinner(t *testing.T) {
	tx := testDB(t)
	svc := newTestServices(t)

	employer := createTestUser(t, tx, "employer", models.UserRoleEmployer)
	winner := createTestUser(t, tx, "winner", models.UserRoleFreelancer)
	loser := createTestUser(t, tx, "loser", models.UserRoleFreelancer)
	job := createTestJob(t, tx, employer.ID, models.JobStatusOpen)

	winning := createTestApplication(t, tx, job.ID, winner.ID, models.ApplicationStatusPending)
	losing := createTestApplication(t, tx, job.ID, loser.ID, models.ApplicationStatusPending)

	require.NoError(t, svc.applicationService.Accept(tx, winning.ID, employer.ID))

	var reloadedJob models.Job
	require.NoError(t, tx.First(&reloadedJob, "id = ?", job.ID).Error)
	assert.Equal(t, models.JobStatusAssigned, reloadedJob.Status)
	require.NotNil(t, reloadedJob.SelectedApplicationID)
	assert.Equal(t, winning.ID, *reloadedJob.SelectedApplicationID)

	var reloadedWinner, reloadedLoser models.Application
	require.NoError(t, tx.First(&reloadedWinner, "id = ?", winning.ID).Error)
	require.NoError(t, tx.First(&reloadedLoser, "id = ?", losing.ID).Error)
	assert.Equal(t, models.ApplicationStatusAccepted, reloadedWinner.Status)
	assert.Equal(t, models.ApplicationStatusRejected, reloadedLoser.Status)

	// The winner is notified; the bulk sibling reject is silent.
	var winnerNotes, loserNotes int64
	tx.Model(&models.Notification{}).Where("user_id = ?", winner.ID).Count(&winnerNotes)
	tx.Model(&models.Notification{}).Where("user_id = ?", loser.ID).Count(&loserNotes)
	assert.Equal(t, int64(1), winnerNotes)
	assert.Equal(t, int64(0), loserNotes)
}

func TestAccept_SecondAcceptFails(t *testing.T) {
	tx := testDB(t)
	svc := newTestServices(t)

	employer := createTestUser(t, tx, "employer", models.UserRoleEmployer)
	first := createTestUser(t, tx, "first", models.UserRoleFreelancer)
	second := createTestUser(t, tx, "second", models.UserRoleFreelancer)
	job := createTestJob(t, tx, employer.ID, models.JobStatusOpen)

	firstApp := createTestApplication(t, tx, job.ID, first.ID, models.ApplicationStatusPending)
	secondApp := createTestApplication(t, tx, job.ID, second.ID, models.ApplicationStatusPending)

	require.NoError(t, svc.applicationService.Accept(tx, firstApp.ID, employer.ID))

	err := svc.applicationService.Accept(tx, secondApp.ID, employer.ID)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeInvalidOperation, appErr.Code)

	// The winner is unchanged.
	var reloadedJob models.Job
	require.NoError(t, tx.First(&reloadedJob, "id = ?", job.ID).Error)
	require.NotNil(t, reloadedJob.SelectedApplicationID)
	assert.Equal(t, firstApp.ID, *reloadedJob.SelectedApplicationID)
}

func TestAccept_OnlyJobOwner(t *testing.T) {
	tx := testDB(t)
	svc := newTestServices(t)

	employer := createTestUser(t, tx, "employer", models.UserRoleEmployer)
	other := createTestUser(t, tx, "other", models.UserRoleEmployer)
	freelancer := createTestUser(t, tx, "freelancer", models.UserRoleFreelancer)
	job := createTestJob(t, tx, employer.ID, models.JobStatusOpen)
	application := createTestApplication(t, tx, job.ID, freelancer.ID, models.ApplicationStatusPending)

	err := svc.applicationService.Accept(tx, application.ID, other.ID)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeForbidden, appErr.Code)
}

func TestReject_LeavesJobOpen(t *testing.T) {
	tx := testDB(t)
	svc := newTestServices(t)

	employer := createTestUser(t, tx, "employer", models.UserRoleEmployer)
	freelancer := createTestUser(t, tx, "freelancer", models.UserRoleFreelancer)
	job := createTestJob(t, tx, employer.ID, models.JobStatusOpen)
	application := createTestApplication(t, tx, job.ID, freelancer.ID, models.ApplicationStatusPending)

	require.NoError(t, svc.applicationService.Reject(tx, application.ID, employer.ID))

	var reloadedJob models.Job
	require.NoError(t, tx.First(&reloadedJob, "id = ?", job.ID).Error)
	assert.Equal(t, models.JobStatusOpen, reloadedJob.Status)

	var reloaded models.Application
	require.NoError(t, tx.First(&reloaded, "id = ?", application.ID).Error)
	assert.Equal(t, models.ApplicationStatusRejected, reloaded.Status)
}

func TestReject_DecidedApplicationIsNotOverwritten(t *testing.T) {
	tx := testDB(t)
	svc := newTestServices(t)

	employer := createTestUser(t, tx, "employer", models.UserRoleEmployer)
	winner := createTestUser(t, tx, "winner", models.UserRoleFreelancer)
	job := createTestJob(t, tx, employer.ID, models.JobStatusOpen)
	application := createTestApplication(t, tx, job.ID, winner.ID, models.ApplicationStatusPending)

	require.NoError(t, svc.applicationService.Accept(tx, application.ID, employer.ID))

	// A stale Reject arriving after the accept must not flip the winner.
	err := svc.applicationService.Reject(tx, application.ID, employer.ID)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeInvalidOperation, appErr.Code)

	var reloaded models.Application
	require.NoError(t, tx.First(&reloaded, "id = ?", application.ID).Error)
	assert.Equal(t, models.ApplicationStatusAccepted, reloaded.Status)

	// Rejecting twice reports the same way.
	other := createTestUser(t, tx, "other", models.UserRoleFreelancer)
	otherJob := createTestJob(t, tx, employer.ID, models.JobStatusOpen)
	otherApp := createTestApplication(t, tx, otherJob.ID, other.ID, models.ApplicationStatusPending)
	require.NoError(t, svc.applicationService.Reject(tx, otherApp.ID, employer.ID))
	err = svc.applicationService.Reject(tx, otherApp.ID, employer.ID)
	require.Error(t, err)
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeInvalidOperation, appErr.Code)
}

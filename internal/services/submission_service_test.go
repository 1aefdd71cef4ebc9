package services

import (
	"context"
	"strings"
	"testing"

	"slowork_backend/internal/models"
	"slowork_backend/internal/services/dto"
	"slowork_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func fileInput(name, mime, content string) dto.SubmissionFileInput {
	return dto.SubmissionFileInput{
		OriginalName: name,
		MimeType:     mime,
		SizeBytes:    int64(len(content)),
		Content:      strings.NewReader(content),
	}
}

func acceptedApplication(t *testing.T, tx *gorm.DB) (employerID, freelancerID, jobID, applicationID string) {
	t.Helper()
	employer := createTestUser(t, tx, "employer", models.UserRoleEmployer)
	freelancer := createTestUser(t, tx, "freelancer", models.UserRoleFreelancer)
	job := createTestJob(t, tx, employer.ID, models.JobStatusOpen)
	application := createTestApplication(t, tx, job.ID, freelancer.ID, models.ApplicationStatusAccepted)
	assignJob(t, tx, job, application)
	return employer.ID, freelancer.ID, job.ID, application.ID
}

func TestSubmit_MovesJobToSubmitted(t *testing.T) {
	tx := testDB(t)
	svc := newTestServices(t)

	employerID, freelancerID, jobID, applicationID := acceptedApplication(t, tx)

	notes := "first version, see attached files"
	result, err := svc.submissionService.Submit(context.Background(), tx, applicationID, freelancerID, &dto.SubmitWorkRequest{
		TextNotes: &notes,
		Files: []dto.SubmissionFileInput{
			fileInput("report.pdf", "application/pdf", "pdf-bytes"),
			fileInput("mockup.png", "image/png", "png-bytes"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, string(models.SubmissionStatusSubmitted), result.Status)
	assert.Len(t, result.Files, 2)

	var reloadedJob models.Job
	require.NoError(t, tx.First(&reloadedJob, "id = ?", jobID).Error)
	assert.Equal(t, models.JobStatusSubmitted, reloadedJob.Status)

	var count int64
	tx.Model(&models.Notification{}).Where("user_id = ?", employerID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSubmit_RequiresAcceptedApplication(t *testing.T) {
	tx := testDB(t)
	svc := newTestServices(t)

	employer := createTestUser(t, tx, "employer", models.UserRoleEmployer)
	freelancer := createTestUser(t, tx, "freelancer", models.UserRoleFreelancer)
	job := createTestJob(t, tx, employer.ID, models.JobStatusOpen)
	application := createTestApplication(t, tx, job.ID, freelancer.ID, models.ApplicationStatusPending)

	_, err := svc.submissionService.Submit(context.Background(), tx, application.ID, freelancer.ID, &dto.SubmitWorkRequest{})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeInvalidOperation, appErr.Code)
}

func TestSubmit_RejectsOversizeFileBeforePersisting(t *testing.T) {
	tx := testDB(t)
	svc := newTestServices(t)

	_, freelancerID, _, applicationID := acceptedApplication(t, tx)

	_, err := svc.submissionService.Submit(context.Background(), tx, applicationID, freelancerID, &dto.SubmitWorkRequest{
		Files: []dto.SubmissionFileInput{
			fileInput("small.pdf", "application/pdf", "ok"),
			{OriginalName: "huge.zip", MimeType: "application/zip", SizeBytes: 6 * 1024 * 1024, Content: strings.NewReader("")},
		},
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)

	// All-or-nothing: the valid sibling file is not stored either.
	var count int64
	tx.Model(&models.WorkSubmission{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestSubmit_RejectsDisallowedExtension(t *testing.T) {
	tx := testDB(t)
	svc := newTestServices(t)

	_, freelancerID, _, applicationID := acceptedApplication(t, tx)

	_, err := svc.submissionService.Submit(context.Background(), tx, applicationID, freelancerID, &dto.SubmitWorkRequest{
		Files: []dto.SubmissionFileInput{fileInput("malware.exe", "application/octet-stream", "nope")},
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)
}

func TestSubmit_OnlyApplicationOwner(t *testing.T) {
	tx := testDB(t)
	svc := newTestServices(t)

	_, _, _, applicationID := acceptedApplication(t, tx)
	intruder := createTestUser(t, tx, "intruder", models.UserRoleFreelancer)

	_, err := svc.submissionService.Submit(context.Background(), tx, applicationID, intruder.ID, &dto.SubmitWorkRequest{})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeForbidden, appErr.Code)
}

func TestRequestChangesThenResubmit(t *testing.T) {
	tx := testDB(t)
	svc := newTestServices(t)

	employerID, freelancerID, jobID, applicationID := acceptedApplication(t, tx)

	first, err := svc.submissionService.Submit(context.Background(), tx, applicationID, freelancerID, &dto.SubmitWorkRequest{})
	require.NoError(t, err)

	changed, err := svc.submissionService.RequestChanges(tx, first.ID, employerID, &dto.RequestChangesRequest{Reason: "Wrong color scheme"})
	require.NoError(t, err)
	assert.Equal(t, string(models.SubmissionStatusChangesRequested), changed.Status)
	require.NotNil(t, changed.ChangeRequestReason)
	assert.Equal(t, "Wrong color scheme", *changed.ChangeRequestReason)

	var reloadedJob models.Job
	require.NoError(t, tx.First(&reloadedJob, "id = ?", jobID).Error)
	assert.Equal(t, models.JobStatusInProgress, reloadedJob.Status)

	// The next submission is a resubmission.
	second, err := svc.submissionService.Submit(context.Background(), tx, applicationID, freelancerID, &dto.SubmitWorkRequest{})
	require.NoError(t, err)
	assert.Equal(t, string(models.SubmissionStatusResubmitted), second.Status)

	require.NoError(t, tx.First(&reloadedJob, "id = ?", jobID).Error)
	assert.Equal(t, models.JobStatusSubmitted, reloadedJob.Status)
}

func TestRequestChanges_RequiresReason(t *testing.T) {
	tx := testDB(t)
	svc := newTestServices(t)

	employerID, freelancerID, _, applicationID := acceptedApplication(t, tx)

	submission, err := svc.submissionService.Submit(context.Background(), tx, applicationID, freelancerID, &dto.SubmitWorkRequest{})
	require.NoError(t, err)

	_, err = svc.submissionService.RequestChanges(tx, submission.ID, employerID, &dto.RequestChangesRequest{Reason: "   "})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)
}

func TestApprove_CompletesJobAndClearsReason(t *testing.T) {
	tx := testDB(t)
	svc := newTestServices(t)

	employerID, freelancerID, jobID, applicationID := acceptedApplication(t, tx)

	first, err := svc.submissionService.Submit(context.Background(), tx, applicationID, freelancerID, &dto.SubmitWorkRequest{})
	require.NoError(t, err)
	_, err = svc.submissionService.RequestChanges(tx, first.ID, employerID, &dto.RequestChangesRequest{Reason: "tweak"})
	require.NoError(t, err)

	second, err := svc.submissionService.Submit(context.Background(), tx, applicationID, freelancerID, &dto.SubmitWorkRequest{})
	require.NoError(t, err)

	approved, err := svc.submissionService.Approve(tx, second.ID, employerID)
	require.NoError(t, err)
	assert.Equal(t, string(models.SubmissionStatusApproved), approved.Status)
	assert.Nil(t, approved.ChangeRequestReason)

	var reloadedJob models.Job
	require.NoError(t, tx.First(&reloadedJob, "id = ?", jobID).Error)
	assert.Equal(t, models.JobStatusCompleted, reloadedJob.Status)
}

func TestApprove_OnlyAwaitingDecision(t *testing.T) {
	tx := testDB(t)
	svc := newTestServices(t)

	employerID, freelancerID, _, applicationID := acceptedApplication(t, tx)

	submission, err := svc.submissionService.Submit(context.Background(), tx, applicationID, freelancerID, &dto.SubmitWorkRequest{})
	require.NoError(t, err)

	_, err = svc.submissionService.Approve(tx, submission.ID, employerID)
	require.NoError(t, err)

	// Approving again is an invalid state transition.
	_, err = svc.submissionService.Approve(tx, submission.ID, employerID)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeInvalidOperation, appErr.Code)
}

package services

import (
	"errors"
	"testing"

	"slowork_backend/internal/models"
	"slowork_backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// failingNotificationRepo rejects writes for one recipient and records
// the rest. Only Create is reachable from NotifyMany.
type failingNotificationRepo struct {
	repositories.NotificationRepository
	failFor string
	created []string
}

func (r *failingNotificationRepo) Create(db *gorm.DB, n *models.Notification) error {
	if n.UserID == r.failFor {
		return errors.New("insert failed")
	}
	r.created = append(r.created, n.UserID)
	return nil
}

func TestNotifyMany_FailedRecipientDoesNotBlockRest(t *testing.T) {
	repo := &failingNotificationRepo{failFor: "user-2"}
	svc := NewNotificationService(repo)

	err := svc.NotifyMany(nil, []string{"user-1", "user-2", "user-3"},
		models.NotificationTypeSystem,
		"Maintenance window",
		"The platform will be briefly unavailable tonight.",
		"", "", nil,
	)

	// The failure is reported, but every other recipient got their row.
	require.Error(t, err)
	assert.Equal(t, []string{"user-1", "user-3"}, repo.created)
}

func TestNotifyMany_AllRecipientsCreated(t *testing.T) {
	repo := &failingNotificationRepo{}
	svc := NewNotificationService(repo)

	err := svc.NotifyMany(nil, []string{"user-1", "user-2"},
		models.NotificationTypeSystem,
		"Maintenance window",
		"Short downtime expected.",
		"", "", nil,
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"user-1", "user-2"}, repo.created)
}

func TestCancelJob_NotifiesPendingApplicants(t *testing.T) {
	tx := testDB(t)
	svc := newJobService()

	employer := createTestUser(t, tx, "employer", models.UserRoleEmployer)
	first := createTestUser(t, tx, "first", models.UserRoleFreelancer)
	second := createTestUser(t, tx, "second", models.UserRoleFreelancer)
	job := createTestJob(t, tx, employer.ID, models.JobStatusOpen)
	createTestApplication(t, tx, job.ID, first.ID, models.ApplicationStatusPending)
	createTestApplication(t, tx, job.ID, second.ID, models.ApplicationStatusPending)

	resp, err := svc.CancelJob(tx, job.ID, employer.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.JobStatusCancelled), resp.Status)

	for _, freelancer := range []*models.User{first, second} {
		var notes int64
		tx.Model(&models.Notification{}).
			Where("user_id = ? AND title = ?", freelancer.ID, "Job cancelled").
			Count(&notes)
		assert.Equal(t, int64(1), notes, "applicant %s should be told about the cancellation", freelancer.Email)
	}
}

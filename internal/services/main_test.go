package services

import (
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"slowork_backend/database"
	"slowork_backend/internal/config"
	"slowork_backend/internal/models"
	"slowork_backend/internal/repositories"
	"slowork_backend/internal/storage"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	sharedDB *gorm.DB
	dbOnce   sync.Once
	dbErr    error
)

// testDB returns a transaction that is rolled back when the test
// finishes, so tests never see each other's rows. Skips when
// TEST_DATABASE_URL is not set.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping database test")
	}

	dbOnce.Do(func() {
		sharedDB, dbErr = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if dbErr != nil {
			return
		}
		dbErr = database.AutoMigrate(sharedDB)
	})
	if dbErr != nil {
		t.Fatalf("failed to set up test database: %v", dbErr)
	}

	tx := sharedDB.Begin()
	if tx.Error != nil {
		t.Fatalf("failed to begin test transaction: %v", tx.Error)
	}
	t.Cleanup(func() {
		tx.Rollback()
	})
	return tx
}

func TestMain(m *testing.M) {
	os.Exit(m.Run())
}

// --- fixtures ---

func createTestUser(t *testing.T, tx *gorm.DB, name string, role models.UserRole) *models.User {
	t.Helper()
	user := &models.User{
		Email:        fmt.Sprintf("%s_%d@test.local", name, time.Now().UnixNano()),
		PasswordHash: "$2a$10$testhashtesthashtesthashte",
		Name:         name,
		Role:         role,
	}
	if err := tx.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func createTestCategory(t *testing.T, tx *gorm.DB) *models.JobCategory {
	t.Helper()
	suffix := time.Now().UnixNano()
	category := &models.JobCategory{
		Name: fmt.Sprintf("Category %d", suffix),
		Slug: fmt.Sprintf("category-%d", suffix),
	}
	if err := tx.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

func createTestJob(t *testing.T, tx *gorm.DB, employerID string, status models.JobStatus) *models.Job {
	t.Helper()
	category := createTestCategory(t, tx)
	job := &models.Job{
		EmployerID:  employerID,
		CategoryID:  category.ID,
		Title:       "Build a landing page",
		Description: "Test description",
		BudgetMin:   100,
		BudgetMax:   500,
		Status:      status,
	}
	if err := tx.Create(job).Error; err != nil {
		t.Fatalf("failed to create test job: %v", err)
	}
	return job
}

func createTestApplication(t *testing.T, tx *gorm.DB, jobID, freelancerID string, status models.ApplicationStatus) *models.Application {
	t.Helper()
	application := &models.Application{
		JobID:          jobID,
		FreelancerID:   freelancerID,
		ProposedBudget: 200,
		ProposedDays:   7,
		Status:         status,
	}
	if err := tx.Create(application).Error; err != nil {
		t.Fatalf("failed to create test application: %v", err)
	}
	return application
}

// assignJob links an accepted application to the job the way the
// acceptance flow does.
func assignJob(t *testing.T, tx *gorm.DB, job *models.Job, application *models.Application) {
	t.Helper()
	err := tx.Model(&models.Job{}).Where("id = ?", job.ID).Updates(map[string]interface{}{
		"status":                  models.JobStatusAssigned,
		"selected_application_id": application.ID,
	}).Error
	if err != nil {
		t.Fatalf("failed to assign job: %v", err)
	}
	job.Status = models.JobStatusAssigned
	job.SelectedApplicationID = &application.ID
}

type testServices struct {
	applicationService  *ApplicationService
	reviewService       ReviewService
	submissionService   *SubmissionService
	notificationService NotificationService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()

	userRepo := repositories.NewUserRepository()
	jobRepo := repositories.NewJobRepository()
	applicationRepo := repositories.NewApplicationRepository()
	submissionRepo := repositories.NewSubmissionRepository()
	reviewRepo := repositories.NewReviewRepository()
	notificationRepo := repositories.NewNotificationRepository()

	cfg := &config.Config{}
	cfg.Upload.MaxSize = 5 * 1024 * 1024
	cfg.Upload.AllowedExtensions = []string{"pdf", "jpg", "jpeg", "png", "zip", "rar"}

	store, err := storage.NewLocalStorage(storage.Config{BasePath: t.TempDir()})
	if err != nil {
		t.Fatalf("failed to create test storage: %v", err)
	}

	notificationService := NewNotificationService(notificationRepo)
	return &testServices{
		applicationService:  NewApplicationService(applicationRepo, jobRepo, userRepo, notificationService),
		reviewService:       NewReviewService(reviewRepo, jobRepo, userRepo, applicationRepo, notificationService),
		submissionService:   NewSubmissionService(submissionRepo, applicationRepo, jobRepo, notificationService, store, cfg),
		notificationService: notificationService,
	}
}

package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"slowork_backend/internal/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CreateUser inserts a user, hashing PasswordHash when it still holds
// a raw password.
func CreateUser(t *testing.T, db *gorm.DB, user *models.User) error {
	if user.PasswordHash != "" && !strings.HasPrefix(user.PasswordHash, "$2a$") {
		hashed, err := bcrypt.GenerateFromPassword([]byte(user.PasswordHash), bcrypt.DefaultCost)
		if err != nil {
			t.Fatalf("Failed to hash test password: %v", err)
		}
		user.PasswordHash = string(hashed)
	}

	result := db.Create(user)
	if result.Error != nil {
		t.Logf("Failed to create test user %s: %v", user.Email, result.Error)
		return result.Error
	}
	return nil
}

// CreateAndLoginUser creates a user and logs it in through the API,
// returning the access token and the stored user.
func CreateAndLoginUser(t *testing.T, ts *TestServer, db *gorm.DB, name, email, password string, role models.UserRole) (string, *models.User) {
	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: password,
		Role:         role,
	}
	require.NoError(t, CreateUser(t, db, user), "creating a test user should not fail")

	loginBody := map[string]interface{}{
		"email":    email,
		"password": password,
	}
	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", loginBody)
	require.Equal(t, http.StatusOK, res.StatusCode, "login should succeed, got: "+bodyStr)

	var loginResponse struct {
		Token string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &loginResponse))
	require.NotEmpty(t, loginResponse.Token)

	return loginResponse.Token, user
}

// CreateAndLoginEmployer creates an employer with a unique email.
func CreateAndLoginEmployer(t *testing.T, ts *TestServer, db *gorm.DB) (string, *models.User) {
	email := fmt.Sprintf("employer_%d@test.com", time.Now().UnixNano())
	return CreateAndLoginUser(t, ts, db, "Test Employer", email, "password123", models.UserRoleEmployer)
}

// CreateAndLoginFreelancer creates a freelancer with a unique email.
func CreateAndLoginFreelancer(t *testing.T, ts *TestServer, db *gorm.DB) (string, *models.User) {
	email := fmt.Sprintf("freelancer_%d@test.com", time.Now().UnixNano())
	return CreateAndLoginUser(t, ts, db, "Test Freelancer", email, "password123", models.UserRoleFreelancer)
}

// CreateCategory inserts a job category directly.
func CreateCategory(t *testing.T, db *gorm.DB, name, slug string) *models.JobCategory {
	category := &models.JobCategory{Name: name, Slug: slug}
	require.NoError(t, db.Create(category).Error, "creating a test category should not fail")
	return category
}

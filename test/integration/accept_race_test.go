package integration_test

import (
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"slowork_backend/internal/models"
	"slowork_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConcurrentAcceptSingleWinner fires Accept for two sibling
// applications at the same moment, each request on its own database
// connection. The job row lock serializes them: exactly one accept
// succeeds, the other observes a job that is no longer open, and the
// table holds a single accepted application afterwards.
func TestConcurrentAcceptSingleWinner(t *testing.T) {
	ts := GetTestServer(t)
	ts.ClearTables()

	employerToken, _ := helpers.CreateAndLoginEmployer(t, ts, ts.DB)
	firstToken, _ := helpers.CreateAndLoginFreelancer(t, ts, ts.DB)
	secondToken, _ := helpers.CreateAndLoginFreelancer(t, ts, ts.DB)
	category := helpers.CreateCategory(t, ts.DB, "Data Entry", "data-entry")

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/jobs", employerToken, map[string]interface{}{
		"category_id": category.ID,
		"title":       "Spreadsheet cleanup",
		"description": "Normalize two thousand rows.",
		"budget_min":  30,
		"budget_max":  90,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	var job struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &job))

	applyBody := map[string]interface{}{
		"proposed_budget": 60,
		"proposed_days":   4,
	}
	applicationIDs := make([]string, 0, 2)
	for _, token := range []string{firstToken, secondToken} {
		res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/jobs/"+job.ID+"/apply", token, applyBody)
		require.Equal(t, http.StatusCreated, res.StatusCode, body)
		var applied struct {
			Application struct {
				ID string `json:"id"`
			} `json:"application"`
		}
		require.NoError(t, json.Unmarshal([]byte(body), &applied))
		applicationIDs = append(applicationIDs, applied.Application.ID)
	}

	// Both accepts are built up front and released together. No t.Fatal
	// inside the goroutines; results are checked after the join.
	start := make(chan struct{})
	statuses := make([]int, len(applicationIDs))
	requestErrs := make([]error, len(applicationIDs))

	var wg sync.WaitGroup
	for i, applicationID := range applicationIDs {
		wg.Add(1)
		go func(i int, applicationID string) {
			defer wg.Done()

			req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/api/v1/applications/"+applicationID+"/accept", nil)
			if err != nil {
				requestErrs[i] = err
				return
			}
			req.Header.Set("Authorization", "Bearer "+employerToken)

			<-start
			res, err := ts.Server.Client().Do(req)
			if err != nil {
				requestErrs[i] = err
				return
			}
			res.Body.Close()
			statuses[i] = res.StatusCode
		}(i, applicationID)
	}
	close(start)
	wg.Wait()

	for i, err := range requestErrs {
		require.NoError(t, err, "accept request %d failed to send", i)
	}

	wins, losses := 0, 0
	for _, code := range statuses {
		switch code {
		case http.StatusOK:
			wins++
		case http.StatusBadRequest:
			losses++
		}
	}
	assert.Equal(t, 1, wins, "statuses: %v", statuses)
	assert.Equal(t, 1, losses, "statuses: %v", statuses)

	var accepted []models.Application
	require.NoError(t, ts.DB.Where("job_id = ? AND status = ?", job.ID, models.ApplicationStatusAccepted).Find(&accepted).Error)
	require.Len(t, accepted, 1)

	var rejected int64
	ts.DB.Model(&models.Application{}).Where("job_id = ? AND status = ?", job.ID, models.ApplicationStatusRejected).Count(&rejected)
	assert.Equal(t, int64(1), rejected)

	var reloadedJob models.Job
	require.NoError(t, ts.DB.First(&reloadedJob, "id = ?", job.ID).Error)
	assert.Equal(t, models.JobStatusAssigned, reloadedJob.Status)
	require.NotNil(t, reloadedJob.SelectedApplicationID)
	assert.Equal(t, accepted[0].ID, *reloadedJob.SelectedApplicationID)
}

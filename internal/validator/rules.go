package validator

import (
	"log"

	"slowork_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules installs the status-vocabulary rules. Empty
// values pass; 'required' handles those.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-user-role", validateUserRole)
	mustRegister("is-job-status", validateJobStatus)
	mustRegister("is-application-status", validateApplicationStatus)
	mustRegister("is-submission-status", validateSubmissionStatus)
}

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.UserRole(value) {
	case models.UserRoleEmployer, models.UserRoleFreelancer, models.UserRoleAdmin:
		return true
	default:
		return false
	}
}

func validateJobStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.JobStatus(value) {
	case models.JobStatusOpen, models.JobStatusAssigned, models.JobStatusInProgress,
		models.JobStatusSubmitted, models.JobStatusCompleted, models.JobStatusCancelled:
		return true
	default:
		return false
	}
}

func validateApplicationStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.ApplicationStatus(value) {
	case models.ApplicationStatusPending, models.ApplicationStatusAccepted, models.ApplicationStatusRejected:
		return true
	default:
		return false
	}
}

func validateSubmissionStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.SubmissionStatus(value) {
	case models.SubmissionStatusDraft, models.SubmissionStatusSubmitted, models.SubmissionStatusResubmitted,
		models.SubmissionStatusApproved, models.SubmissionStatusChangesRequested:
		return true
	default:
		return false
	}
}

package models

type UserRole string
type JobStatus string
type ApplicationStatus string
type SubmissionStatus string
type NotificationType string

const (
	UserRoleEmployer   UserRole = "employer"
	UserRoleFreelancer UserRole = "freelancer"
	UserRoleAdmin      UserRole = "admin"

	JobStatusOpen       JobStatus = "open"
	JobStatusAssigned   JobStatus = "assigned"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusSubmitted  JobStatus = "submitted"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"

	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"

	SubmissionStatusDraft            SubmissionStatus = "draft"
	SubmissionStatusSubmitted        SubmissionStatus = "submitted"
	SubmissionStatusResubmitted      SubmissionStatus = "resubmitted"
	SubmissionStatusApproved         SubmissionStatus = "approved"
	SubmissionStatusChangesRequested SubmissionStatus = "changes_requested"

	NotificationTypeApply  NotificationType = "apply"
	NotificationTypeStatus NotificationType = "status"
	NotificationTypeReview NotificationType = "review"
	NotificationTypeSystem NotificationType = "system"
)

// IsTerminal reports whether no further lifecycle transition is allowed.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusCancelled
}

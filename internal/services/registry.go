package services

// ServiceContainer holds every application service.
type ServiceContainer struct {
	AuthService         *AuthService
	UserService         *UserService
	CategoryService     *CategoryService
	JobService          *JobService
	ApplicationService  *ApplicationService
	SubmissionService   *SubmissionService
	ReviewService       ReviewService
	NotificationService NotificationService
}

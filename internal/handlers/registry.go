package handlers

// AppHandlers holds every HTTP handler of the application.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	UserHandler         *UserHandler
	CategoryHandler     *CategoryHandler
	JobHandler          *JobHandler
	ApplicationHandler  *ApplicationHandler
	SubmissionHandler   *SubmissionHandler
	ReviewHandler       *ReviewHandler
	NotificationHandler *NotificationHandler
}

package handlers

import (
	"net/http"

	"slowork_backend/internal/middleware"
	"slowork_backend/internal/models"
	"slowork_backend/internal/services"
	"slowork_backend/internal/services/dto"
	"slowork_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type SubmissionHandler struct {
	*BaseHandler
	submissionService *services.SubmissionService
}

func NewSubmissionHandler(base *BaseHandler, submissionService *services.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{
		BaseHandler:       base,
		submissionService: submissionService,
	}
}

func (h *SubmissionHandler) RegisterRoutes(r *gin.RouterGroup) {
	freelancer := r.Group("")
	freelancer.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleFreelancer))
	{
		freelancer.POST("/applications/:applicationId/submissions", h.Submit)
		freelancer.GET("/submissions/my", h.GetMySubmissions)
	}

	employer := r.Group("")
	employer.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleEmployer))
	{
		employer.POST("/submissions/:submissionId/approve", h.Approve)
		employer.POST("/submissions/:submissionId/request-changes", h.RequestChanges)
	}

	participants := r.Group("")
	participants.Use(middleware.AuthMiddleware())
	{
		participants.GET("/jobs/:jobId/submissions", h.GetJobSubmissions)
	}
}

// Submit accepts a multipart form: optional text_notes plus zero or
// more files under the "files" field.
func (h *SubmissionHandler) Submit(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid multipart form: "+err.Error()))
		return
	}

	req := dto.SubmitWorkRequest{}
	if values := form.Value["text_notes"]; len(values) > 0 && values[0] != "" {
		req.TextNotes = &values[0]
	}

	for _, header := range form.File["files"] {
		file, err := header.Open()
		if err != nil {
			apperrors.HandleError(c, apperrors.NewBadRequestError("Failed to read uploaded file: "+err.Error()))
			return
		}
		defer file.Close()

		req.Files = append(req.Files, dto.SubmissionFileInput{
			OriginalName: header.Filename,
			MimeType:     header.Header.Get("Content-Type"),
			SizeBytes:    header.Size,
			Content:      file,
		})
	}

	result, err := h.submissionService.Submit(c.Request.Context(), h.GetDB(c), c.Param("applicationId"), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *SubmissionHandler) GetMySubmissions(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	submissions, err := h.submissionService.GetFreelancerSubmissions(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"submissions": submissions})
}

func (h *SubmissionHandler) GetJobSubmissions(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	submissions, err := h.submissionService.GetJobSubmissions(h.GetDB(c), c.Param("jobId"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"submissions": submissions})
}

func (h *SubmissionHandler) Approve(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	submission, err := h.submissionService.Approve(h.GetDB(c), c.Param("submissionId"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}

func (h *SubmissionHandler) RequestChanges(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.RequestChangesRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	submission, err := h.submissionService.RequestChanges(h.GetDB(c), c.Param("submissionId"), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}

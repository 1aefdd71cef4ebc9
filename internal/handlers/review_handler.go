package handlers

import (
	"net/http"

	"slowork_backend/internal/middleware"
	"slowork_backend/internal/services"
	"slowork_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	*BaseHandler
	reviewService services.ReviewService
}

func NewReviewHandler(base *BaseHandler, reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		BaseHandler:   base,
		reviewService: reviewService,
	}
}

func (h *ReviewHandler) RegisterRoutes(r *gin.RouterGroup) {
	public := r.Group("")
	{
		public.GET("/users/:userId/reviews", h.GetUserReviews)
		public.GET("/users/:userId/rating", h.GetUserRating)
		public.GET("/jobs/:jobId/reviews", h.GetJobReviews)
	}

	protected := r.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("/jobs/:jobId/reviews", h.CreateReview)
	}
}

// CreateReview writes a review on a completed job. The target query
// parameter selects the direction: "freelancer" or "employer".
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateReviewRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	target := c.DefaultQuery("target", dto.ReviewTargetFreelancer)

	result, err := h.reviewService.CreateReview(h.GetDB(c), c.Param("jobId"), userID, target, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	status := http.StatusCreated
	if result.AlreadyReviewed {
		status = http.StatusOK
	}
	c.JSON(status, result)
}

func (h *ReviewHandler) GetUserReviews(c *gin.Context) {
	reviews, err := h.reviewService.GetUserReviews(h.GetDB(c), c.Param("userId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

func (h *ReviewHandler) GetUserRating(c *gin.Context) {
	rating, err := h.reviewService.GetUserRating(h.GetDB(c), c.Param("userId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, rating)
}

func (h *ReviewHandler) GetJobReviews(c *gin.Context) {
	reviews, err := h.reviewService.GetJobReviews(h.GetDB(c), c.Param("jobId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

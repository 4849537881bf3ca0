package handlers

import (
	"net/http"

	"artwala_backend/internal/services"
	"artwala_backend/internal/services/dto"

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
	// Public routes
	artists := r.Group("/artists")
	{
		artists.GET("/:artistId/rating", h.GetArtistRating)
		artists.GET("/:artistId/reviews", h.GetArtistReviews)
	}

	// Protected routes
	review := r.Group("/commissions/:id/review")
	review.Use(h.RequireAuth())
	{
		review.POST("", h.SubmitReview)
		review.GET("", h.GetReview)
	}
}

// --- Public handlers ---

func (h *ReviewHandler) GetArtistRating(c *gin.Context) {
	artistID, ok := ParamUUID(c, "artistId")
	if !ok {
		return
	}

	stats, err := h.reviewService.GetArtistRatingStats(c.Request.Context(), h.GetDB(c), artistID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *ReviewHandler) GetArtistReviews(c *gin.Context) {
	artistID, ok := ParamUUID(c, "artistId")
	if !ok {
		return
	}

	page, pageSize := ParsePagination(c)

	reviews, err := h.reviewService.GetArtistReviews(c.Request.Context(), h.GetDB(c), artistID, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews.Reviews,
		"total":   reviews.Total,
		"page":    page,
		"pages":   reviews.TotalPages,
	})
}

// --- Client handlers ---

func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	commissionID, ok := ParamUUID(c, "id")
	if !ok {
		return
	}

	var req dto.SubmitReviewRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	review, err := h.reviewService.SubmitReview(c.Request.Context(), h.GetDB(c), actor, commissionID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

func (h *ReviewHandler) GetReview(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	commissionID, ok := ParamUUID(c, "id")
	if !ok {
		return
	}

	review, err := h.reviewService.GetReview(c.Request.Context(), h.GetDB(c), actor, commissionID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

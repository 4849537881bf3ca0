package dto

import (
	"artwala_backend/internal/models"
)

type SubmitReviewRequest struct {
	Rating         int    `json:"rating" validate:"required,min=1,max=5"`
	Comment        string `json:"comment" validate:"required,max=5000"`
	WouldRecommend *bool  `json:"would_recommend"`
}

type ReviewListResponse struct {
	Reviews    []models.CommissionReview `json:"reviews"`
	Total      int64                     `json:"total"`
	Page       int                       `json:"page"`
	PageSize   int                       `json:"page_size"`
	TotalPages int                       `json:"total_pages"`
}

package services

import (
	"context"

	"artwala_backend/internal/events"
	"artwala_backend/internal/locker"
	"artwala_backend/internal/logger"
	"artwala_backend/internal/models"
	"artwala_backend/internal/repositories"
	"artwala_backend/internal/services/dto"
	"artwala_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ReviewService interface {
	// Review operations
	SubmitReview(ctx context.Context, db *gorm.DB, actor Actor, commissionID string, req *dto.SubmitReviewRequest) (*models.CommissionReview, error)
	GetReview(ctx context.Context, db *gorm.DB, actor Actor, commissionID string) (*models.CommissionReview, error)

	// Rating operations
	GetArtistReviews(ctx context.Context, db *gorm.DB, artistID string, page, pageSize int) (*dto.ReviewListResponse, error)
	GetArtistRatingStats(ctx context.Context, db *gorm.DB, artistID string) (*repositories.RatingStats, error)
}

type reviewService struct {
	commissionRepo repositories.CommissionRepository
	reviewRepo     repositories.ReviewRepository
	locker         locker.Locker
	publisher      events.Publisher
}

func NewReviewService(
	commissionRepo repositories.CommissionRepository,
	reviewRepo repositories.ReviewRepository,
	lk locker.Locker,
	publisher events.Publisher,
) ReviewService {
	return &reviewService{
		commissionRepo: commissionRepo,
		reviewRepo:     reviewRepo,
		locker:         lk,
		publisher:      publisher,
	}
}

// ---------------- Review Operations ----------------

// SubmitReview - отзыв клиента после сдачи работы. Отзывы не редактируются.
func (s *reviewService) SubmitReview(ctx context.Context, db *gorm.DB, actor Actor, commissionID string, req *dto.SubmitReviewRequest) (*models.CommissionReview, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, apperrors.FieldError("rating", "Rating must be between 1 and 5")
	}

	wouldRecommend := true
	if req.WouldRecommend != nil {
		wouldRecommend = *req.WouldRecommend
	}

	var review *models.CommissionReview

	err := runLocked(ctx, db, s.locker, commissionID, func(tx *gorm.DB) error {
		request, party, err := lockCommission(tx, s.commissionRepo, commissionID, actor.UserID)
		if err != nil {
			return err
		}
		if err := requireParty(party, models.PartyClient, "review the commission"); err != nil {
			return err
		}
		if !request.Status.AcceptsReviews() {
			return apperrors.ErrInvalidStatus("review", "Reviews are accepted only after the work is completed")
		}

		exists, err := s.reviewRepo.ExistsForCommission(tx, commissionID)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.Duplicate("review", "This commission has already been reviewed")
		}

		review = &models.CommissionReview{
			CommissionRequestID: commissionID,
			ClientID:            request.ClientID,
			ArtistID:            request.ArtistID,
			Rating:              req.Rating,
			Comment:             req.Comment,
			WouldRecommend:      wouldRecommend,
		}
		return s.reviewRepo.CreateReview(tx, review)
	})
	if err != nil {
		return nil, err
	}

	ctx = logger.WithCommissionID(ctx, commissionID)
	logger.CtxInfo(ctx, "review submitted", "review_id", review.ID, "rating", review.Rating)
	publish(ctx, s.publisher, events.NewEvent(events.ReviewSubmitted, commissionID, actor.UserID).
		WithEntity(review.ID))

	return review, nil
}

func (s *reviewService) GetReview(ctx context.Context, db *gorm.DB, actor Actor, commissionID string) (*models.CommissionReview, error) {
	db = db.WithContext(ctx)
	if _, err := loadReadable(db, s.commissionRepo, commissionID, actor); err != nil {
		return nil, err
	}

	review, err := s.reviewRepo.FindReviewByCommission(db, commissionID)
	if err != nil {
		return nil, handleCommissionError(err)
	}
	return review, nil
}

// ---------------- Rating Operations ----------------

func (s *reviewService) GetArtistReviews(ctx context.Context, db *gorm.DB, artistID string, page, pageSize int) (*dto.ReviewListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	reviews, total, err := s.reviewRepo.FindReviewsByArtist(db.WithContext(ctx), artistID, page, pageSize)
	if err != nil {
		return nil, handleCommissionError(err)
	}

	return &dto.ReviewListResponse{
		Reviews:    reviews,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: calculateTotalPages(total, pageSize),
	}, nil
}

func (s *reviewService) GetArtistRatingStats(ctx context.Context, db *gorm.DB, artistID string) (*repositories.RatingStats, error) {
	stats, err := s.reviewRepo.GetArtistRatingStats(db.WithContext(ctx), artistID)
	if err != nil {
		return nil, handleCommissionError(err)
	}
	return stats, nil
}

package repositories

import (
	"errors"
	"time"

	"artwala_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrReviewNotFound = errors.New("review not found")
)

type ReviewRepository interface {
	CreateReview(db *gorm.DB, review *models.CommissionReview) error
	FindReviewByCommission(db *gorm.DB, commissionID string) (*models.CommissionReview, error)
	ExistsForCommission(db *gorm.DB, commissionID string) (bool, error)
	FindReviewsByArtist(db *gorm.DB, artistID string, page, pageSize int) ([]models.CommissionReview, int64, error)
	GetArtistRatingStats(db *gorm.DB, artistID string) (*RatingStats, error)
}

type ReviewRepositoryImpl struct{}

// RatingStats - сводка оценок художника
type RatingStats struct {
	AverageRating  float64       `json:"average_rating"`
	TotalReviews   int64         `json:"total_reviews"`
	RecommendCount int64         `json:"recommend_count"`
	RecommendRate  float64       `json:"recommend_rate"`
	RatingCounts   map[int]int64 `json:"rating_counts"`  // 1-5 stars count
	RecentReviews  int64         `json:"recent_reviews"` // Last 30 days
}

func NewReviewRepository() ReviewRepository {
	return &ReviewRepositoryImpl{}
}

func (r *ReviewRepositoryImpl) CreateReview(db *gorm.DB, review *models.CommissionReview) error {
	return translate(db.Create(review).Error, nil)
}

func (r *ReviewRepositoryImpl) FindReviewByCommission(db *gorm.DB, commissionID string) (*models.CommissionReview, error) {
	var review models.CommissionReview
	if err := db.First(&review, "commission_request_id = ?", commissionID).Error; err != nil {
		return nil, translate(err, ErrReviewNotFound)
	}
	return &review, nil
}

func (r *ReviewRepositoryImpl) ExistsForCommission(db *gorm.DB, commissionID string) (bool, error) {
	var count int64
	err := db.Model(&models.CommissionReview{}).
		Where("commission_request_id = ?", commissionID).
		Count(&count).Error
	return count > 0, err
}

func (r *ReviewRepositoryImpl) FindReviewsByArtist(db *gorm.DB, artistID string, page, pageSize int) ([]models.CommissionReview, int64, error) {
	query := db.Model(&models.CommissionReview{}).Where("artist_id = ?", artistID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []models.CommissionReview
	err := query.Scopes(paginate(page, pageSize)).Order("created_at DESC").Find(&reviews).Error
	return reviews, total, err
}

func (r *ReviewRepositoryImpl) GetArtistRatingStats(db *gorm.DB, artistID string) (*RatingStats, error) {
	var reviews []models.CommissionReview
	if err := db.Where("artist_id = ?", artistID).Find(&reviews).Error; err != nil {
		return nil, err
	}

	stats := &RatingStats{RatingCounts: make(map[int]int64)}
	for i := 1; i <= 5; i++ {
		stats.RatingCounts[i] = 0
	}

	monthAgo := time.Now().AddDate(0, -1, 0)
	var sum int
	for _, review := range reviews {
		stats.TotalReviews++
		sum += review.Rating
		stats.RatingCounts[review.Rating]++
		if review.WouldRecommend {
			stats.RecommendCount++
		}
		if review.CreatedAt.After(monthAgo) {
			stats.RecentReviews++
		}
	}

	if stats.TotalReviews > 0 {
		stats.AverageRating = float64(sum) / float64(stats.TotalReviews)
		stats.RecommendRate = float64(stats.RecommendCount) / float64(stats.TotalReviews)
	}
	return stats, nil
}

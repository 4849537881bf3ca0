package services

import (
	"testing"

	"artwala_backend/internal/events"
	"artwala_backend/internal/models"
	"artwala_backend/internal/services/dto"
	"artwala_backend/internal/testutil"
	"artwala_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewService_Submit(t *testing.T) {
	env := newTestEnv(t)
	svc := env.services.ReviewService

	request := env.seed(t, models.CommissionStatusInProgress)
	testutil.SeedContract(t, env.db, request.ID, 1000, true)

	_, err := svc.SubmitReview(env.ctx, env.db, env.client(), request.ID, &dto.SubmitReviewRequest{Rating: 5, Comment: "Great"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidStatus), "пока работа не сдана")

	for _, status := range []models.CommissionStatus{models.CommissionStatusCompleted, models.CommissionStatusDelivered} {
		_, err := env.services.CommissionService.TransitionCommission(env.ctx, env.db, env.artist(), request.ID, status)
		require.NoError(t, err)
	}

	_, err = svc.SubmitReview(env.ctx, env.db, env.artist(), request.ID, &dto.SubmitReviewRequest{Rating: 5, Comment: "Great"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden), "отзыв оставляет клиент")

	review, err := svc.SubmitReview(env.ctx, env.db, env.client(), request.ID, &dto.SubmitReviewRequest{Rating: 5, Comment: "Great"})
	require.NoError(t, err)
	assert.True(t, review.WouldRecommend, "по умолчанию рекомендует")
	assert.Equal(t, env.users.ArtistID, review.ArtistID)
	assert.Contains(t, env.publisher.published(), events.ReviewSubmitted)

	_, err = svc.SubmitReview(env.ctx, env.db, env.client(), request.ID, &dto.SubmitReviewRequest{Rating: 4, Comment: "Again"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeAlreadyExists))

	got, err := svc.GetReview(env.ctx, env.db, env.artist(), request.ID)
	require.NoError(t, err)
	assert.Equal(t, review.ID, got.ID)
}

func TestReviewService_RatingOutOfRange(t *testing.T) {
	env := newTestEnv(t)
	request := env.seed(t, models.CommissionStatusCompleted)

	_, err := env.services.ReviewService.SubmitReview(env.ctx, env.db, env.client(), request.ID, &dto.SubmitReviewRequest{Rating: 6, Comment: "!"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
}

func TestReviewService_ArtistRating(t *testing.T) {
	env := newTestEnv(t)
	svc := env.services.ReviewService

	no := false
	for _, r := range []dto.SubmitReviewRequest{
		{Rating: 5, Comment: "Excellent"},
		{Rating: 4, Comment: "Good"},
		{Rating: 3, Comment: "Fine", WouldRecommend: &no},
	} {
		request := env.seed(t, models.CommissionStatusDelivered)
		req := r
		_, err := svc.SubmitReview(env.ctx, env.db, env.client(), request.ID, &req)
		require.NoError(t, err)
	}

	stats, err := svc.GetArtistRatingStats(env.ctx, env.db, env.users.ArtistID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalReviews)
	assert.InDelta(t, 4.0, stats.AverageRating, 0.001)
	assert.Equal(t, int64(2), stats.RecommendCount)
	assert.Equal(t, int64(1), stats.RatingCounts[5])
	assert.Equal(t, int64(0), stats.RatingCounts[1])

	list, err := svc.GetArtistReviews(env.ctx, env.db, env.users.ArtistID, 1, 2)
	require.NoError(t, err)
	assert.Len(t, list.Reviews, 2)
	assert.Equal(t, 2, list.TotalPages)
}

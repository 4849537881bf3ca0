package services

import (
	"testing"

	"artwala_backend/internal/models"
	"artwala_backend/internal/services/dto"
	"artwala_backend/internal/testutil"
	"artwala_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func milestoneRequest(order, paymentPercentage int) *dto.CreateMilestoneRequest {
	return &dto.CreateMilestoneRequest{
		Title:             "Stage",
		Order:             order,
		Percentage:        paymentPercentage,
		PaymentPercentage: paymentPercentage,
	}
}

func TestMilestoneService_Create(t *testing.T) {
	env := newTestEnv(t)
	svc := env.services.MilestoneService

	t.Run("Сумма долей оплаты не больше 100", func(t *testing.T) {
		request := env.seed(t, models.CommissionStatusAccepted)
		testutil.SeedContract(t, env.db, request.ID, 1000, false)

		for i, share := range []int{30, 30, 40} {
			_, err := svc.CreateMilestone(env.ctx, env.db, env.artist(), request.ID, milestoneRequest(i+1, share))
			require.NoError(t, err)
		}

		_, err := svc.CreateMilestone(env.ctx, env.db, env.artist(), request.ID, milestoneRequest(4, 10))
		assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed), "got %v", err)

		milestones, err := svc.ListMilestones(env.ctx, env.db, env.client(), request.ID)
		require.NoError(t, err)
		require.Len(t, milestones, 3)
		assert.Equal(t, []int{1, 2, 3}, []int{milestones[0].Order, milestones[1].Order, milestones[2].Order})
	})

	t.Run("Занятый номер этапа", func(t *testing.T) {
		request := env.seed(t, models.CommissionStatusAccepted)
		testutil.SeedContract(t, env.db, request.ID, 1000, false)

		_, err := svc.CreateMilestone(env.ctx, env.db, env.artist(), request.ID, milestoneRequest(1, 10))
		require.NoError(t, err)

		_, err = svc.CreateMilestone(env.ctx, env.db, env.artist(), request.ID, milestoneRequest(1, 10))
		assert.True(t, apperrors.HasCode(err, apperrors.CodeAlreadyExists))
	})

	t.Run("Без договора", func(t *testing.T) {
		request := env.seed(t, models.CommissionStatusAccepted)

		_, err := svc.CreateMilestone(env.ctx, env.db, env.artist(), request.ID, milestoneRequest(1, 10))
		assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidStatus))
	})

	t.Run("Неверный статус заявки", func(t *testing.T) {
		request := env.seed(t, models.CommissionStatusUnderReview)

		_, err := svc.CreateMilestone(env.ctx, env.db, env.artist(), request.ID, milestoneRequest(1, 10))
		assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidStatus))
	})

	t.Run("Этапы планирует художник", func(t *testing.T) {
		request := env.seed(t, models.CommissionStatusAccepted)
		testutil.SeedContract(t, env.db, request.ID, 1000, false)

		_, err := svc.CreateMilestone(env.ctx, env.db, env.client(), request.ID, milestoneRequest(1, 10))
		assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
	})

	t.Run("Номер этапа должен быть положительным", func(t *testing.T) {
		request := env.seed(t, models.CommissionStatusAccepted)

		_, err := svc.CreateMilestone(env.ctx, env.db, env.artist(), request.ID, milestoneRequest(0, 10))
		assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
	})
}

func TestMilestoneService_Advance(t *testing.T) {
	env := newTestEnv(t)
	svc := env.services.MilestoneService

	request := env.seed(t, models.CommissionStatusInProgress)
	testutil.SeedContract(t, env.db, request.ID, 1000, true)

	advance := func(actor Actor, milestoneID string, status models.MilestoneStatus) (*models.CommissionMilestone, error) {
		return svc.AdvanceMilestone(env.ctx, env.db, actor, milestoneID, &dto.AdvanceMilestoneRequest{
			Status:         string(status),
			ClientFeedback: "Make the sky brighter",
			ProgressImages: []string{"https://cdn.example.com/wip.png"},
		})
	}

	t.Run("pending -> approved запрещен", func(t *testing.T) {
		milestone := testutil.SeedMilestone(t, env.db, request.ID, 1, 10, models.MilestoneStatusPending)

		_, err := advance(env.client(), milestone.ID, models.MilestoneStatusApproved)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidStatus))
	})

	t.Run("Полный цикл с доработкой", func(t *testing.T) {
		milestone := testutil.SeedMilestone(t, env.db, request.ID, 2, 10, models.MilestoneStatusPending)

		_, err := advance(env.artist(), milestone.ID, models.MilestoneStatusInProgress)
		require.NoError(t, err)

		completed, err := advance(env.artist(), milestone.ID, models.MilestoneStatusCompleted)
		require.NoError(t, err)
		assert.NotNil(t, completed.CompletedAt)
		assert.Len(t, completed.ProgressImages, 1)

		revised, err := advance(env.client(), milestone.ID, models.MilestoneStatusRevisionRequested)
		require.NoError(t, err)
		assert.Equal(t, "Make the sky brighter", revised.ClientFeedback)

		_, err = advance(env.artist(), milestone.ID, models.MilestoneStatusInProgress)
		require.NoError(t, err)
		_, err = advance(env.artist(), milestone.ID, models.MilestoneStatusCompleted)
		require.NoError(t, err)

		approved, err := advance(env.client(), milestone.ID, models.MilestoneStatusApproved)
		require.NoError(t, err)
		assert.NotNil(t, approved.ApprovedAt)

		stored, err := svc.GetMilestone(env.ctx, env.db, env.client(), milestone.ID)
		require.NoError(t, err)
		assert.Equal(t, models.MilestoneStatusApproved, stored.Status)
	})

	t.Run("Одобряет только клиент", func(t *testing.T) {
		milestone := testutil.SeedMilestone(t, env.db, request.ID, 3, 10, models.MilestoneStatusCompleted)

		_, err := advance(env.artist(), milestone.ID, models.MilestoneStatusApproved)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
	})
}

func TestMilestoneService_AdvanceRequiresActiveContract(t *testing.T) {
	env := newTestEnv(t)
	svc := env.services.MilestoneService

	start := &dto.AdvanceMilestoneRequest{Status: string(models.MilestoneStatusInProgress)}

	t.Run("Договор подписан одной стороной", func(t *testing.T) {
		request := env.seed(t, models.CommissionStatusAccepted)
		testutil.SeedContract(t, env.db, request.ID, 1000, false)
		milestone := testutil.SeedMilestone(t, env.db, request.ID, 1, 10, models.MilestoneStatusPending)

		_, err := svc.AdvanceMilestone(env.ctx, env.db, env.artist(), milestone.ID, start)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidStatus), "got %v", err)

		stored, err := svc.GetMilestone(env.ctx, env.db, env.client(), milestone.ID)
		require.NoError(t, err)
		assert.Equal(t, models.MilestoneStatusPending, stored.Status)
	})

	t.Run("Отмененная заявка", func(t *testing.T) {
		request := env.seed(t, models.CommissionStatusAccepted)
		testutil.SeedContract(t, env.db, request.ID, 1000, true)
		milestone := testutil.SeedMilestone(t, env.db, request.ID, 1, 10, models.MilestoneStatusPending)

		_, err := svc.AdvanceMilestone(env.ctx, env.db, env.artist(), milestone.ID, start)
		require.NoError(t, err)

		env.cancel(t, request.ID)

		_, err = svc.AdvanceMilestone(env.ctx, env.db, env.artist(), milestone.ID, &dto.AdvanceMilestoneRequest{
			Status: string(models.MilestoneStatusCompleted),
		})
		assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidStatus), "got %v", err)
	})
}

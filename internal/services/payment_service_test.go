package services

import (
	"testing"

	"artwala_backend/internal/models"
	"artwala_backend/internal/services/dto"
	"artwala_backend/internal/testutil"
	"artwala_backend/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paymentFixture struct {
	env       *testEnv
	request   *models.CommissionRequest
	milestone *models.CommissionMilestone
}

// newPaymentFixture: договор на 1000, этап с долей оплаты 30%
func newPaymentFixture(t *testing.T) *paymentFixture {
	env := newTestEnv(t)
	request := env.seed(t, models.CommissionStatusInProgress)
	testutil.SeedContract(t, env.db, request.ID, 1000, true)
	milestone := testutil.SeedMilestone(t, env.db, request.ID, 1, 30, models.MilestoneStatusInProgress)
	return &paymentFixture{env: env, request: request, milestone: milestone}
}

func (f *paymentFixture) record(t *testing.T, milestoneID *string, amount int64) *models.CommissionPayment {
	t.Helper()
	payment, err := f.env.services.PaymentService.RecordPayment(f.env.ctx, f.env.db, f.env.client(), f.request.ID, &dto.RecordPaymentRequest{
		MilestoneID:   milestoneID,
		Amount:        decimal.NewFromInt(amount),
		PaymentMethod: "card",
	})
	require.NoError(t, err)
	return payment
}

func (f *paymentFixture) move(paymentID string, statuses ...models.PaymentStatus) (*models.CommissionPayment, error) {
	var (
		payment *models.CommissionPayment
		err     error
	)
	for _, status := range statuses {
		payment, err = f.env.services.PaymentService.UpdatePaymentStatus(f.env.ctx, f.env.db, f.env.client(), paymentID, &dto.UpdatePaymentStatusRequest{
			Status:        string(status),
			TransactionID: "txn-" + string(status),
		})
		if err != nil {
			return nil, err
		}
	}
	return payment, nil
}

func TestPaymentService_Record(t *testing.T) {
	f := newPaymentFixture(t)
	svc := f.env.services.PaymentService

	payment := f.record(t, &f.milestone.ID, 100)
	assert.Equal(t, models.PaymentStatusPending, payment.Status)
	assert.Equal(t, models.SpecificMilestone{MilestoneID: f.milestone.ID}, payment.Target())

	whole := f.record(t, nil, 50)
	assert.Equal(t, models.WholeContract{}, whole.Target())

	t.Run("Нулевая сумма", func(t *testing.T) {
		_, err := svc.RecordPayment(f.env.ctx, f.env.db, f.env.client(), f.request.ID, &dto.RecordPaymentRequest{
			Amount:        decimal.Zero,
			PaymentMethod: "card",
		})
		assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
	})

	t.Run("Больше двух знаков после запятой", func(t *testing.T) {
		_, err := svc.RecordPayment(f.env.ctx, f.env.db, f.env.client(), f.request.ID, &dto.RecordPaymentRequest{
			Amount:        decimal.RequireFromString("10.005"),
			PaymentMethod: "card",
		})
		assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed), "got %v", err)
	})

	t.Run("Этап чужой заявки", func(t *testing.T) {
		other := f.env.seed(t, models.CommissionStatusInProgress)
		foreign := testutil.SeedMilestone(t, f.env.db, other.ID, 1, 10, models.MilestoneStatusPending)

		_, err := svc.RecordPayment(f.env.ctx, f.env.db, f.env.client(), f.request.ID, &dto.RecordPaymentRequest{
			MilestoneID:   &foreign.ID,
			Amount:        decimal.NewFromInt(10),
			PaymentMethod: "card",
		})
		assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
	})

	t.Run("Несуществующий этап", func(t *testing.T) {
		missing := uuid.NewString()
		_, err := svc.RecordPayment(f.env.ctx, f.env.db, f.env.client(), f.request.ID, &dto.RecordPaymentRequest{
			MilestoneID:   &missing,
			Amount:        decimal.NewFromInt(10),
			PaymentMethod: "card",
		})
		assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
	})

	t.Run("Без договора", func(t *testing.T) {
		bare := f.env.seed(t, models.CommissionStatusAccepted)
		_, err := svc.RecordPayment(f.env.ctx, f.env.db, f.env.client(), bare.ID, &dto.RecordPaymentRequest{
			Amount:        decimal.NewFromInt(10),
			PaymentMethod: "card",
		})
		assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidStatus))
	})

	payments, err := svc.ListPayments(f.env.ctx, f.env.db, f.env.artist(), f.request.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 2)
}

func TestPaymentService_StatusTransitions(t *testing.T) {
	f := newPaymentFixture(t)

	payment := f.record(t, &f.milestone.ID, 100)

	_, err := f.move(payment.ID, models.PaymentStatusCompleted)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidStatus), "pending -> completed запрещен")

	completed, err := f.move(payment.ID, models.PaymentStatusProcessing, models.PaymentStatusCompleted)
	require.NoError(t, err)
	assert.NotNil(t, completed.PaidAt)
	assert.Equal(t, "txn-completed", completed.TransactionID)

	refunded, err := f.move(payment.ID, models.PaymentStatusRefunded)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusRefunded, refunded.Status)

	failed := f.record(t, nil, 10)
	_, err = f.move(failed.ID, models.PaymentStatusProcessing, models.PaymentStatusFailed)
	require.NoError(t, err)
	_, err = f.move(failed.ID, models.PaymentStatusProcessing)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidStatus), "failed - финальный статус")

	fetched, err := f.env.services.PaymentService.GetPayment(f.env.ctx, f.env.db, f.env.artist(), failed.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusFailed, fetched.Status)
}

func TestPaymentService_MilestoneCap(t *testing.T) {
	f := newPaymentFixture(t)

	// лимит этапа: 1000 * 30% = 300
	first := f.record(t, &f.milestone.ID, 200)
	_, err := f.move(first.ID, models.PaymentStatusProcessing, models.PaymentStatusCompleted)
	require.NoError(t, err)

	second := f.record(t, &f.milestone.ID, 150)
	_, err = f.move(second.ID, models.PaymentStatusProcessing, models.PaymentStatusCompleted)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed), "got %v", err)

	stored, err := f.env.services.PaymentService.GetPayment(f.env.ctx, f.env.db, f.env.client(), second.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusProcessing, stored.Status)
	assert.Nil(t, stored.PaidAt)

	exact := f.record(t, &f.milestone.ID, 100)
	_, err = f.move(exact.ID, models.PaymentStatusProcessing, models.PaymentStatusCompleted)
	assert.NoError(t, err, "ровно до лимита допустимо")
}

func TestPaymentService_ContractCap(t *testing.T) {
	f := newPaymentFixture(t)

	first := f.record(t, nil, 900)
	_, err := f.move(first.ID, models.PaymentStatusProcessing, models.PaymentStatusCompleted)
	require.NoError(t, err)

	second := f.record(t, nil, 200)
	_, err = f.move(second.ID, models.PaymentStatusProcessing, models.PaymentStatusCompleted)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))

	// этап тоже учитывается в общем лимите договора
	third := f.record(t, &f.milestone.ID, 150)
	_, err = f.move(third.ID, models.PaymentStatusProcessing, models.PaymentStatusCompleted)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
}

func TestPaymentService_RequiresActiveContract(t *testing.T) {
	env := newTestEnv(t)
	request := env.seed(t, models.CommissionStatusAccepted)
	testutil.SeedContract(t, env.db, request.ID, 1000, false)

	_, err := env.services.PaymentService.RecordPayment(env.ctx, env.db, env.client(), request.ID, &dto.RecordPaymentRequest{
		Amount:        decimal.NewFromInt(100),
		PaymentMethod: "card",
	})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidStatus), "got %v", err)
}

func TestPaymentService_ClosedCommission(t *testing.T) {
	env := newTestEnv(t)
	request := env.seed(t, models.CommissionStatusAccepted)
	testutil.SeedContract(t, env.db, request.ID, 1000, true)
	f := &paymentFixture{env: env, request: request}

	settled := f.record(t, nil, 200)
	_, err := f.move(settled.ID, models.PaymentStatusProcessing, models.PaymentStatusCompleted)
	require.NoError(t, err)
	pending := f.record(t, nil, 100)
	processing := f.record(t, nil, 50)
	_, err = f.move(processing.ID, models.PaymentStatusProcessing)
	require.NoError(t, err)

	env.cancel(t, request.ID)

	t.Run("Новый платеж", func(t *testing.T) {
		_, err := env.services.PaymentService.RecordPayment(env.ctx, env.db, env.client(), request.ID, &dto.RecordPaymentRequest{
			Amount:        decimal.NewFromInt(300),
			PaymentMethod: "card",
		})
		assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidStatus), "got %v", err)
	})

	t.Run("pending -> processing", func(t *testing.T) {
		_, err := f.move(pending.ID, models.PaymentStatusProcessing)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidStatus), "got %v", err)
	})

	t.Run("processing -> completed", func(t *testing.T) {
		_, err := f.move(processing.ID, models.PaymentStatusCompleted)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidStatus), "got %v", err)
	})

	t.Run("processing -> failed", func(t *testing.T) {
		failed, err := f.move(processing.ID, models.PaymentStatusFailed)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusFailed, failed.Status)
	})

	t.Run("Возврат после отмены", func(t *testing.T) {
		refunded, err := f.move(settled.ID, models.PaymentStatusRefunded)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusRefunded, refunded.Status)
	})
}

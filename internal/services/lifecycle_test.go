package services

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"artwala_backend/internal/events"
	"artwala_backend/internal/locker"
	"artwala_backend/internal/models"
	"artwala_backend/internal/repositories"
	"artwala_backend/internal/testutil"
	"artwala_backend/pkg/apperrors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type busyLocker struct{}

func (busyLocker) Acquire(ctx context.Context, key string) (func(), error) {
	return nil, locker.ErrLockTimeout
}

func TestHandleCommissionError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code apperrors.ErrorCode
	}{
		{"заявка не найдена", repositories.ErrCommissionNotFound, apperrors.CodeNotFound},
		{"платеж не найден", fmt.Errorf("wrap: %w", repositories.ErrPaymentNotFound), apperrors.CodeNotFound},
		{"уникальный индекс", repositories.ErrDuplicateEntry, apperrors.CodeAlreadyExists},
		{"блокировка занята", locker.ErrLockTimeout, apperrors.CodeResourceBusy},
		{"обрыв соединения", driver.ErrBadConn, apperrors.CodeDatabaseError},
		{"прочее", errors.New("boom"), apperrors.CodeInternalError},
		{"AppError без изменений", apperrors.ErrNotParticipant, apperrors.CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, apperrors.HasCode(handleCommissionError(tt.err), tt.code))
		})
	}
	assert.NoError(t, handleCommissionError(nil))
}

func TestRunLocked(t *testing.T) {
	db := testutil.NewTestDB(t)
	users := testutil.NewParticipants()
	request := testutil.SeedCommission(t, db, users, models.CommissionStatusSubmitted)
	ctx := context.Background()

	t.Run("Ошибка откатывает транзакцию", func(t *testing.T) {
		err := runLocked(ctx, db, locker.NewLocalLocker(), request.ID, func(tx *gorm.DB) error {
			if err := tx.Model(&models.CommissionRequest{}).Where("id = ?", request.ID).
				Update("status", models.CommissionStatusCancelled).Error; err != nil {
				return err
			}
			return apperrors.ErrInvalidStatus("commission", "rollback")
		})
		assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidStatus))

		var stored models.CommissionRequest
		assert.NoError(t, db.First(&stored, "id = ?", request.ID).Error)
		assert.Equal(t, models.CommissionStatusSubmitted, stored.Status)
	})

	t.Run("Занятая блокировка", func(t *testing.T) {
		called := false
		err := runLocked(ctx, db, busyLocker{}, request.ID, func(tx *gorm.DB) error {
			called = true
			return nil
		})
		assert.True(t, apperrors.HasCode(err, apperrors.CodeResourceBusy))
		assert.False(t, called)
	})
}

type ctxCapturingPublisher struct {
	ctxErr      error
	hasDeadline bool
	events      []events.Event
}

func (p *ctxCapturingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.ctxErr = ctx.Err()
	_, p.hasDeadline = ctx.Deadline()
	p.events = append(p.events, event)
	return nil
}

func (p *ctxCapturingPublisher) Close() error { return nil }

func TestPublish_SurvivesClientDisconnect(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pub := &ctxCapturingPublisher{}
	publish(ctx, pub, events.NewEvent(events.PaymentRecorded, "comm-1", "client-1"))

	assert.Len(t, pub.events, 1)
	assert.NoError(t, pub.ctxErr, "отмена запроса не должна доходить до брокера")
	assert.True(t, pub.hasDeadline)
}

func TestValidateMoney(t *testing.T) {
	tests := []struct {
		value string
		ok    bool
	}{
		{"0.01", true},
		{"1500.50", true},
		{"9999999999.99", true},
		{"10.005", false},
		{"10000000000", false},
		{"-10000000000", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			err := validateMoney("amount", decimal.RequireFromString(tt.value))
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed), "got %v", err)
		})
	}
}

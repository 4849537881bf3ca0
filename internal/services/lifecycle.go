package services

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"time"

	"artwala_backend/internal/events"
	"artwala_backend/internal/locker"
	"artwala_backend/internal/logger"
	"artwala_backend/internal/models"
	"artwala_backend/internal/repositories"
	"artwala_backend/internal/services/dto"
	"artwala_backend/pkg/apperrors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Actor - аутентифицированный пользователь, выполняющий операцию
type Actor struct {
	UserID string
	Role   models.UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.UserRoleAdmin
}

// Clock подменяется в тестах
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}

// runLocked выполняет fn в одной транзакции под блокировкой заявки.
// Ошибки репозитория переводятся в AppError.
func runLocked(ctx context.Context, db *gorm.DB, lk locker.Locker, commissionID string, fn func(tx *gorm.DB) error) error {
	release, err := lk.Acquire(ctx, locker.CommissionKey(commissionID))
	if err != nil {
		return handleCommissionError(err)
	}
	defer release()

	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return apperrors.StorageUnavailable(tx.Error)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return handleCommissionError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return handleCommissionError(err)
	}
	return nil
}

// lockCommission перечитывает заявку с блокировкой строки и проверяет участие
func lockCommission(tx *gorm.DB, repo repositories.CommissionRepository, commissionID, userID string) (*models.CommissionRequest, models.Party, error) {
	request, err := repo.FindCommissionForUpdate(tx, commissionID)
	if err != nil {
		return nil, "", err
	}
	party, ok := request.PartyOf(userID)
	if !ok {
		return nil, "", apperrors.ErrNotParticipant
	}
	return request, party, nil
}

// loadReadable загружает заявку для чтения: участникам и администраторам
func loadReadable(db *gorm.DB, repo repositories.CommissionRepository, commissionID string, actor Actor) (*models.CommissionRequest, error) {
	request, err := repo.FindCommissionByID(db, commissionID)
	if err != nil {
		return nil, handleCommissionError(err)
	}
	if !request.IsParticipant(actor.UserID) && !actor.IsAdmin() {
		return nil, apperrors.ErrNotParticipant
	}
	return request, nil
}

// requireOpen - заявка еще не закрыта (delivered, rejected, cancelled)
func requireOpen(request *models.CommissionRequest, domain string) error {
	if request.Status.IsTerminal() {
		return apperrors.ErrInvalidStatus(domain, "Commission is closed with status '"+string(request.Status)+"'")
	}
	return nil
}

// requireActiveContract - договор существует и подписан обеими сторонами
func requireActiveContract(tx *gorm.DB, repo repositories.ContractRepository, commissionID, domain string) (*models.CommissionContract, error) {
	contract, err := repo.FindContractByCommission(tx, commissionID)
	if err != nil {
		if errors.Is(err, repositories.ErrContractNotFound) {
			return nil, apperrors.ErrInvalidStatus(domain, "A contract is required")
		}
		return nil, err
	}
	if !contract.IsActive() {
		return nil, apperrors.ErrInvalidStatus(domain, "Contract must be signed by both parties")
	}
	return contract, nil
}

// requireParty - действие доступно только указанной стороне
func requireParty(actual, required models.Party, action string) error {
	if actual != required {
		return apperrors.NewForbiddenError("Only the " + string(required) + " can " + action)
	}
	return nil
}

// publishTimeout - сколько ждем брокер после коммита
const publishTimeout = 3 * time.Second

// publish вызывается после коммита. Ошибка только логируется.
// Отмена запроса клиентом не отменяет отправку события.
func publish(ctx context.Context, pub events.Publisher, event events.Event) {
	if pub == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := pub.Publish(ctx, event); err != nil {
		logger.CtxWithError(ctx, "failed to publish commission event", err,
			"type", event.Type,
			"commission_id", event.CommissionID,
		)
	}
}

// maxMoney - граница колонок decimal(12,2)
var maxMoney = decimal.New(1, 10)

// validateMoney проверяет, что сумма помещается в колонку без округления
func validateMoney(field string, d decimal.Decimal) error {
	if !d.Equal(d.Round(2)) {
		return apperrors.FieldError(field, "Amount must have at most 2 decimal places")
	}
	if d.Abs().GreaterThanOrEqual(maxMoney) {
		return apperrors.FieldError(field, "Amount must be less than "+maxMoney.String())
	}
	return nil
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dto.DateLayout, value)
	if err != nil {
		return time.Time{}, apperrors.FieldError(field, "Must be a date in format "+dto.DateLayout)
	}
	return t, nil
}

// startOfDay - полночь UTC для сравнения дат без времени
func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func calculateTotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

func handleCommissionError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, repositories.ErrCommissionNotFound):
		return apperrors.NotFound("commission", "Commission request not found").WithError(err)
	case errors.Is(err, repositories.ErrProposalNotFound):
		return apperrors.NotFound("proposal", "Proposal not found").WithError(err)
	case errors.Is(err, repositories.ErrContractNotFound):
		return apperrors.NotFound("contract", "Contract not found").WithError(err)
	case errors.Is(err, repositories.ErrMilestoneNotFound):
		return apperrors.NotFound("milestone", "Milestone not found").WithError(err)
	case errors.Is(err, repositories.ErrPaymentNotFound):
		return apperrors.NotFound("payment", "Payment not found").WithError(err)
	case errors.Is(err, repositories.ErrReviewNotFound):
		return apperrors.NotFound("review", "Review not found").WithError(err)
	case errors.Is(err, repositories.ErrDuplicateEntry):
		return apperrors.ErrAlreadyExists(err)
	case errors.Is(err, locker.ErrLockTimeout):
		return apperrors.ErrResourceBusy(err)
	case isUnavailable(err):
		return apperrors.StorageUnavailable(err)
	}
	return apperrors.InternalError(err)
}

func isUnavailable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

package services

import (
	"context"
	"errors"
	"strings"

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

type PaymentService interface {
	RecordPayment(ctx context.Context, db *gorm.DB, actor Actor, commissionID string, req *dto.RecordPaymentRequest) (*models.CommissionPayment, error)
	ListPayments(ctx context.Context, db *gorm.DB, actor Actor, commissionID string) ([]models.CommissionPayment, error)
	GetPayment(ctx context.Context, db *gorm.DB, actor Actor, paymentID string) (*models.CommissionPayment, error)
	UpdatePaymentStatus(ctx context.Context, db *gorm.DB, actor Actor, paymentID string, req *dto.UpdatePaymentStatusRequest) (*models.CommissionPayment, error)
}

type paymentService struct {
	commissionRepo repositories.CommissionRepository
	contractRepo   repositories.ContractRepository
	milestoneRepo  repositories.MilestoneRepository
	paymentRepo    repositories.PaymentRepository
	locker         locker.Locker
	publisher      events.Publisher
	now            Clock
}

func NewPaymentService(
	commissionRepo repositories.CommissionRepository,
	contractRepo repositories.ContractRepository,
	milestoneRepo repositories.MilestoneRepository,
	paymentRepo repositories.PaymentRepository,
	lk locker.Locker,
	publisher events.Publisher,
) PaymentService {
	return &paymentService{
		commissionRepo: commissionRepo,
		contractRepo:   contractRepo,
		milestoneRepo:  milestoneRepo,
		paymentRepo:    paymentRepo,
		locker:         lk,
		publisher:      publisher,
		now:            systemClock,
	}
}

// RecordPayment регистрирует платеж клиента в статусе pending
func (s *paymentService) RecordPayment(ctx context.Context, db *gorm.DB, actor Actor, commissionID string, req *dto.RecordPaymentRequest) (*models.CommissionPayment, error) {
	if !req.Amount.IsPositive() {
		return nil, apperrors.FieldError("amount", "Amount must be greater than zero")
	}
	if err := validateMoney("amount", req.Amount); err != nil {
		return nil, err
	}

	var target models.PaymentTarget = models.WholeContract{}
	if req.MilestoneID != nil && *req.MilestoneID != "" {
		target = models.SpecificMilestone{MilestoneID: *req.MilestoneID}
	}

	payment := &models.CommissionPayment{
		CommissionRequestID: commissionID,
		Amount:              req.Amount,
		PaymentMethod:       strings.TrimSpace(req.PaymentMethod),
		Status:              models.PaymentStatusPending,
	}
	payment.SetTarget(target)

	err := runLocked(ctx, db, s.locker, commissionID, func(tx *gorm.DB) error {
		request, party, err := lockCommission(tx, s.commissionRepo, commissionID, actor.UserID)
		if err != nil {
			return err
		}
		if err := requireParty(party, models.PartyClient, "record a payment"); err != nil {
			return err
		}
		if err := requireOpen(request, "payment"); err != nil {
			return err
		}
		if _, err := requireActiveContract(tx, s.contractRepo, commissionID, "payment"); err != nil {
			return err
		}

		if t, ok := target.(models.SpecificMilestone); ok {
			milestone, err := s.milestoneRepo.FindMilestoneByID(tx, t.MilestoneID)
			if err != nil {
				if errors.Is(err, repositories.ErrMilestoneNotFound) {
					return apperrors.FieldError("milestone_id", "Milestone not found")
				}
				return err
			}
			if milestone.CommissionRequestID != commissionID {
				return apperrors.FieldError("milestone_id", "Milestone belongs to another commission")
			}
		}

		return s.paymentRepo.CreatePayment(tx, payment)
	})
	if err != nil {
		return nil, err
	}

	ctx = logger.WithCommissionID(ctx, commissionID)
	logger.CtxInfo(ctx, "payment recorded", "payment_id", payment.ID, "amount", payment.Amount.String())
	publish(ctx, s.publisher, events.NewEvent(events.PaymentRecorded, commissionID, actor.UserID).
		WithEntity(payment.ID))

	return payment, nil
}

func (s *paymentService) ListPayments(ctx context.Context, db *gorm.DB, actor Actor, commissionID string) ([]models.CommissionPayment, error) {
	db = db.WithContext(ctx)
	if _, err := loadReadable(db, s.commissionRepo, commissionID, actor); err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.FindPaymentsByCommission(db, commissionID)
	if err != nil {
		return nil, handleCommissionError(err)
	}
	return payments, nil
}

func (s *paymentService) GetPayment(ctx context.Context, db *gorm.DB, actor Actor, paymentID string) (*models.CommissionPayment, error) {
	db = db.WithContext(ctx)

	payment, err := s.paymentRepo.FindPaymentByID(db, paymentID)
	if err != nil {
		return nil, handleCommissionError(err)
	}
	if _, err := loadReadable(db, s.commissionRepo, payment.CommissionRequestID, actor); err != nil {
		return nil, err
	}
	return payment, nil
}

// UpdatePaymentStatus переносит результат внешнего шлюза.
// Переход в completed проверяет лимиты этапа и договора.
func (s *paymentService) UpdatePaymentStatus(ctx context.Context, db *gorm.DB, actor Actor, paymentID string, req *dto.UpdatePaymentStatusRequest) (*models.CommissionPayment, error) {
	next := models.PaymentStatus(req.Status)
	if !next.IsValid() {
		return nil, apperrors.FieldError("status", "Unknown payment status")
	}

	current, err := s.paymentRepo.FindPaymentByID(db.WithContext(ctx), paymentID)
	if err != nil {
		return nil, handleCommissionError(err)
	}
	commissionID := current.CommissionRequestID

	var (
		payment *models.CommissionPayment
		from    models.PaymentStatus
	)

	err = runLocked(ctx, db, s.locker, commissionID, func(tx *gorm.DB) error {
		request, _, err := lockCommission(tx, s.commissionRepo, commissionID, actor.UserID)
		if err != nil {
			return err
		}

		payment, err = s.paymentRepo.FindPaymentForUpdate(tx, paymentID)
		if err != nil {
			return err
		}
		if !payment.Status.CanTransitionTo(next) {
			return apperrors.ErrInvalidTransition("payment", payment.Status, next)
		}

		// failed и refunded разрешены и по закрытой заявке: деньги возвращаются после отмены
		if next == models.PaymentStatusProcessing || next == models.PaymentStatusCompleted {
			if err := requireOpen(request, "payment"); err != nil {
				return err
			}
			if _, err := requireActiveContract(tx, s.contractRepo, commissionID, "payment"); err != nil {
				return err
			}
		}

		if next == models.PaymentStatusCompleted {
			if err := s.checkCaps(tx, payment); err != nil {
				return err
			}
			paidAt := s.now()
			payment.PaidAt = &paidAt
		}
		if req.TransactionID != "" {
			payment.TransactionID = req.TransactionID
		}

		from = payment.Status
		payment.Status = next
		return s.paymentRepo.UpdatePayment(tx, payment)
	})
	if err != nil {
		return nil, err
	}

	ctx = logger.WithCommissionID(ctx, commissionID)
	logger.CtxInfo(ctx, "payment status changed", "payment_id", paymentID, "from", from, "to", next)
	publish(ctx, s.publisher, events.NewEvent(events.PaymentStatusChanged, commissionID, actor.UserID).
		WithEntity(paymentID).
		WithTransition(string(from), string(next)))

	return payment, nil
}

// checkCaps: завершенные платежи этапа не превышают его долю итоговой цены,
// а все завершенные платежи - саму итоговую цену.
func (s *paymentService) checkCaps(tx *gorm.DB, payment *models.CommissionPayment) error {
	contract, err := s.contractRepo.FindContractByCommission(tx, payment.CommissionRequestID)
	if err != nil {
		return err
	}

	if t, ok := payment.Target().(models.SpecificMilestone); ok {
		milestone, err := s.milestoneRepo.FindMilestoneByID(tx, t.MilestoneID)
		if err != nil {
			return err
		}
		paid, err := s.paymentRepo.SumCompleted(tx, payment.CommissionRequestID, t)
		if err != nil {
			return err
		}
		paymentCap := milestoneCap(contract.FinalPrice, milestone.PaymentPercentage)
		if paid.Add(payment.Amount).GreaterThan(paymentCap) {
			return capExceeded("Milestone payments would exceed the milestone share of the final price", paymentCap, paid)
		}
	}

	paid, err := s.paymentRepo.SumCompleted(tx, payment.CommissionRequestID, models.WholeContract{})
	if err != nil {
		return err
	}
	if paid.Add(payment.Amount).GreaterThan(contract.FinalPrice) {
		return capExceeded("Payments would exceed the contract final price", contract.FinalPrice, paid)
	}
	return nil
}

func capExceeded(message string, paymentCap, paid decimal.Decimal) error {
	return apperrors.ValidationError(map[string]string{
		"amount":    message,
		"cap":       paymentCap.StringFixed(2),
		"completed": paid.StringFixed(2),
	})
}

package services

import (
	"context"
	"errors"

	"artwala_backend/internal/events"
	"artwala_backend/internal/locker"
	"artwala_backend/internal/logger"
	"artwala_backend/internal/models"
	"artwala_backend/internal/repositories"
	"artwala_backend/internal/services/dto"
	"artwala_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type MilestoneService interface {
	CreateMilestone(ctx context.Context, db *gorm.DB, actor Actor, commissionID string, req *dto.CreateMilestoneRequest) (*models.CommissionMilestone, error)
	ListMilestones(ctx context.Context, db *gorm.DB, actor Actor, commissionID string) ([]models.CommissionMilestone, error)
	GetMilestone(ctx context.Context, db *gorm.DB, actor Actor, milestoneID string) (*models.CommissionMilestone, error)
	AdvanceMilestone(ctx context.Context, db *gorm.DB, actor Actor, milestoneID string, req *dto.AdvanceMilestoneRequest) (*models.CommissionMilestone, error)
}

type milestoneService struct {
	commissionRepo repositories.CommissionRepository
	contractRepo   repositories.ContractRepository
	milestoneRepo  repositories.MilestoneRepository
	locker         locker.Locker
	publisher      events.Publisher
	now            Clock
}

func NewMilestoneService(
	commissionRepo repositories.CommissionRepository,
	contractRepo repositories.ContractRepository,
	milestoneRepo repositories.MilestoneRepository,
	lk locker.Locker,
	publisher events.Publisher,
) MilestoneService {
	return &milestoneService{
		commissionRepo: commissionRepo,
		contractRepo:   contractRepo,
		milestoneRepo:  milestoneRepo,
		locker:         lk,
		publisher:      publisher,
		now:            systemClock,
	}
}

// CreateMilestone добавляет этап в план. Номера этапов не перенумеровываются:
// занятый номер - ошибка дубликата.
func (s *milestoneService) CreateMilestone(ctx context.Context, db *gorm.DB, actor Actor, commissionID string, req *dto.CreateMilestoneRequest) (*models.CommissionMilestone, error) {
	if req.Order <= 0 {
		return nil, apperrors.FieldError("order", "Order must be a positive number")
	}
	if req.Percentage < 0 || req.Percentage > 100 {
		return nil, apperrors.FieldError("percentage", "Percentage must be between 0 and 100")
	}
	if req.PaymentPercentage < 0 || req.PaymentPercentage > 100 {
		return nil, apperrors.FieldError("payment_percentage", "Payment percentage must be between 0 and 100")
	}

	milestone := &models.CommissionMilestone{
		CommissionRequestID: commissionID,
		Title:               req.Title,
		Description:         req.Description,
		Order:               req.Order,
		Percentage:          req.Percentage,
		PaymentPercentage:   req.PaymentPercentage,
		Status:              models.MilestoneStatusPending,
	}
	if req.DueDate != "" {
		dueDate, err := parseDate("due_date", req.DueDate)
		if err != nil {
			return nil, err
		}
		milestone.DueDate = &dueDate
	}

	err := runLocked(ctx, db, s.locker, commissionID, func(tx *gorm.DB) error {
		request, party, err := lockCommission(tx, s.commissionRepo, commissionID, actor.UserID)
		if err != nil {
			return err
		}
		if err := requireParty(party, models.PartyArtist, "plan milestones"); err != nil {
			return err
		}
		if !request.Status.AcceptsMilestones() {
			return apperrors.ErrInvalidStatus("milestone", "Milestones can be planned only for accepted or in progress requests")
		}

		if _, err := s.contractRepo.FindContractByCommission(tx, commissionID); err != nil {
			if errors.Is(err, repositories.ErrContractNotFound) {
				return apperrors.ErrInvalidStatus("milestone", "Milestones require a contract")
			}
			return err
		}

		taken, err := s.milestoneRepo.OrderTaken(tx, commissionID, req.Order)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.Duplicate("milestone", "A milestone with this order already exists").
				WithDetails(map[string]int{"order": req.Order})
		}

		totals, err := s.milestoneRepo.GetMilestoneTotals(tx, commissionID)
		if err != nil {
			return err
		}
		if totals.Percentage+req.Percentage > 100 {
			return apperrors.FieldError("percentage", "Total milestone percentage cannot exceed 100")
		}
		if totals.PaymentPercentage+req.PaymentPercentage > 100 {
			return apperrors.FieldError("payment_percentage", "Total payment percentage cannot exceed 100")
		}

		return s.milestoneRepo.CreateMilestone(tx, milestone)
	})
	if err != nil {
		return nil, err
	}

	ctx = logger.WithCommissionID(ctx, commissionID)
	logger.CtxInfo(ctx, "milestone created", "milestone_id", milestone.ID, "order", milestone.Order)
	publish(ctx, s.publisher, events.NewEvent(events.MilestoneCreated, commissionID, actor.UserID).
		WithEntity(milestone.ID))

	return milestone, nil
}

func (s *milestoneService) ListMilestones(ctx context.Context, db *gorm.DB, actor Actor, commissionID string) ([]models.CommissionMilestone, error) {
	db = db.WithContext(ctx)
	if _, err := loadReadable(db, s.commissionRepo, commissionID, actor); err != nil {
		return nil, err
	}

	milestones, err := s.milestoneRepo.FindMilestonesByCommission(db, commissionID)
	if err != nil {
		return nil, handleCommissionError(err)
	}
	return milestones, nil
}

func (s *milestoneService) GetMilestone(ctx context.Context, db *gorm.DB, actor Actor, milestoneID string) (*models.CommissionMilestone, error) {
	db = db.WithContext(ctx)

	milestone, err := s.milestoneRepo.FindMilestoneByID(db, milestoneID)
	if err != nil {
		return nil, handleCommissionError(err)
	}
	if _, err := loadReadable(db, s.commissionRepo, milestone.CommissionRequestID, actor); err != nil {
		return nil, err
	}
	return milestone, nil
}

func (s *milestoneService) AdvanceMilestone(ctx context.Context, db *gorm.DB, actor Actor, milestoneID string, req *dto.AdvanceMilestoneRequest) (*models.CommissionMilestone, error) {
	next := models.MilestoneStatus(req.Status)
	if !next.IsValid() {
		return nil, apperrors.FieldError("status", "Unknown milestone status")
	}

	// заявку узнаем до блокировки, сам этап перечитываем внутри транзакции
	current, err := s.milestoneRepo.FindMilestoneByID(db.WithContext(ctx), milestoneID)
	if err != nil {
		return nil, handleCommissionError(err)
	}
	commissionID := current.CommissionRequestID

	var (
		milestone *models.CommissionMilestone
		from      models.MilestoneStatus
	)

	err = runLocked(ctx, db, s.locker, commissionID, func(tx *gorm.DB) error {
		request, party, err := lockCommission(tx, s.commissionRepo, commissionID, actor.UserID)
		if err != nil {
			return err
		}
		// планировать можно до подписи, работать - только по действующему договору
		if err := requireOpen(request, "milestone"); err != nil {
			return err
		}
		if _, err := requireActiveContract(tx, s.contractRepo, commissionID, "milestone"); err != nil {
			return err
		}

		milestone, err = s.milestoneRepo.FindMilestoneByID(tx, milestoneID)
		if err != nil {
			return err
		}
		if !milestone.Status.CanTransitionTo(next) {
			return apperrors.ErrInvalidTransition("milestone", milestone.Status, next)
		}
		if !next.CanBeDrivenBy(party) {
			return apperrors.NewForbiddenError("The " + string(party) + " cannot move the milestone to " + string(next))
		}

		now := s.now()
		switch next {
		case models.MilestoneStatusCompleted:
			milestone.CompletedAt = &now
			if len(req.ProgressImages) > 0 {
				milestone.ProgressImages = append(milestone.ProgressImages, req.ProgressImages...)
			}
		case models.MilestoneStatusApproved:
			milestone.ApprovedAt = &now
		case models.MilestoneStatusRevisionRequested:
			milestone.ClientFeedback = req.ClientFeedback
		}

		from = milestone.Status
		milestone.Status = next
		return s.milestoneRepo.UpdateMilestone(tx, milestone)
	})
	if err != nil {
		return nil, err
	}

	ctx = logger.WithCommissionID(ctx, commissionID)
	logger.CtxInfo(ctx, "milestone status changed", "milestone_id", milestoneID, "from", from, "to", next)
	publish(ctx, s.publisher, events.NewEvent(events.MilestoneStatusChanged, commissionID, actor.UserID).
		WithEntity(milestoneID).
		WithTransition(string(from), string(next)))

	return milestone, nil
}

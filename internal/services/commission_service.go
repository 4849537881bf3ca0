package services

import (
	"context"
	"errors"
	"strings"
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

var hundred = decimal.NewFromInt(100)

type CommissionService interface {
	CreateCommission(ctx context.Context, db *gorm.DB, actor Actor, req *dto.CreateCommissionRequest) (*models.CommissionRequest, error)
	GetCommission(ctx context.Context, db *gorm.DB, actor Actor, commissionID string) (*models.CommissionRequest, error)
	ListCommissions(ctx context.Context, db *gorm.DB, actor Actor, query *dto.ListCommissionsQuery) (*dto.CommissionListResponse, error)
	UpdateCommission(ctx context.Context, db *gorm.DB, actor Actor, commissionID string, req *dto.UpdateCommissionRequest) (*models.CommissionRequest, error)
	TransitionCommission(ctx context.Context, db *gorm.DB, actor Actor, commissionID string, status models.CommissionStatus) (*models.CommissionRequest, error)
	DeleteCommission(ctx context.Context, db *gorm.DB, actor Actor, commissionID string) error
	GetCommissionSummary(ctx context.Context, db *gorm.DB, actor Actor, commissionID string) (*dto.CommissionSummary, error)
}

type commissionService struct {
	commissionRepo repositories.CommissionRepository
	proposalRepo   repositories.ProposalRepository
	contractRepo   repositories.ContractRepository
	milestoneRepo  repositories.MilestoneRepository
	paymentRepo    repositories.PaymentRepository
	reviewRepo     repositories.ReviewRepository
	locker         locker.Locker
	publisher      events.Publisher
	now            Clock
}

func NewCommissionService(
	commissionRepo repositories.CommissionRepository,
	proposalRepo repositories.ProposalRepository,
	contractRepo repositories.ContractRepository,
	milestoneRepo repositories.MilestoneRepository,
	paymentRepo repositories.PaymentRepository,
	reviewRepo repositories.ReviewRepository,
	lk locker.Locker,
	publisher events.Publisher,
) CommissionService {
	return &commissionService{
		commissionRepo: commissionRepo,
		proposalRepo:   proposalRepo,
		contractRepo:   contractRepo,
		milestoneRepo:  milestoneRepo,
		paymentRepo:    paymentRepo,
		reviewRepo:     reviewRepo,
		locker:         lk,
		publisher:      publisher,
		now:            systemClock,
	}
}

// ---------------- Commission Operations ----------------

func (s *commissionService) CreateCommission(ctx context.Context, db *gorm.DB, actor Actor, req *dto.CreateCommissionRequest) (*models.CommissionRequest, error) {
	if actor.UserID == req.ArtistID {
		return nil, apperrors.FieldError("artist_id", "Client and artist must be different users")
	}

	commissionType := models.CommissionType(req.CommissionType)
	if !commissionType.IsValid() {
		return nil, apperrors.FieldError("commission_type", "Unknown commission type")
	}

	if err := validateBudget(req.BudgetMin, req.BudgetMax); err != nil {
		return nil, err
	}

	deadline, err := s.parseDeadline(req.Deadline)
	if err != nil {
		return nil, err
	}

	request := &models.CommissionRequest{
		ClientID:               actor.UserID,
		ArtistID:               req.ArtistID,
		Title:                  strings.TrimSpace(req.Title),
		Description:            req.Description,
		CommissionType:         commissionType,
		BudgetMin:              req.BudgetMin,
		BudgetMax:              req.BudgetMax,
		Deadline:               deadline,
		Dimensions:             req.Dimensions,
		ReferenceImages:        req.ReferenceImages,
		AdditionalRequirements: req.AdditionalRequirements,
		Status:                 models.CommissionStatusSubmitted,
	}

	if err := s.commissionRepo.CreateCommission(db.WithContext(ctx), request); err != nil {
		return nil, handleCommissionError(err)
	}

	ctx = logger.WithCommissionID(ctx, request.ID)
	logger.CtxInfo(ctx, "commission request created", "artist_id", request.ArtistID, "type", request.CommissionType)
	publish(ctx, s.publisher, events.NewEvent(events.CommissionCreated, request.ID, actor.UserID).
		WithTransition("", string(request.Status)))

	return request, nil
}

func (s *commissionService) GetCommission(ctx context.Context, db *gorm.DB, actor Actor, commissionID string) (*models.CommissionRequest, error) {
	return loadReadable(db.WithContext(ctx), s.commissionRepo, commissionID, actor)
}

func (s *commissionService) ListCommissions(ctx context.Context, db *gorm.DB, actor Actor, query *dto.ListCommissionsQuery) (*dto.CommissionListResponse, error) {
	page, pageSize := query.Page, query.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	filter := repositories.CommissionFilter{
		UserID:   actor.UserID,
		Party:    models.Party(query.Role),
		Status:   models.CommissionStatus(query.Status),
		Page:     page,
		PageSize: pageSize,
	}

	commissions, total, err := s.commissionRepo.FindCommissions(db.WithContext(ctx), filter)
	if err != nil {
		return nil, handleCommissionError(err)
	}

	return &dto.CommissionListResponse{
		Commissions: commissions,
		Total:       total,
		Page:        page,
		PageSize:    pageSize,
		TotalPages:  calculateTotalPages(total, pageSize),
	}, nil
}

func (s *commissionService) UpdateCommission(ctx context.Context, db *gorm.DB, actor Actor, commissionID string, req *dto.UpdateCommissionRequest) (*models.CommissionRequest, error) {
	var updated *models.CommissionRequest

	err := runLocked(ctx, db, s.locker, commissionID, func(tx *gorm.DB) error {
		request, party, err := lockCommission(tx, s.commissionRepo, commissionID, actor.UserID)
		if err != nil {
			return err
		}
		if err := requireParty(party, models.PartyClient, "edit the request"); err != nil {
			return err
		}
		if request.Status != models.CommissionStatusSubmitted {
			return apperrors.ErrInvalidStatus("commission", "Request can only be edited while submitted")
		}

		if err := s.applyUpdate(request, req); err != nil {
			return err
		}
		if err := s.commissionRepo.UpdateCommission(tx, request); err != nil {
			return err
		}
		updated = request
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.CtxInfo(logger.WithCommissionID(ctx, commissionID), "commission request updated")
	return updated, nil
}

func (s *commissionService) TransitionCommission(ctx context.Context, db *gorm.DB, actor Actor, commissionID string, status models.CommissionStatus) (*models.CommissionRequest, error) {
	if !status.IsValid() {
		return nil, apperrors.FieldError("status", "Unknown commission status")
	}

	var (
		updated *models.CommissionRequest
		from    models.CommissionStatus
	)

	err := runLocked(ctx, db, s.locker, commissionID, func(tx *gorm.DB) error {
		request, party, err := lockCommission(tx, s.commissionRepo, commissionID, actor.UserID)
		if err != nil {
			return err
		}
		if !request.Status.CanTransitionTo(status) {
			return apperrors.ErrInvalidTransition("commission", request.Status, status)
		}
		if !status.CanBeDrivenBy(party) {
			return apperrors.NewForbiddenError("The " + string(party) + " cannot move the request to " + string(status))
		}

		// работа начинается только по подписанному договору
		if status == models.CommissionStatusInProgress {
			if _, err := requireActiveContract(tx, s.contractRepo, commissionID, "commission"); err != nil {
				return err
			}
		}

		if err := s.commissionRepo.UpdateCommissionStatus(tx, commissionID, status); err != nil {
			return err
		}
		from = request.Status
		request.Status = status
		updated = request
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = logger.WithCommissionID(ctx, commissionID)
	logger.CtxInfo(ctx, "commission status changed", "from", from, "to", status)
	publish(ctx, s.publisher, events.NewEvent(events.CommissionStatusChanged, commissionID, actor.UserID).
		WithTransition(string(from), string(status)))

	return updated, nil
}

func (s *commissionService) DeleteCommission(ctx context.Context, db *gorm.DB, actor Actor, commissionID string) error {
	err := runLocked(ctx, db, s.locker, commissionID, func(tx *gorm.DB) error {
		_, party, err := lockCommission(tx, s.commissionRepo, commissionID, actor.UserID)
		if err != nil {
			return err
		}
		if err := requireParty(party, models.PartyClient, "delete the request"); err != nil {
			return err
		}
		return s.commissionRepo.DeleteCommissionCascade(tx, commissionID)
	})
	if err != nil {
		return err
	}

	ctx = logger.WithCommissionID(ctx, commissionID)
	logger.CtxInfo(ctx, "commission request deleted")
	publish(ctx, s.publisher, events.NewEvent(events.CommissionDeleted, commissionID, actor.UserID))
	return nil
}

// GetCommissionSummary сводит договор, план этапов и платежи в одну картину
func (s *commissionService) GetCommissionSummary(ctx context.Context, db *gorm.DB, actor Actor, commissionID string) (*dto.CommissionSummary, error) {
	db = db.WithContext(ctx)

	request, err := loadReadable(db, s.commissionRepo, commissionID, actor)
	if err != nil {
		return nil, err
	}

	summary := &dto.CommissionSummary{
		Commission:    *request,
		Milestones:    []dto.MilestoneLedger{},
		TotalPaid:     decimal.Zero,
		TotalRefunded: decimal.Zero,
		Outstanding:   decimal.Zero,
	}

	if summary.HasProposal, err = s.proposalRepo.ExistsForCommission(db, commissionID); err != nil {
		return nil, handleCommissionError(err)
	}
	if summary.HasReview, err = s.reviewRepo.ExistsForCommission(db, commissionID); err != nil {
		return nil, handleCommissionError(err)
	}

	finalPrice := decimal.Zero
	contract, err := s.contractRepo.FindContractByCommission(db, commissionID)
	switch {
	case err == nil:
		summary.HasContract = true
		summary.ContractActive = contract.IsActive()
		finalPrice = contract.FinalPrice
		summary.FinalPrice = &finalPrice
	case !errors.Is(err, repositories.ErrContractNotFound):
		return nil, handleCommissionError(err)
	}

	milestones, err := s.milestoneRepo.FindMilestonesByCommission(db, commissionID)
	if err != nil {
		return nil, handleCommissionError(err)
	}
	payments, err := s.paymentRepo.FindPaymentsByCommission(db, commissionID)
	if err != nil {
		return nil, handleCommissionError(err)
	}

	paidByMilestone := make(map[string]decimal.Decimal)
	for _, p := range payments {
		switch p.Status {
		case models.PaymentStatusCompleted:
			summary.TotalPaid = summary.TotalPaid.Add(p.Amount)
			if p.MilestoneID != nil {
				paidByMilestone[*p.MilestoneID] = paidByMilestone[*p.MilestoneID].Add(p.Amount)
			}
		case models.PaymentStatusRefunded:
			summary.TotalRefunded = summary.TotalRefunded.Add(p.Amount)
		}
	}

	for _, m := range milestones {
		summary.TotalPercentage += m.Percentage
		summary.TotalPaymentPercentage += m.PaymentPercentage

		paymentCap := milestoneCap(finalPrice, m.PaymentPercentage)
		paid := paidByMilestone[m.ID]
		summary.Milestones = append(summary.Milestones, dto.MilestoneLedger{
			Milestone:   m,
			PaymentCap:  paymentCap,
			Paid:        paid,
			Outstanding: nonNegative(paymentCap.Sub(paid)),
		})
	}

	summary.PlanComplete = len(milestones) > 0 &&
		summary.TotalPercentage == 100 && summary.TotalPaymentPercentage == 100
	if summary.HasContract {
		summary.Outstanding = nonNegative(finalPrice.Sub(summary.TotalPaid))
	}

	return summary, nil
}

// ---------------- Helpers ----------------

func (s *commissionService) parseDeadline(value string) (time.Time, error) {
	deadline, err := parseDate("deadline", value)
	if err != nil {
		return deadline, err
	}
	if deadline.Before(startOfDay(s.now())) {
		return deadline, apperrors.FieldError("deadline", "Deadline cannot be in the past")
	}
	return deadline, nil
}

func (s *commissionService) applyUpdate(request *models.CommissionRequest, req *dto.UpdateCommissionRequest) error {
	if req.Title != nil {
		request.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		request.Description = *req.Description
	}
	if req.CommissionType != nil {
		commissionType := models.CommissionType(*req.CommissionType)
		if !commissionType.IsValid() {
			return apperrors.FieldError("commission_type", "Unknown commission type")
		}
		request.CommissionType = commissionType
	}
	if req.BudgetMin != nil {
		request.BudgetMin = *req.BudgetMin
	}
	if req.BudgetMax != nil {
		request.BudgetMax = *req.BudgetMax
	}
	if err := validateBudget(request.BudgetMin, request.BudgetMax); err != nil {
		return err
	}
	if req.Deadline != nil {
		deadline, err := s.parseDeadline(*req.Deadline)
		if err != nil {
			return err
		}
		request.Deadline = deadline
	}
	if req.Dimensions != nil {
		request.Dimensions = *req.Dimensions
	}
	if req.ReferenceImages != nil {
		request.ReferenceImages = req.ReferenceImages
	}
	if req.AdditionalRequirements != nil {
		request.AdditionalRequirements = *req.AdditionalRequirements
	}
	return nil
}

func validateBudget(budgetMin, budgetMax decimal.Decimal) error {
	if err := validateMoney("budget_min", budgetMin); err != nil {
		return err
	}
	if err := validateMoney("budget_max", budgetMax); err != nil {
		return err
	}
	if budgetMin.IsNegative() {
		return apperrors.FieldError("budget_min", "Budget cannot be negative")
	}
	if !budgetMax.IsPositive() {
		return apperrors.FieldError("budget_max", "Budget must be greater than zero")
	}
	if budgetMin.GreaterThan(budgetMax) {
		return apperrors.FieldError("budget_min", "Minimum budget cannot exceed maximum budget")
	}
	return nil
}

// milestoneCap - доля итоговой цены, которую можно выплатить за этап
func milestoneCap(finalPrice decimal.Decimal, paymentPercentage int) decimal.Decimal {
	return finalPrice.Mul(decimal.NewFromInt(int64(paymentPercentage))).Div(hundred).Round(2)
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

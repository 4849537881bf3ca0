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

type ProposalService interface {
	SubmitProposal(ctx context.Context, db *gorm.DB, actor Actor, commissionID string, req *dto.SubmitProposalRequest) (*models.CommissionProposal, error)
	GetProposal(ctx context.Context, db *gorm.DB, actor Actor, commissionID string) (*models.CommissionProposal, error)
	ReplaceProposal(ctx context.Context, db *gorm.DB, actor Actor, commissionID string, req *dto.SubmitProposalRequest) (*models.CommissionProposal, error)
}

type proposalService struct {
	commissionRepo repositories.CommissionRepository
	proposalRepo   repositories.ProposalRepository
	locker         locker.Locker
	publisher      events.Publisher
}

func NewProposalService(
	commissionRepo repositories.CommissionRepository,
	proposalRepo repositories.ProposalRepository,
	lk locker.Locker,
	publisher events.Publisher,
) ProposalService {
	return &proposalService{
		commissionRepo: commissionRepo,
		proposalRepo:   proposalRepo,
		locker:         lk,
		publisher:      publisher,
	}
}

// SubmitProposal создает предложение и переводит заявку submitted -> under_review
func (s *proposalService) SubmitProposal(ctx context.Context, db *gorm.DB, actor Actor, commissionID string, req *dto.SubmitProposalRequest) (*models.CommissionProposal, error) {
	if err := validateProposal(req); err != nil {
		return nil, err
	}

	var (
		proposal *models.CommissionProposal
		from     models.CommissionStatus
		to       models.CommissionStatus
	)

	err := runLocked(ctx, db, s.locker, commissionID, func(tx *gorm.DB) error {
		request, party, err := lockCommission(tx, s.commissionRepo, commissionID, actor.UserID)
		if err != nil {
			return err
		}
		if err := requireParty(party, models.PartyArtist, "submit a proposal"); err != nil {
			return err
		}
		if !request.Status.AcceptsProposals() {
			return apperrors.ErrInvalidStatus("proposal", "Proposals are accepted only for submitted or under review requests")
		}

		exists, err := s.proposalRepo.ExistsForCommission(tx, commissionID)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.Duplicate("proposal", "A proposal already exists for this request")
		}

		proposal = buildProposal(commissionID, req)
		if err := s.proposalRepo.CreateProposal(tx, proposal); err != nil {
			return err
		}

		from, to = request.Status, request.Status
		if request.Status.CanTransitionTo(models.CommissionStatusUnderReview) {
			to = models.CommissionStatusUnderReview
			return s.commissionRepo.UpdateCommissionStatus(tx, commissionID, to)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = logger.WithCommissionID(ctx, commissionID)
	logger.CtxInfo(ctx, "proposal submitted", "proposal_id", proposal.ID, "price", proposal.ProposedPrice.String())
	publish(ctx, s.publisher, events.NewEvent(events.ProposalSubmitted, commissionID, actor.UserID).
		WithEntity(proposal.ID))
	if from != to {
		publish(ctx, s.publisher, events.NewEvent(events.CommissionStatusChanged, commissionID, actor.UserID).
			WithTransition(string(from), string(to)))
	}

	return proposal, nil
}

func (s *proposalService) GetProposal(ctx context.Context, db *gorm.DB, actor Actor, commissionID string) (*models.CommissionProposal, error) {
	db = db.WithContext(ctx)
	if _, err := loadReadable(db, s.commissionRepo, commissionID, actor); err != nil {
		return nil, err
	}

	proposal, err := s.proposalRepo.FindProposalByCommission(db, commissionID)
	if err != nil {
		return nil, handleCommissionError(err)
	}
	return proposal, nil
}

// ReplaceProposal полностью заменяет условия, пока заявка не принята
func (s *proposalService) ReplaceProposal(ctx context.Context, db *gorm.DB, actor Actor, commissionID string, req *dto.SubmitProposalRequest) (*models.CommissionProposal, error) {
	if err := validateProposal(req); err != nil {
		return nil, err
	}

	var proposal *models.CommissionProposal

	err := runLocked(ctx, db, s.locker, commissionID, func(tx *gorm.DB) error {
		request, party, err := lockCommission(tx, s.commissionRepo, commissionID, actor.UserID)
		if err != nil {
			return err
		}
		if err := requireParty(party, models.PartyArtist, "change the proposal"); err != nil {
			return err
		}
		if !request.Status.AcceptsProposals() {
			return apperrors.ErrInvalidStatus("proposal", "Proposal can no longer be changed")
		}

		existing, err := s.proposalRepo.FindProposalByCommission(tx, commissionID)
		if err != nil {
			return err
		}

		proposal = buildProposal(commissionID, req)
		proposal.BaseModel = existing.BaseModel
		return s.proposalRepo.UpdateProposal(tx, proposal)
	})
	if err != nil {
		return nil, err
	}

	ctx = logger.WithCommissionID(ctx, commissionID)
	logger.CtxInfo(ctx, "proposal replaced", "proposal_id", proposal.ID)
	publish(ctx, s.publisher, events.NewEvent(events.ProposalUpdated, commissionID, actor.UserID).
		WithEntity(proposal.ID))

	return proposal, nil
}

func buildProposal(commissionID string, req *dto.SubmitProposalRequest) *models.CommissionProposal {
	plan := make([]models.MilestonePlanStage, 0, len(req.MilestonePlan))
	for _, stage := range req.MilestonePlan {
		plan = append(plan, models.MilestonePlanStage{
			Stage:   stage.Stage,
			Days:    stage.Days,
			Payment: stage.Payment,
		})
	}

	return &models.CommissionProposal{
		CommissionRequestID:     commissionID,
		ProposedPrice:           req.ProposedPrice,
		EstimatedCompletionTime: req.EstimatedCompletionTime,
		ProposalDescription:     req.ProposalDescription,
		TermsAndConditions:      req.TermsAndConditions,
		SampleImages:            req.SampleImages,
		MilestonePlan:           plan,
	}
}

func validateProposal(req *dto.SubmitProposalRequest) error {
	if !req.ProposedPrice.IsPositive() {
		return apperrors.FieldError("proposed_price", "Price must be greater than zero")
	}
	if err := validateMoney("proposed_price", req.ProposedPrice); err != nil {
		return err
	}
	if req.EstimatedCompletionTime <= 0 {
		return apperrors.FieldError("estimated_completion_time", "Completion time must be positive")
	}

	total := 0
	for _, stage := range req.MilestonePlan {
		total += stage.Payment
	}
	if total > 100 {
		return apperrors.FieldError("milestone_plan", "Payment shares cannot exceed 100 percent")
	}
	return nil
}

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

type ContractService interface {
	CreateContract(ctx context.Context, db *gorm.DB, actor Actor, commissionID string, req *dto.CreateContractRequest) (*models.CommissionContract, error)
	GetContract(ctx context.Context, db *gorm.DB, actor Actor, commissionID string) (*models.CommissionContract, error)
	// SignContract ставит подпись стороны вызывающего. Повторный вызов возвращает договор без изменений.
	SignContract(ctx context.Context, db *gorm.DB, actor Actor, commissionID string) (*models.CommissionContract, error)
}

type contractService struct {
	commissionRepo repositories.CommissionRepository
	contractRepo   repositories.ContractRepository
	locker         locker.Locker
	publisher      events.Publisher
	now            Clock
}

func NewContractService(
	commissionRepo repositories.CommissionRepository,
	contractRepo repositories.ContractRepository,
	lk locker.Locker,
	publisher events.Publisher,
) ContractService {
	return &contractService{
		commissionRepo: commissionRepo,
		contractRepo:   contractRepo,
		locker:         lk,
		publisher:      publisher,
		now:            systemClock,
	}
}

func (s *contractService) CreateContract(ctx context.Context, db *gorm.DB, actor Actor, commissionID string, req *dto.CreateContractRequest) (*models.CommissionContract, error) {
	if !req.FinalPrice.IsPositive() {
		return nil, apperrors.FieldError("final_price", "Final price must be greater than zero")
	}
	if err := validateMoney("final_price", req.FinalPrice); err != nil {
		return nil, err
	}
	startDate, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	completionDate, err := parseDate("expected_completion_date", req.ExpectedCompletionDate)
	if err != nil {
		return nil, err
	}
	if completionDate.Before(startDate) {
		return nil, apperrors.FieldError("expected_completion_date", "Completion date cannot be before start date")
	}

	var contract *models.CommissionContract

	err = runLocked(ctx, db, s.locker, commissionID, func(tx *gorm.DB) error {
		request, _, err := lockCommission(tx, s.commissionRepo, commissionID, actor.UserID)
		if err != nil {
			return err
		}
		if request.Status != models.CommissionStatusAccepted {
			return apperrors.ErrInvalidStatus("contract", "Contract can be created only for an accepted request")
		}

		exists, err := s.contractRepo.ExistsForCommission(tx, commissionID)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.Duplicate("contract", "A contract already exists for this request")
		}

		contract = &models.CommissionContract{
			CommissionRequestID:    commissionID,
			FinalPrice:             req.FinalPrice,
			StartDate:              startDate,
			ExpectedCompletionDate: completionDate,
			TermsAgreed:            req.TermsAgreed,
		}
		return s.contractRepo.CreateContract(tx, contract)
	})
	if err != nil {
		return nil, err
	}

	ctx = logger.WithCommissionID(ctx, commissionID)
	logger.CtxInfo(ctx, "contract created", "contract_id", contract.ID, "final_price", contract.FinalPrice.String())
	publish(ctx, s.publisher, events.NewEvent(events.ContractCreated, commissionID, actor.UserID).
		WithEntity(contract.ID))

	return contract, nil
}

func (s *contractService) GetContract(ctx context.Context, db *gorm.DB, actor Actor, commissionID string) (*models.CommissionContract, error) {
	db = db.WithContext(ctx)
	if _, err := loadReadable(db, s.commissionRepo, commissionID, actor); err != nil {
		return nil, err
	}

	contract, err := s.contractRepo.FindContractByCommission(db, commissionID)
	if err != nil {
		return nil, handleCommissionError(err)
	}
	return contract, nil
}

func (s *contractService) SignContract(ctx context.Context, db *gorm.DB, actor Actor, commissionID string) (*models.CommissionContract, error) {
	var (
		contract *models.CommissionContract
		party    models.Party
		signed   bool
	)

	err := runLocked(ctx, db, s.locker, commissionID, func(tx *gorm.DB) error {
		request, p, err := lockCommission(tx, s.commissionRepo, commissionID, actor.UserID)
		if err != nil {
			return err
		}
		if err := requireOpen(request, "contract"); err != nil {
			return err
		}
		party = p

		contract, err = s.contractRepo.FindContractByCommission(tx, commissionID)
		if err != nil {
			return err
		}

		if signed = contract.Sign(party, s.now()); !signed {
			return nil
		}
		return s.contractRepo.UpdateContract(tx, contract)
	})
	if err != nil {
		return nil, err
	}

	if signed {
		ctx = logger.WithCommissionID(ctx, commissionID)
		logger.CtxInfo(ctx, "contract signed", "party", party, "active", contract.IsActive())
		event := events.NewEvent(events.ContractSigned, commissionID, actor.UserID).WithEntity(contract.ID)
		event.Attributes = map[string]string{"party": string(party)}
		if contract.IsActive() {
			event.Attributes["active"] = "true"
		}
		publish(ctx, s.publisher, event)
	}

	return contract, nil
}

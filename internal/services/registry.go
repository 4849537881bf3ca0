package services

import (
	"artwala_backend/internal/events"
	"artwala_backend/internal/locker"
	"artwala_backend/internal/repositories"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	CommissionService CommissionService
	ProposalService   ProposalService
	ContractService   ContractService
	MilestoneService  MilestoneService
	PaymentService    PaymentService
	ReviewService     ReviewService
}

// NewServiceContainer собирает репозитории и сервисы.
// Все сервисы делят одну блокировку заявок и одного издателя событий.
func NewServiceContainer(lk locker.Locker, publisher events.Publisher) *ServiceContainer {
	// --- Инициализация репозиториев ---
	commissionRepo := repositories.NewCommissionRepository()
	proposalRepo := repositories.NewProposalRepository()
	contractRepo := repositories.NewContractRepository()
	milestoneRepo := repositories.NewMilestoneRepository()
	paymentRepo := repositories.NewPaymentRepository()
	reviewRepo := repositories.NewReviewRepository()

	// --- Инициализация сервисов ---
	return &ServiceContainer{
		CommissionService: NewCommissionService(commissionRepo, proposalRepo, contractRepo, milestoneRepo, paymentRepo, reviewRepo, lk, publisher),
		ProposalService:   NewProposalService(commissionRepo, proposalRepo, lk, publisher),
		ContractService:   NewContractService(commissionRepo, contractRepo, lk, publisher),
		MilestoneService:  NewMilestoneService(commissionRepo, contractRepo, milestoneRepo, lk, publisher),
		PaymentService:    NewPaymentService(commissionRepo, contractRepo, milestoneRepo, paymentRepo, lk, publisher),
		ReviewService:     NewReviewService(commissionRepo, reviewRepo, lk, publisher),
	}
}

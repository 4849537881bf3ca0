package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	HealthHandler     *HealthHandler
	CommissionHandler *CommissionHandler
	ProposalHandler   *ProposalHandler
	ContractHandler   *ContractHandler
	MilestoneHandler  *MilestoneHandler
	PaymentHandler    *PaymentHandler
	ReviewHandler     *ReviewHandler
}

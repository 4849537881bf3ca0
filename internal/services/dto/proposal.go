package dto

import "github.com/shopspring/decimal"

type MilestonePlanStageRequest struct {
	Stage   string `json:"stage" validate:"required,max=200"`
	Days    int    `json:"days" validate:"gte=0"`
	Payment int    `json:"payment" validate:"gte=0,lte=100"`
}

// SubmitProposalRequest используется и для создания, и для полной замены
type SubmitProposalRequest struct {
	ProposedPrice           decimal.Decimal             `json:"proposed_price" validate:"gt=0"`
	EstimatedCompletionTime int                         `json:"estimated_completion_time" validate:"required,gt=0"`
	ProposalDescription     string                      `json:"proposal_description" validate:"required"`
	TermsAndConditions      string                      `json:"terms_and_conditions"`
	SampleImages            []string                    `json:"sample_images" validate:"max=20,dive,url"`
	MilestonePlan           []MilestonePlanStageRequest `json:"milestone_plan" validate:"max=20,dive"`
}

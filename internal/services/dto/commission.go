package dto

import (
	"artwala_backend/internal/models"

	"github.com/shopspring/decimal"
)

// DateLayout - формат дат в API
const DateLayout = "2006-01-02"

type CreateCommissionRequest struct {
	ArtistID               string          `json:"artist_id" validate:"required,uuid"`
	Title                  string          `json:"title" validate:"required,min=3,max=200"`
	Description            string          `json:"description" validate:"required"`
	CommissionType         string          `json:"commission_type" validate:"required,is-commission-type"`
	BudgetMin              decimal.Decimal `json:"budget_min" validate:"gte=0"`
	BudgetMax              decimal.Decimal `json:"budget_max" validate:"gt=0"`
	Deadline               string          `json:"deadline" validate:"required,datetime=2006-01-02"`
	Dimensions             string          `json:"dimensions" validate:"max=100"`
	ReferenceImages        []string        `json:"reference_images" validate:"max=20,dive,url"`
	AdditionalRequirements string          `json:"additional_requirements"`
}

// UpdateCommissionRequest - частичное обновление, пока заявка в статусе submitted
type UpdateCommissionRequest struct {
	Title                  *string          `json:"title" validate:"omitempty,min=3,max=200"`
	Description            *string          `json:"description" validate:"omitempty,min=1"`
	CommissionType         *string          `json:"commission_type" validate:"omitempty,is-commission-type"`
	BudgetMin              *decimal.Decimal `json:"budget_min"`
	BudgetMax              *decimal.Decimal `json:"budget_max"`
	Deadline               *string          `json:"deadline" validate:"omitempty,datetime=2006-01-02"`
	Dimensions             *string          `json:"dimensions" validate:"omitempty,max=100"`
	ReferenceImages        []string         `json:"reference_images" validate:"omitempty,max=20,dive,url"`
	AdditionalRequirements *string          `json:"additional_requirements"`
}

type TransitionCommissionRequest struct {
	Status string `json:"status" validate:"required,is-commission-status"`
}

type ListCommissionsQuery struct {
	Role     string `form:"role" json:"role" validate:"omitempty,oneof=client artist"`
	Status   string `form:"status" json:"status" validate:"omitempty,is-commission-status"`
	Page     int    `form:"page" json:"page" validate:"omitempty,gte=1"`
	PageSize int    `form:"page_size" json:"page_size" validate:"omitempty,gte=1,lte=100"`
}

type CommissionListResponse struct {
	Commissions []models.CommissionRequest `json:"commissions"`
	Total       int64                      `json:"total"`
	Page        int                        `json:"page"`
	PageSize    int                        `json:"page_size"`
	TotalPages  int                        `json:"total_pages"`
}

// MilestoneLedger - этап с лимитом и фактическими выплатами
type MilestoneLedger struct {
	Milestone   models.CommissionMilestone `json:"milestone"`
	PaymentCap  decimal.Decimal            `json:"payment_cap"`
	Paid        decimal.Decimal            `json:"paid"`
	Outstanding decimal.Decimal            `json:"outstanding"`
}

// CommissionSummary - сверка по заявке: договор, план этапов, платежи
type CommissionSummary struct {
	Commission             models.CommissionRequest `json:"commission"`
	HasProposal            bool                     `json:"has_proposal"`
	HasContract            bool                     `json:"has_contract"`
	ContractActive         bool                     `json:"contract_active"`
	FinalPrice             *decimal.Decimal         `json:"final_price,omitempty"`
	TotalPercentage        int                      `json:"total_percentage"`
	TotalPaymentPercentage int                      `json:"total_payment_percentage"`
	PlanComplete           bool                     `json:"plan_complete"`
	Milestones             []MilestoneLedger        `json:"milestones"`
	TotalPaid              decimal.Decimal          `json:"total_paid"`
	TotalRefunded          decimal.Decimal          `json:"total_refunded"`
	Outstanding            decimal.Decimal          `json:"outstanding"`
	HasReview              bool                     `json:"has_review"`
}

package dto

import "github.com/shopspring/decimal"

type CreateContractRequest struct {
	FinalPrice             decimal.Decimal `json:"final_price" validate:"gt=0"`
	StartDate              string          `json:"start_date" validate:"required,datetime=2006-01-02"`
	ExpectedCompletionDate string          `json:"expected_completion_date" validate:"required,datetime=2006-01-02"`
	TermsAgreed            string          `json:"terms_agreed" validate:"required"`
}

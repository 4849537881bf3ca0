package dto

import "github.com/shopspring/decimal"

// RecordPaymentRequest - без milestone_id платеж относится ко всему договору
type RecordPaymentRequest struct {
	MilestoneID   *string         `json:"milestone_id" validate:"omitempty,uuid"`
	Amount        decimal.Decimal `json:"amount" validate:"gt=0"`
	PaymentMethod string          `json:"payment_method" validate:"required,max=50"`
}

type UpdatePaymentStatusRequest struct {
	Status        string `json:"status" validate:"required,is-payment-status"`
	TransactionID string `json:"transaction_id" validate:"max=200"`
}

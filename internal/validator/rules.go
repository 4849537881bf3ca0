package validator

import (
	"log"

	"artwala_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует кастомные правила на основе statuses.go
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-commission-type", validateCommissionType)
	mustRegister("is-commission-status", validateCommissionStatus)
	mustRegister("is-milestone-status", validateMilestoneStatus)
	mustRegister("is-payment-status", validatePaymentStatus)
}

// Пустые значения не проверяем, для этого есть 'required'

func validateCommissionType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.CommissionType(value).IsValid()
}

func validateCommissionStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.CommissionStatus(value).IsValid()
}

func validateMilestoneStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.MilestoneStatus(value).IsValid()
}

func validatePaymentStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.PaymentStatus(value).IsValid()
}

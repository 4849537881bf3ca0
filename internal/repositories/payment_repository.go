package repositories

import (
	"errors"

	"artwala_backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrPaymentNotFound = errors.New("payment not found")
)

type PaymentRepository interface {
	CreatePayment(db *gorm.DB, payment *models.CommissionPayment) error
	FindPaymentByID(db *gorm.DB, id string) (*models.CommissionPayment, error)
	FindPaymentForUpdate(db *gorm.DB, id string) (*models.CommissionPayment, error)
	FindPaymentsByCommission(db *gorm.DB, commissionID string) ([]models.CommissionPayment, error)
	// SumCompleted - сумма завершенных платежей по цели (весь договор = все платежи заявки)
	SumCompleted(db *gorm.DB, commissionID string, target models.PaymentTarget) (decimal.Decimal, error)
	UpdatePayment(db *gorm.DB, payment *models.CommissionPayment) error
}

type PaymentRepositoryImpl struct{}

func NewPaymentRepository() PaymentRepository {
	return &PaymentRepositoryImpl{}
}

func (r *PaymentRepositoryImpl) CreatePayment(db *gorm.DB, payment *models.CommissionPayment) error {
	return translate(db.Create(payment).Error, nil)
}

func (r *PaymentRepositoryImpl) FindPaymentByID(db *gorm.DB, id string) (*models.CommissionPayment, error) {
	var payment models.CommissionPayment
	if err := db.First(&payment, "id = ?", id).Error; err != nil {
		return nil, translate(err, ErrPaymentNotFound)
	}
	return &payment, nil
}

func (r *PaymentRepositoryImpl) FindPaymentForUpdate(db *gorm.DB, id string) (*models.CommissionPayment, error) {
	var payment models.CommissionPayment
	if err := forUpdate(db).First(&payment, "id = ?", id).Error; err != nil {
		return nil, translate(err, ErrPaymentNotFound)
	}
	return &payment, nil
}

func (r *PaymentRepositoryImpl) FindPaymentsByCommission(db *gorm.DB, commissionID string) ([]models.CommissionPayment, error) {
	var payments []models.CommissionPayment
	err := db.Where("commission_request_id = ?", commissionID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&payments).Error
	return payments, err
}

// SumCompleted суммирует в Go, чтобы не зависеть от того, как драйвер
// возвращает DECIMAL из агрегатов.
func (r *PaymentRepositoryImpl) SumCompleted(db *gorm.DB, commissionID string, target models.PaymentTarget) (decimal.Decimal, error) {
	query := db.Model(&models.CommissionPayment{}).
		Where("commission_request_id = ? AND status = ?", commissionID, models.PaymentStatusCompleted)

	if t, ok := target.(models.SpecificMilestone); ok {
		query = query.Where("milestone_id = ?", t.MilestoneID)
	}

	var amounts []decimal.Decimal
	if err := query.Pluck("amount", &amounts).Error; err != nil {
		return decimal.Zero, err
	}
	return decimal.Sum(decimal.Zero, amounts...), nil
}

func (r *PaymentRepositoryImpl) UpdatePayment(db *gorm.DB, payment *models.CommissionPayment) error {
	return translate(db.Save(payment).Error, ErrPaymentNotFound)
}

package repositories

import (
	"errors"

	"artwala_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrMilestoneNotFound = errors.New("milestone not found")
)

// MilestoneTotals - суммы процентов по всем этапам заявки
type MilestoneTotals struct {
	Percentage        int `json:"percentage"`
	PaymentPercentage int `json:"payment_percentage"`
}

type MilestoneRepository interface {
	CreateMilestone(db *gorm.DB, milestone *models.CommissionMilestone) error
	FindMilestoneByID(db *gorm.DB, id string) (*models.CommissionMilestone, error)
	FindMilestonesByCommission(db *gorm.DB, commissionID string) ([]models.CommissionMilestone, error)
	OrderTaken(db *gorm.DB, commissionID string, order int) (bool, error)
	GetMilestoneTotals(db *gorm.DB, commissionID string) (*MilestoneTotals, error)
	UpdateMilestone(db *gorm.DB, milestone *models.CommissionMilestone) error
}

type MilestoneRepositoryImpl struct{}

func NewMilestoneRepository() MilestoneRepository {
	return &MilestoneRepositoryImpl{}
}

func (r *MilestoneRepositoryImpl) CreateMilestone(db *gorm.DB, milestone *models.CommissionMilestone) error {
	return translate(db.Create(milestone).Error, nil)
}

func (r *MilestoneRepositoryImpl) FindMilestoneByID(db *gorm.DB, id string) (*models.CommissionMilestone, error) {
	var milestone models.CommissionMilestone
	if err := db.First(&milestone, "id = ?", id).Error; err != nil {
		return nil, translate(err, ErrMilestoneNotFound)
	}
	return &milestone, nil
}

func (r *MilestoneRepositoryImpl) FindMilestonesByCommission(db *gorm.DB, commissionID string) ([]models.CommissionMilestone, error) {
	var milestones []models.CommissionMilestone
	err := db.Where("commission_request_id = ?", commissionID).
		Order("milestone_order ASC").
		Find(&milestones).Error
	return milestones, err
}

func (r *MilestoneRepositoryImpl) OrderTaken(db *gorm.DB, commissionID string, order int) (bool, error) {
	var count int64
	err := db.Model(&models.CommissionMilestone{}).
		Where("commission_request_id = ? AND milestone_order = ?", commissionID, order).
		Count(&count).Error
	return count > 0, err
}

func (r *MilestoneRepositoryImpl) GetMilestoneTotals(db *gorm.DB, commissionID string) (*MilestoneTotals, error) {
	var totals MilestoneTotals
	err := db.Model(&models.CommissionMilestone{}).
		Where("commission_request_id = ?", commissionID).
		Select("COALESCE(SUM(percentage), 0) AS percentage, COALESCE(SUM(payment_percentage), 0) AS payment_percentage").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

func (r *MilestoneRepositoryImpl) UpdateMilestone(db *gorm.DB, milestone *models.CommissionMilestone) error {
	return translate(db.Save(milestone).Error, ErrMilestoneNotFound)
}

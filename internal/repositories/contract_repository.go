package repositories

import (
	"errors"

	"artwala_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrContractNotFound = errors.New("contract not found")
)

type ContractRepository interface {
	CreateContract(db *gorm.DB, contract *models.CommissionContract) error
	FindContractByCommission(db *gorm.DB, commissionID string) (*models.CommissionContract, error)
	ExistsForCommission(db *gorm.DB, commissionID string) (bool, error)
	UpdateContract(db *gorm.DB, contract *models.CommissionContract) error
}

type ContractRepositoryImpl struct{}

func NewContractRepository() ContractRepository {
	return &ContractRepositoryImpl{}
}

func (r *ContractRepositoryImpl) CreateContract(db *gorm.DB, contract *models.CommissionContract) error {
	return translate(db.Create(contract).Error, nil)
}

func (r *ContractRepositoryImpl) FindContractByCommission(db *gorm.DB, commissionID string) (*models.CommissionContract, error) {
	var contract models.CommissionContract
	if err := db.First(&contract, "commission_request_id = ?", commissionID).Error; err != nil {
		return nil, translate(err, ErrContractNotFound)
	}
	return &contract, nil
}

func (r *ContractRepositoryImpl) ExistsForCommission(db *gorm.DB, commissionID string) (bool, error) {
	var count int64
	err := db.Model(&models.CommissionContract{}).
		Where("commission_request_id = ?", commissionID).
		Count(&count).Error
	return count > 0, err
}

func (r *ContractRepositoryImpl) UpdateContract(db *gorm.DB, contract *models.CommissionContract) error {
	return translate(db.Save(contract).Error, ErrContractNotFound)
}

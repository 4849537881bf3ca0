package repositories

import (
	"errors"

	"artwala_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrProposalNotFound = errors.New("proposal not found")
)

type ProposalRepository interface {
	CreateProposal(db *gorm.DB, proposal *models.CommissionProposal) error
	FindProposalByCommission(db *gorm.DB, commissionID string) (*models.CommissionProposal, error)
	ExistsForCommission(db *gorm.DB, commissionID string) (bool, error)
	UpdateProposal(db *gorm.DB, proposal *models.CommissionProposal) error
}

type ProposalRepositoryImpl struct{}

func NewProposalRepository() ProposalRepository {
	return &ProposalRepositoryImpl{}
}

func (r *ProposalRepositoryImpl) CreateProposal(db *gorm.DB, proposal *models.CommissionProposal) error {
	return translate(db.Create(proposal).Error, nil)
}

func (r *ProposalRepositoryImpl) FindProposalByCommission(db *gorm.DB, commissionID string) (*models.CommissionProposal, error) {
	var proposal models.CommissionProposal
	if err := db.First(&proposal, "commission_request_id = ?", commissionID).Error; err != nil {
		return nil, translate(err, ErrProposalNotFound)
	}
	return &proposal, nil
}

func (r *ProposalRepositoryImpl) ExistsForCommission(db *gorm.DB, commissionID string) (bool, error) {
	var count int64
	err := db.Model(&models.CommissionProposal{}).
		Where("commission_request_id = ?", commissionID).
		Count(&count).Error
	return count > 0, err
}

func (r *ProposalRepositoryImpl) UpdateProposal(db *gorm.DB, proposal *models.CommissionProposal) error {
	return translate(db.Save(proposal).Error, ErrProposalNotFound)
}

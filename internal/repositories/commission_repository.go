package repositories

import (
	"errors"

	"artwala_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrCommissionNotFound = errors.New("commission request not found")
)

// CommissionFilter - параметры выборки заявок пользователя
type CommissionFilter struct {
	UserID   string
	Party    models.Party // пусто - обе стороны
	Status   models.CommissionStatus
	Page     int
	PageSize int
}

type CommissionRepository interface {
	CreateCommission(db *gorm.DB, request *models.CommissionRequest) error
	FindCommissionByID(db *gorm.DB, id string) (*models.CommissionRequest, error)
	// FindCommissionForUpdate блокирует строку заявки до конца транзакции
	FindCommissionForUpdate(db *gorm.DB, id string) (*models.CommissionRequest, error)
	FindCommissions(db *gorm.DB, filter CommissionFilter) ([]models.CommissionRequest, int64, error)
	UpdateCommission(db *gorm.DB, request *models.CommissionRequest) error
	UpdateCommissionStatus(db *gorm.DB, id string, status models.CommissionStatus) error
	// DeleteCommissionCascade удаляет заявку со всеми потомками. Вызывать внутри транзакции.
	DeleteCommissionCascade(db *gorm.DB, id string) error
}

type CommissionRepositoryImpl struct{}

func NewCommissionRepository() CommissionRepository {
	return &CommissionRepositoryImpl{}
}

func (r *CommissionRepositoryImpl) CreateCommission(db *gorm.DB, request *models.CommissionRequest) error {
	return translate(db.Create(request).Error, nil)
}

func (r *CommissionRepositoryImpl) FindCommissionByID(db *gorm.DB, id string) (*models.CommissionRequest, error) {
	var request models.CommissionRequest
	if err := db.First(&request, "id = ?", id).Error; err != nil {
		return nil, translate(err, ErrCommissionNotFound)
	}
	return &request, nil
}

func (r *CommissionRepositoryImpl) FindCommissionForUpdate(db *gorm.DB, id string) (*models.CommissionRequest, error) {
	var request models.CommissionRequest
	if err := forUpdate(db).First(&request, "id = ?", id).Error; err != nil {
		return nil, translate(err, ErrCommissionNotFound)
	}
	return &request, nil
}

func (r *CommissionRepositoryImpl) FindCommissions(db *gorm.DB, filter CommissionFilter) ([]models.CommissionRequest, int64, error) {
	query := db.Model(&models.CommissionRequest{})

	switch filter.Party {
	case models.PartyClient:
		query = query.Where("client_id = ?", filter.UserID)
	case models.PartyArtist:
		query = query.Where("artist_id = ?", filter.UserID)
	default:
		query = query.Where("client_id = ? OR artist_id = ?", filter.UserID, filter.UserID)
	}

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var requests []models.CommissionRequest
	err := query.Scopes(paginate(filter.Page, filter.PageSize)).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, total, err
}

func (r *CommissionRepositoryImpl) UpdateCommission(db *gorm.DB, request *models.CommissionRequest) error {
	return translate(db.Save(request).Error, ErrCommissionNotFound)
}

func (r *CommissionRepositoryImpl) UpdateCommissionStatus(db *gorm.DB, id string, status models.CommissionStatus) error {
	result := db.Model(&models.CommissionRequest{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCommissionNotFound
	}
	return nil
}

func (r *CommissionRepositoryImpl) DeleteCommissionCascade(db *gorm.DB, id string) error {
	// Порядок важен: сначала потомки, которые ссылаются на этапы
	dependents := []interface{}{
		&models.CommissionPayment{},
		&models.CommissionMilestone{},
		&models.CommissionReview{},
		&models.CommissionContract{},
		&models.CommissionProposal{},
	}
	for _, model := range dependents {
		if err := db.Where("commission_request_id = ?", id).Delete(model).Error; err != nil {
			return err
		}
	}

	result := db.Delete(&models.CommissionRequest{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCommissionNotFound
	}
	return nil
}

package testutil

import (
	"testing"
	"time"

	"artwala_backend/internal/auth"
	"artwala_backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const JWTSecret = "test-secret"

// Participants - пара пользователей заявки
type Participants struct {
	ClientID string
	ArtistID string
}

func NewParticipants() Participants {
	return Participants{
		ClientID: uuid.NewString(),
		ArtistID: uuid.NewString(),
	}
}

// IssueToken выпускает токен так же, как внешний сервис авторизации
func IssueToken(t *testing.T, userID string, role models.UserRole) string {
	t.Helper()

	token, err := auth.NewTokenManager(JWTSecret).GenerateToken(userID, string(role), time.Hour)
	if err != nil {
		t.Fatalf("Не удалось выпустить токен: %v", err)
	}
	return token
}

// Tomorrow - ближайшая допустимая дата дедлайна в формате API
func Tomorrow() string {
	return time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")
}

// SeedCommission сохраняет заявку в указанном статусе напрямую, минуя сервисы
func SeedCommission(t *testing.T, db *gorm.DB, p Participants, status models.CommissionStatus) *models.CommissionRequest {
	t.Helper()

	request := &models.CommissionRequest{
		ClientID:       p.ClientID,
		ArtistID:       p.ArtistID,
		Title:          "Portrait of a cat",
		Description:    "Oil on canvas",
		CommissionType: models.CommissionTypePortrait,
		BudgetMin:      decimal.NewFromInt(1000),
		BudgetMax:      decimal.NewFromInt(3000),
		Deadline:       time.Now().UTC().AddDate(0, 1, 0),
		Status:         status,
	}
	if err := db.Create(request).Error; err != nil {
		t.Fatalf("Не удалось создать заявку: %v", err)
	}
	return request
}

// SeedContract создает договор; signed - подписан обеими сторонами
func SeedContract(t *testing.T, db *gorm.DB, commissionID string, finalPrice int64, signed bool) *models.CommissionContract {
	t.Helper()

	now := time.Now().UTC()
	contract := &models.CommissionContract{
		CommissionRequestID:    commissionID,
		FinalPrice:             decimal.NewFromInt(finalPrice),
		StartDate:              now,
		ExpectedCompletionDate: now.AddDate(0, 1, 0),
		TermsAgreed:            "Standard terms",
	}
	if signed {
		contract.Sign(models.PartyClient, now)
		contract.Sign(models.PartyArtist, now)
	}
	if err := db.Create(contract).Error; err != nil {
		t.Fatalf("Не удалось создать договор: %v", err)
	}
	return contract
}

func SeedMilestone(t *testing.T, db *gorm.DB, commissionID string, order, paymentPercentage int, status models.MilestoneStatus) *models.CommissionMilestone {
	t.Helper()

	milestone := &models.CommissionMilestone{
		CommissionRequestID: commissionID,
		Title:               "Stage",
		Order:               order,
		Percentage:          paymentPercentage,
		PaymentPercentage:   paymentPercentage,
		Status:              status,
	}
	if err := db.Create(milestone).Error; err != nil {
		t.Fatalf("Не удалось создать этап: %v", err)
	}
	return milestone
}

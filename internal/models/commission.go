package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// CommissionRequest - заявка клиента на индивидуальную работу художника
type CommissionRequest struct {
	BaseModel
	ClientID               string                      `gorm:"type:uuid;not null;index" json:"client_id"`
	ArtistID               string                      `gorm:"type:uuid;not null;index" json:"artist_id"`
	Title                  string                      `gorm:"size:200;not null" json:"title"`
	Description            string                      `gorm:"type:text;not null" json:"description"`
	CommissionType         CommissionType              `gorm:"size:20;not null" json:"commission_type"`
	BudgetMin              decimal.Decimal             `gorm:"type:decimal(12,2);not null" json:"budget_min"`
	BudgetMax              decimal.Decimal             `gorm:"type:decimal(12,2);not null" json:"budget_max"`
	Deadline               time.Time                   `gorm:"type:date;not null" json:"deadline"`
	Dimensions             string                      `gorm:"size:100" json:"dimensions"`
	ReferenceImages        datatypes.JSONSlice[string] `json:"reference_images"`
	AdditionalRequirements string                      `gorm:"type:text" json:"additional_requirements"`
	Status                 CommissionStatus            `gorm:"size:20;not null;index" json:"status"`
}

func (CommissionRequest) TableName() string { return "commission_requests" }

// PartyOf возвращает роль пользователя в заявке
func (r *CommissionRequest) PartyOf(userID string) (Party, bool) {
	switch userID {
	case r.ClientID:
		return PartyClient, true
	case r.ArtistID:
		return PartyArtist, true
	}
	return "", false
}

func (r *CommissionRequest) IsParticipant(userID string) bool {
	_, ok := r.PartyOf(userID)
	return ok
}

// MilestonePlanStage - строка плана этапов из предложения художника
type MilestonePlanStage struct {
	Stage   string `json:"stage"`
	Days    int    `json:"days"`
	Payment int    `json:"payment"`
}

// CommissionProposal - предложение художника, не более одного на заявку
type CommissionProposal struct {
	BaseModel
	CommissionRequestID     string                                  `gorm:"type:uuid;not null;uniqueIndex" json:"commission_request_id"`
	ProposedPrice           decimal.Decimal                         `gorm:"type:decimal(12,2);not null" json:"proposed_price"`
	EstimatedCompletionTime int                                     `gorm:"not null" json:"estimated_completion_time"`
	ProposalDescription     string                                  `gorm:"type:text;not null" json:"proposal_description"`
	TermsAndConditions      string                                  `gorm:"type:text" json:"terms_and_conditions"`
	SampleImages            datatypes.JSONSlice[string]             `json:"sample_images"`
	MilestonePlan           datatypes.JSONSlice[MilestonePlanStage] `json:"milestone_plan"`
}

func (CommissionProposal) TableName() string { return "commission_proposals" }

// CommissionContract - договор по заявке; действует после подписи обеих сторон
type CommissionContract struct {
	BaseModel
	CommissionRequestID    string          `gorm:"type:uuid;not null;uniqueIndex" json:"commission_request_id"`
	FinalPrice             decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"final_price"`
	StartDate              time.Time       `gorm:"type:date;not null" json:"start_date"`
	ExpectedCompletionDate time.Time       `gorm:"type:date;not null" json:"expected_completion_date"`
	TermsAgreed            string          `gorm:"type:text;not null" json:"terms_agreed"`
	ClientSigned           bool            `gorm:"not null;default:false" json:"client_signed"`
	ArtistSigned           bool            `gorm:"not null;default:false" json:"artist_signed"`
	ClientSignedAt         *time.Time      `json:"client_signed_at"`
	ArtistSignedAt         *time.Time      `json:"artist_signed_at"`
}

func (CommissionContract) TableName() string { return "commission_contracts" }

func (c *CommissionContract) IsActive() bool {
	return c.ClientSigned && c.ArtistSigned
}

// SignedBy сообщает, подписала ли сторона договор
func (c *CommissionContract) SignedBy(p Party) bool {
	if p == PartyClient {
		return c.ClientSigned
	}
	return c.ArtistSigned
}

// Sign ставит подпись стороны. Повторная подпись ничего не меняет.
// Возвращает true, если подпись была поставлена сейчас.
func (c *CommissionContract) Sign(p Party, at time.Time) bool {
	if c.SignedBy(p) {
		return false
	}
	if p == PartyClient {
		c.ClientSigned = true
		c.ClientSignedAt = &at
	} else {
		c.ArtistSigned = true
		c.ArtistSignedAt = &at
	}
	return true
}

// CommissionMilestone - этап работы по договору
type CommissionMilestone struct {
	BaseModel
	CommissionRequestID string                      `gorm:"type:uuid;not null;uniqueIndex:idx_milestone_order" json:"commission_request_id"`
	Title               string                      `gorm:"size:200;not null" json:"title"`
	Description         string                      `gorm:"type:text" json:"description"`
	Order               int                         `gorm:"column:milestone_order;not null;uniqueIndex:idx_milestone_order" json:"order"`
	Percentage          int                         `gorm:"not null" json:"percentage"`
	PaymentPercentage   int                         `gorm:"not null" json:"payment_percentage"`
	Status              MilestoneStatus             `gorm:"size:20;not null" json:"status"`
	ProgressImages      datatypes.JSONSlice[string] `json:"progress_images"`
	ClientFeedback      string                      `gorm:"type:text" json:"client_feedback"`
	DueDate             *time.Time                  `gorm:"type:date" json:"due_date"`
	CompletedAt         *time.Time                  `json:"completed_at"`
	ApprovedAt          *time.Time                  `json:"approved_at"`
}

func (CommissionMilestone) TableName() string { return "commission_milestones" }

// PaymentTarget - на что распределяется платеж: весь договор или конкретный этап
type PaymentTarget interface {
	isPaymentTarget()
}

type WholeContract struct{}

type SpecificMilestone struct {
	MilestoneID string
}

func (WholeContract) isPaymentTarget()     {}
func (SpecificMilestone) isPaymentTarget() {}

// CommissionPayment - запись о платеже; шлюз внешний, здесь только статус
type CommissionPayment struct {
	BaseModel
	CommissionRequestID string          `gorm:"type:uuid;not null;index" json:"commission_request_id"`
	MilestoneID         *string         `gorm:"type:uuid;index" json:"milestone_id"`
	Amount              decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	PaymentMethod       string          `gorm:"size:50;not null" json:"payment_method"`
	TransactionID       string          `gorm:"size:200" json:"transaction_id"`
	Status              PaymentStatus   `gorm:"size:20;not null;index" json:"status"`
	PaidAt              *time.Time      `json:"paid_at"`
}

func (CommissionPayment) TableName() string { return "commission_payments" }

func (p *CommissionPayment) Target() PaymentTarget {
	if p.MilestoneID == nil {
		return WholeContract{}
	}
	return SpecificMilestone{MilestoneID: *p.MilestoneID}
}

func (p *CommissionPayment) SetTarget(t PaymentTarget) {
	switch target := t.(type) {
	case SpecificMilestone:
		id := target.MilestoneID
		p.MilestoneID = &id
	default:
		p.MilestoneID = nil
	}
}

// CommissionReview - отзыв клиента, не более одного на заявку
type CommissionReview struct {
	BaseModel
	CommissionRequestID string `gorm:"type:uuid;not null;uniqueIndex" json:"commission_request_id"`
	ClientID            string `gorm:"type:uuid;not null;index" json:"client_id"`
	ArtistID            string `gorm:"type:uuid;not null;index" json:"artist_id"`
	Rating              int    `gorm:"not null" json:"rating"`
	Comment             string `gorm:"type:text;not null" json:"comment"`
	WouldRecommend      bool   `gorm:"not null" json:"would_recommend"`
}

func (CommissionReview) TableName() string { return "commission_reviews" }

package models

type UserRole string
type Party string
type CommissionType string
type CommissionStatus string
type MilestoneStatus string
type PaymentStatus string

const (
	UserRoleClient UserRole = "client"
	UserRoleArtist UserRole = "artist"
	UserRoleAdmin  UserRole = "admin"

	PartyClient Party = "client"
	PartyArtist Party = "artist"

	CommissionTypePainting     CommissionType = "painting"
	CommissionTypeSculpture    CommissionType = "sculpture"
	CommissionTypeMural        CommissionType = "mural"
	CommissionTypePortrait     CommissionType = "portrait"
	CommissionTypeDigitalArt   CommissionType = "digital_art"
	CommissionTypeIllustration CommissionType = "illustration"
	CommissionTypeOther        CommissionType = "other"

	CommissionStatusSubmitted   CommissionStatus = "submitted"
	CommissionStatusUnderReview CommissionStatus = "under_review"
	CommissionStatusAccepted    CommissionStatus = "accepted"
	CommissionStatusInProgress  CommissionStatus = "in_progress"
	CommissionStatusCompleted   CommissionStatus = "completed"
	CommissionStatusDelivered   CommissionStatus = "delivered"
	CommissionStatusRejected    CommissionStatus = "rejected"
	CommissionStatusCancelled   CommissionStatus = "cancelled"

	MilestoneStatusPending           MilestoneStatus = "pending"
	MilestoneStatusInProgress        MilestoneStatus = "in_progress"
	MilestoneStatusCompleted         MilestoneStatus = "completed"
	MilestoneStatusApproved          MilestoneStatus = "approved"
	MilestoneStatusRevisionRequested MilestoneStatus = "revision_requested"

	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleClient, UserRoleArtist, UserRoleAdmin:
		return true
	}
	return false
}

func (p Party) IsValid() bool {
	return p == PartyClient || p == PartyArtist
}

func (t CommissionType) IsValid() bool {
	switch t {
	case CommissionTypePainting, CommissionTypeSculpture, CommissionTypeMural, CommissionTypePortrait,
		CommissionTypeDigitalArt, CommissionTypeIllustration, CommissionTypeOther:
		return true
	}
	return false
}

func (s CommissionStatus) String() string { return string(s) }
func (s MilestoneStatus) String() string  { return string(s) }
func (s PaymentStatus) String() string    { return string(s) }

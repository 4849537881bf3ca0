package models

// Таблицы переходов. Любая смена статуса в сервисах проходит через них.

var commissionTransitions = map[CommissionStatus][]CommissionStatus{
	CommissionStatusSubmitted:   {CommissionStatusUnderReview, CommissionStatusRejected, CommissionStatusCancelled},
	CommissionStatusUnderReview: {CommissionStatusAccepted, CommissionStatusRejected, CommissionStatusCancelled},
	CommissionStatusAccepted:    {CommissionStatusInProgress, CommissionStatusCancelled},
	CommissionStatusInProgress:  {CommissionStatusCompleted},
	CommissionStatusCompleted:   {CommissionStatusDelivered},
	CommissionStatusDelivered:   {},
	CommissionStatusRejected:    {},
	CommissionStatusCancelled:   {},
}

// Кто из участников может перевести заявку в статус
var commissionTransitionActors = map[CommissionStatus][]Party{
	CommissionStatusUnderReview: {PartyArtist},
	CommissionStatusAccepted:    {PartyArtist},
	CommissionStatusRejected:    {PartyArtist},
	CommissionStatusInProgress:  {PartyArtist},
	CommissionStatusCompleted:   {PartyArtist},
	CommissionStatusDelivered:   {PartyArtist},
	CommissionStatusCancelled:   {PartyClient, PartyArtist},
}

var milestoneTransitions = map[MilestoneStatus][]MilestoneStatus{
	MilestoneStatusPending:           {MilestoneStatusInProgress},
	MilestoneStatusInProgress:        {MilestoneStatusCompleted},
	MilestoneStatusCompleted:         {MilestoneStatusApproved, MilestoneStatusRevisionRequested},
	MilestoneStatusRevisionRequested: {MilestoneStatusInProgress},
	MilestoneStatusApproved:          {},
}

var milestoneTransitionActors = map[MilestoneStatus][]Party{
	MilestoneStatusInProgress:        {PartyArtist},
	MilestoneStatusCompleted:         {PartyArtist},
	MilestoneStatusApproved:          {PartyClient},
	MilestoneStatusRevisionRequested: {PartyClient},
}

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:    {PaymentStatusProcessing},
	PaymentStatusProcessing: {PaymentStatusCompleted, PaymentStatusFailed},
	PaymentStatusCompleted:  {PaymentStatusRefunded},
	PaymentStatusFailed:     {},
	PaymentStatusRefunded:   {},
}

func contains[T comparable](list []T, v T) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// --- CommissionStatus ---

func (s CommissionStatus) IsValid() bool {
	_, ok := commissionTransitions[s]
	return ok
}

func (s CommissionStatus) CanTransitionTo(next CommissionStatus) bool {
	return contains(commissionTransitions[s], next)
}

func (s CommissionStatus) IsTerminal() bool {
	return s.IsValid() && len(commissionTransitions[s]) == 0
}

// CanBeDrivenBy проверяет, может ли сторона перевести заявку в этот статус
func (s CommissionStatus) CanBeDrivenBy(p Party) bool {
	return contains(commissionTransitionActors[s], p)
}

// AcceptsProposals - статусы, в которых художник может прислать предложение
func (s CommissionStatus) AcceptsProposals() bool {
	return s == CommissionStatusSubmitted || s == CommissionStatusUnderReview
}

// AcceptsMilestones - статусы, в которых можно планировать этапы
func (s CommissionStatus) AcceptsMilestones() bool {
	return s == CommissionStatusAccepted || s == CommissionStatusInProgress
}

// AcceptsReviews - статусы, в которых клиент может оставить отзыв
func (s CommissionStatus) AcceptsReviews() bool {
	return s == CommissionStatusCompleted || s == CommissionStatusDelivered
}

// --- MilestoneStatus ---

func (s MilestoneStatus) IsValid() bool {
	_, ok := milestoneTransitions[s]
	return ok
}

func (s MilestoneStatus) CanTransitionTo(next MilestoneStatus) bool {
	return contains(milestoneTransitions[s], next)
}

func (s MilestoneStatus) CanBeDrivenBy(p Party) bool {
	return contains(milestoneTransitionActors[s], p)
}

// --- PaymentStatus ---

func (s PaymentStatus) IsValid() bool {
	_, ok := paymentTransitions[s]
	return ok
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	return contains(paymentTransitions[s], next)
}

package events

import (
	"context"
	"time"
)

type EventType string

const (
	CommissionCreated       EventType = "commission.created"
	CommissionStatusChanged EventType = "commission.status_changed"
	CommissionDeleted       EventType = "commission.deleted"
	ProposalSubmitted       EventType = "proposal.submitted"
	ProposalUpdated         EventType = "proposal.updated"
	ContractCreated         EventType = "contract.created"
	ContractSigned          EventType = "contract.signed"
	MilestoneCreated        EventType = "milestone.created"
	MilestoneStatusChanged  EventType = "milestone.status_changed"
	PaymentRecorded         EventType = "payment.recorded"
	PaymentStatusChanged    EventType = "payment.status_changed"
	ReviewSubmitted         EventType = "review.submitted"
)

// Event - событие жизненного цикла заказа. Ключ сообщения - ID заявки,
// поэтому события одной заявки попадают в одну партицию по порядку.
type Event struct {
	Type         EventType         `json:"type"`
	CommissionID string            `json:"commission_id"`
	ActorID      string            `json:"actor_id,omitempty"`
	EntityID     string            `json:"entity_id,omitempty"`
	From         string            `json:"from,omitempty"`
	To           string            `json:"to,omitempty"`
	Attributes   map[string]string `json:"attributes,omitempty"`
	OccurredAt   time.Time         `json:"occurred_at"`
}

// Publisher отправляет события после коммита транзакции.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NewEvent заполняет время события
func NewEvent(t EventType, commissionID, actorID string) Event {
	return Event{
		Type:         t,
		CommissionID: commissionID,
		ActorID:      actorID,
		OccurredAt:   time.Now().UTC(),
	}
}

// WithTransition добавляет в событие старый и новый статусы
func (e Event) WithTransition(from, to string) Event {
	e.From = from
	e.To = to
	return e
}

func (e Event) WithEntity(id string) Event {
	e.EntityID = id
	return e
}

package dto

type CreateMilestoneRequest struct {
	Title             string `json:"title" validate:"required,max=200"`
	Description       string `json:"description"`
	Order             int    `json:"order" validate:"required,gt=0"`
	Percentage        int    `json:"percentage" validate:"gte=0,lte=100"`
	PaymentPercentage int    `json:"payment_percentage" validate:"gte=0,lte=100"`
	DueDate           string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

type AdvanceMilestoneRequest struct {
	Status         string   `json:"status" validate:"required,is-milestone-status"`
	ClientFeedback string   `json:"client_feedback"`
	ProgressImages []string `json:"progress_images" validate:"max=20,dive,url"`
}

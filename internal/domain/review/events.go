package review

import "time"

const (
	EventReviewSubmitted = "ReviewSubmitted"
	EventReviewRevised   = "ReviewRevised"
	EventReviewDeleted   = "ReviewDeleted"
)

type ReviewSubmitted struct {
	ReviewID    string    `json:"review_id"`
	UserID      string    `json:"user_id"`
	ProductID   string    `json:"product_id,omitempty"`
	DisplayName string    `json:"display_name"`
	Body        string    `json:"body"`
	Rating      int       `json:"rating"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type ReviewRevised struct {
	ReviewID  string    `json:"review_id"`
	Body      string    `json:"body"`
	Rating    int       `json:"rating"`
	RevisedAt time.Time `json:"revised_at"`
}

type ReviewDeleted struct {
	ReviewID  string    `json:"review_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

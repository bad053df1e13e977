package review

import (
	"context"
	"errors"
	"time"

	"github.com/example/storefront/internal/infrastructure/store"
)

const AggregateType = "Review"

var (
	ErrReviewNotFound = errors.New("review not found")
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
	ErrEmptyBody      = errors.New("review body is required")
)

type Service struct {
	eventStore store.EventStoreInterface
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

// ReviewID derives the deterministic aggregate ID. One review per user for
// the site, one per user and product for product reviews.
func ReviewID(userID, productID string) string {
	if productID == "" {
		return "review-" + userID
	}
	return "review-" + userID + "-" + productID
}

func validate(body string, rating int) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	if body == "" {
		return ErrEmptyBody
	}
	return nil
}

// Submit creates a new review. ProductID is empty for site testimonials.
func (s *Service) Submit(ctx context.Context, userID, productID, displayName, body string, rating int, photoURL string) (string, error) {
	if err := validate(body, rating); err != nil {
		return "", err
	}

	reviewID := ReviewID(userID, productID)

	event := ReviewSubmitted{
		ReviewID:    reviewID,
		UserID:      userID,
		ProductID:   productID,
		DisplayName: displayName,
		Body:        body,
		Rating:      rating,
		PhotoURL:    photoURL,
		SubmittedAt: time.Now(),
	}

	if _, err := s.eventStore.Append(ctx, reviewID, AggregateType, EventReviewSubmitted, event); err != nil {
		return "", err
	}

	return reviewID, nil
}

// Revise replaces the body and rating of an existing review in place
func (s *Service) Revise(ctx context.Context, reviewID, body string, rating int) error {
	if err := validate(body, rating); err != nil {
		return err
	}

	events := s.eventStore.GetEvents(reviewID)
	if len(events) == 0 {
		return ErrReviewNotFound
	}

	event := ReviewRevised{
		ReviewID:  reviewID,
		Body:      body,
		Rating:    rating,
		RevisedAt: time.Now(),
	}

	_, err := s.eventStore.Append(ctx, reviewID, AggregateType, EventReviewRevised, event)
	return err
}

// Delete removes a review
func (s *Service) Delete(ctx context.Context, reviewID string) error {
	events := s.eventStore.GetEvents(reviewID)
	if len(events) == 0 {
		return ErrReviewNotFound
	}

	event := ReviewDeleted{
		ReviewID:  reviewID,
		DeletedAt: time.Now(),
	}

	_, err := s.eventStore.Append(ctx, reviewID, AggregateType, EventReviewDeleted, event)
	return err
}

package command

import (
	"context"
	"testing"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/message"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/product"
	"github.com/example/storefront/internal/domain/review"
	"github.com/example/storefront/internal/infrastructure/store/mocks"
	"github.com/example/storefront/internal/readmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler() (*Handler, *mocks.MockEventStore, *mocks.MockReadStore) {
	eventStore := mocks.NewMockEventStore()
	readStore := mocks.NewMockReadStore()

	handler := NewHandler(
		product.NewService(eventStore),
		cart.NewService(eventStore),
		order.NewService(eventStore),
		review.NewService(eventStore),
		message.NewService(eventStore),
		readStore,
	)
	return handler, eventStore, readStore
}

func seedProduct(t *testing.T, readStore *mocks.MockReadStore, p *readmodel.ProductReadModel) {
	t.Helper()
	require.NoError(t, readStore.Set("products", p.ID, p))
}

func TestHandler_CreateProduct(t *testing.T) {
	handler, eventStore, _ := newTestHandler()

	productID, err := handler.CreateProduct(context.Background(), CreateProduct{
		Name:         "Ceramic Vase",
		Category:     "decor",
		Description:  "Hand-thrown vase",
		MainImageURL: "https://cdn.example.com/vase.jpg",
		Price:        15000,
		Availability: product.AvailabilityInStock,
		Quantity:     10,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, productID)
	require.Len(t, eventStore.AppendCalls, 1)
	assert.Equal(t, product.EventProductCreated, eventStore.AppendCalls[0].EventType)
}

func TestHandler_AddToCart_SnapshotsPrice(t *testing.T) {
	handler, eventStore, readStore := newTestHandler()

	seedProduct(t, readStore, &readmodel.ProductReadModel{
		ID:           "prod-1",
		Name:         "Linen Shirt",
		Price:        12000,
		Availability: product.AvailabilityInStock,
		MainImageURL: "https://cdn.example.com/shirt.jpg",
	})

	err := handler.AddToCart(context.Background(), AddToCart{
		UserID:    "user-1",
		ProductID: "prod-1",
		Size:      "M",
		Quantity:  2,
	})

	require.NoError(t, err)
	require.Len(t, eventStore.AppendCalls, 1)
	event := eventStore.AppendCalls[0].Data.(cart.CartLineAdded)
	assert.Equal(t, 12000, event.UnitPrice)
	assert.Equal(t, "prod-1-M", event.LineID)
	assert.Equal(t, "Linen Shirt", event.Name)
}

func TestHandler_AddToCart_DiscountedProduct(t *testing.T) {
	handler, eventStore, readStore := newTestHandler()

	seedProduct(t, readStore, &readmodel.ProductReadModel{
		ID:              "prod-1",
		Name:            "Ceramic Vase",
		OriginalPrice:   20000,
		DiscountedPrice: 15000,
		Availability:    product.AvailabilityInStock,
	})

	err := handler.AddToCart(context.Background(), AddToCart{
		UserID:    "user-1",
		ProductID: "prod-1",
		Quantity:  1,
	})

	require.NoError(t, err)
	event := eventStore.AppendCalls[0].Data.(cart.CartLineAdded)
	assert.Equal(t, 20000, event.UnitPrice)
	assert.Equal(t, 15000, event.DiscountedPrice)
}

func TestHandler_AddToCart_UnknownProduct(t *testing.T) {
	handler, _, _ := newTestHandler()

	err := handler.AddToCart(context.Background(), AddToCart{
		UserID:    "user-1",
		ProductID: "missing",
		Quantity:  1,
	})

	assert.ErrorIs(t, err, product.ErrProductNotFound)
}

func TestHandler_AddToCart_OutOfStock(t *testing.T) {
	handler, eventStore, readStore := newTestHandler()

	seedProduct(t, readStore, &readmodel.ProductReadModel{
		ID:           "prod-1",
		Name:         "Linen Shirt",
		Price:        12000,
		Availability: product.AvailabilityOutOfStock,
	})

	err := handler.AddToCart(context.Background(), AddToCart{
		UserID:    "user-1",
		ProductID: "prod-1",
		Quantity:  1,
	})

	assert.ErrorIs(t, err, ErrProductUnavailable)
	assert.Empty(t, eventStore.AppendCalls)
}

func TestHandler_AddToCart_PreOrderAllowed(t *testing.T) {
	handler, _, readStore := newTestHandler()

	seedProduct(t, readStore, &readmodel.ProductReadModel{
		ID:           "prod-1",
		Name:         "Linen Shirt",
		Price:        12000,
		Availability: product.AvailabilityPreOrder,
	})

	err := handler.AddToCart(context.Background(), AddToCart{
		UserID:    "user-1",
		ProductID: "prod-1",
		Quantity:  1,
	})

	assert.NoError(t, err)
}

func TestHandler_SubmitReview_NewReview(t *testing.T) {
	handler, eventStore, _ := newTestHandler()

	reviewID, err := handler.SubmitReview(context.Background(), SubmitReview{
		UserID:      "user-1",
		ProductID:   "prod-1",
		DisplayName: "Ada",
		Body:        "Great",
		Rating:      5,
	})

	require.NoError(t, err)
	assert.Equal(t, "review-user-1-prod-1", reviewID)
	assert.Equal(t, review.EventReviewSubmitted, eventStore.AppendCalls[0].EventType)
}

func TestHandler_SubmitReview_RevisesExisting(t *testing.T) {
	handler, eventStore, readStore := newTestHandler()
	ctx := context.Background()

	// First submission
	reviewID, err := handler.SubmitReview(ctx, SubmitReview{
		UserID: "user-1", ProductID: "prod-1", DisplayName: "Ada", Body: "Good", Rating: 3,
	})
	require.NoError(t, err)

	// The projector would have written the read model
	require.NoError(t, readStore.Set("reviews", reviewID, &readmodel.ReviewReadModel{ID: reviewID}))

	// Second submission revises instead of duplicating
	secondID, err := handler.SubmitReview(ctx, SubmitReview{
		UserID: "user-1", ProductID: "prod-1", DisplayName: "Ada", Body: "Excellent", Rating: 5,
	})

	require.NoError(t, err)
	assert.Equal(t, reviewID, secondID)
	require.Len(t, eventStore.AppendCalls, 2)
	assert.Equal(t, review.EventReviewRevised, eventStore.AppendCalls[1].EventType)
}

func TestHandler_FulfillOrder(t *testing.T) {
	handler, eventStore, _ := newTestHandler()
	ctx := context.Background()

	placed, err := order.NewService(eventStore).Place(ctx, order.PlaceDetails{
		UserID:       "user-1",
		CustomerName: "Ada",
		Email:        "ada@example.com",
		Items:        []order.ItemSnapshot{{ProductID: "prod-1", Quantity: 1, UnitPrice: 12000}},
		ProofURL:     "https://cdn.example.com/proofs/p.jpg",
	})
	require.NoError(t, err)

	err = handler.FulfillOrder(ctx, FulfillOrder{OrderID: placed.ID})

	require.NoError(t, err)
	last := eventStore.AppendCalls[len(eventStore.AppendCalls)-1]
	assert.Equal(t, order.EventOrderFulfilled, last.EventType)
}

func TestHandler_RejectOrder_Terminal(t *testing.T) {
	handler, eventStore, _ := newTestHandler()
	ctx := context.Background()

	placed, err := order.NewService(eventStore).Place(ctx, order.PlaceDetails{
		UserID:   "user-1",
		Email:    "ada@example.com",
		Items:    []order.ItemSnapshot{{ProductID: "prod-1", Quantity: 1, UnitPrice: 12000}},
		ProofURL: "https://cdn.example.com/proofs/p.jpg",
	})
	require.NoError(t, err)

	require.NoError(t, handler.RejectOrder(ctx, RejectOrder{OrderID: placed.ID, Reason: "proof unreadable"}))

	// Rejected orders cannot be fulfilled afterwards
	err = handler.FulfillOrder(ctx, FulfillOrder{OrderID: placed.ID})
	assert.ErrorIs(t, err, order.ErrOrderFinal)
}

func TestHandler_SubmitMessage(t *testing.T) {
	handler, eventStore, _ := newTestHandler()

	messageID, err := handler.SubmitMessage(context.Background(), SubmitMessage{
		Name:  "Ada",
		Email: "ada@example.com",
		Body:  "Do you ship to Abuja?",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, messageID)
	assert.Equal(t, message.EventMessageReceived, eventStore.AppendCalls[0].EventType)
}

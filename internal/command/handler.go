package command

import (
	"context"
	"errors"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/message"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/product"
	"github.com/example/storefront/internal/domain/review"
	"github.com/example/storefront/internal/infrastructure/store"
	"github.com/example/storefront/internal/readmodel"
)

var ErrProductUnavailable = errors.New("product is out of stock")

// Handler coordinates write-side operations that need read model lookups
// before emitting events
type Handler struct {
	productSvc *product.Service
	cartSvc    *cart.Service
	orderSvc   *order.Service
	reviewSvc  *review.Service
	messageSvc *message.Service
	readStore  store.ReadStoreInterface
}

func NewHandler(
	productSvc *product.Service,
	cartSvc *cart.Service,
	orderSvc *order.Service,
	reviewSvc *review.Service,
	messageSvc *message.Service,
	readStore store.ReadStoreInterface,
) *Handler {
	return &Handler{
		productSvc: productSvc,
		cartSvc:    cartSvc,
		orderSvc:   orderSvc,
		reviewSvc:  reviewSvc,
		messageSvc: messageSvc,
		readStore:  readStore,
	}
}

// CreateProduct creates a new catalog product. Read models update
// asynchronously via the projector.
func (h *Handler) CreateProduct(ctx context.Context, cmd CreateProduct) (string, error) {
	return h.productSvc.Create(ctx, product.Details{
		Name:             cmd.Name,
		Category:         cmd.Category,
		Description:      cmd.Description,
		Specifications:   cmd.Specifications,
		MainImageURL:     cmd.MainImageURL,
		GalleryImageURLs: cmd.GalleryImageURLs,
		Price:            cmd.Price,
		OriginalPrice:    cmd.OriginalPrice,
		DiscountedPrice:  cmd.DiscountedPrice,
		Availability:     cmd.Availability,
		Quantity:         cmd.Quantity,
	})
}

// UpdateProduct replaces a product's details
func (h *Handler) UpdateProduct(ctx context.Context, cmd UpdateProduct) error {
	return h.productSvc.Update(ctx, cmd.ProductID, product.Details{
		Name:             cmd.Name,
		Category:         cmd.Category,
		Description:      cmd.Description,
		Specifications:   cmd.Specifications,
		MainImageURL:     cmd.MainImageURL,
		GalleryImageURLs: cmd.GalleryImageURLs,
		Price:            cmd.Price,
		OriginalPrice:    cmd.OriginalPrice,
		DiscountedPrice:  cmd.DiscountedPrice,
		Availability:     cmd.Availability,
		Quantity:         cmd.Quantity,
	})
}

// DeleteProduct removes a product from the catalog
func (h *Handler) DeleteProduct(ctx context.Context, cmd DeleteProduct) error {
	return h.productSvc.Delete(ctx, cmd.ProductID)
}

// AddToCart snapshots the product's current price into a cart line. Out of
// stock products cannot be added; pre-order products can.
func (h *Handler) AddToCart(ctx context.Context, cmd AddToCart) error {
	p, ok, err := h.readStore.Get("products", cmd.ProductID)
	if err != nil {
		return err
	}
	if !ok {
		return product.ErrProductNotFound
	}
	prod := p.(*readmodel.ProductReadModel)

	if prod.Availability == product.AvailabilityOutOfStock {
		return ErrProductUnavailable
	}

	unitPrice := prod.Price
	if prod.DiscountedPrice > 0 {
		unitPrice = prod.OriginalPrice
	}

	return h.cartSvc.AddLine(ctx, cmd.UserID, cart.Line{
		ProductID:       cmd.ProductID,
		Name:            prod.Name,
		UnitPrice:       unitPrice,
		DiscountedPrice: prod.DiscountedPrice,
		ImageURL:        prod.MainImageURL,
		Size:            cmd.Size,
		Quantity:        cmd.Quantity,
	})
}

// SetCartQuantity replaces a line's quantity
func (h *Handler) SetCartQuantity(ctx context.Context, cmd SetCartQuantity) error {
	return h.cartSvc.SetQuantity(ctx, cmd.UserID, cmd.LineID, cmd.Quantity)
}

// RemoveFromCart removes a line from the cart
func (h *Handler) RemoveFromCart(ctx context.Context, cmd RemoveFromCart) error {
	return h.cartSvc.RemoveLine(ctx, cmd.UserID, cmd.LineID)
}

// FulfillOrder marks a pending order fulfilled after payment verification
func (h *Handler) FulfillOrder(ctx context.Context, cmd FulfillOrder) error {
	return h.orderSvc.Fulfill(ctx, cmd.OrderID)
}

// RejectOrder marks a pending order rejected
func (h *Handler) RejectOrder(ctx context.Context, cmd RejectOrder) error {
	return h.orderSvc.Reject(ctx, cmd.OrderID, cmd.Reason)
}

// SubmitReview creates a review, or revises the user's existing review for
// the same target in place
func (h *Handler) SubmitReview(ctx context.Context, cmd SubmitReview) (string, error) {
	reviewID := review.ReviewID(cmd.UserID, cmd.ProductID)

	_, exists, err := h.readStore.Get("reviews", reviewID)
	if err != nil {
		return "", err
	}
	if exists {
		return reviewID, h.reviewSvc.Revise(ctx, reviewID, cmd.Body, cmd.Rating)
	}

	return h.reviewSvc.Submit(ctx, cmd.UserID, cmd.ProductID, cmd.DisplayName, cmd.Body, cmd.Rating, cmd.PhotoURL)
}

// SubmitMessage records a contact form submission
func (h *Handler) SubmitMessage(ctx context.Context, cmd SubmitMessage) (string, error) {
	return h.messageSvc.Receive(ctx, cmd.Name, cmd.Email, cmd.Body)
}

// DeleteMessage removes a message from the admin inbox
func (h *Handler) DeleteMessage(ctx context.Context, cmd DeleteMessage) error {
	return h.messageSvc.Delete(ctx, cmd.MessageID)
}

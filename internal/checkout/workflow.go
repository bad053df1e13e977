package checkout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/email"
	"github.com/example/storefront/internal/infrastructure/objectstore"
	"github.com/google/uuid"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrMissingProof       = errors.New("payment proof upload is required")
	ErrIncompleteShipping = errors.New("shipping details are incomplete")
)

// ShippingDetails is the delivery information collected at checkout
type ShippingDetails struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
}

// FullAddress joins the address parts into the single line stored on orders
func (d ShippingDetails) FullAddress() string {
	return fmt.Sprintf("%s, %s, %s %s", d.Address, d.City, d.State, d.Zip)
}

func (d ShippingDetails) validate() error {
	if d.Name == "" || d.Phone == "" || d.Address == "" || d.City == "" || d.State == "" {
		return ErrIncompleteShipping
	}
	return nil
}

// Request carries everything needed to place an order
type Request struct {
	UserID           string
	Email            string
	Shipping         ShippingDetails
	Proof            io.Reader
	ProofContentType string
}

// Workflow runs the checkout sequence: upload the payment proof, place the
// order from the cart snapshot, clear the ordered cart lines, and notify the
// operators. Clearing and notification are best-effort; once the order event
// is appended the checkout has succeeded.
type Workflow struct {
	cartSvc      *cart.Service
	orderSvc     *order.Service
	uploads      objectstore.Uploader
	emails       email.Sender
	operatorAddr []string
}

func NewWorkflow(
	cartSvc *cart.Service,
	orderSvc *order.Service,
	uploads objectstore.Uploader,
	emails email.Sender,
	operatorAddr []string,
) *Workflow {
	return &Workflow{
		cartSvc:      cartSvc,
		orderSvc:     orderSvc,
		uploads:      uploads,
		emails:       emails,
		operatorAddr: operatorAddr,
	}
}

// Run executes the checkout and returns the placed order
func (w *Workflow) Run(ctx context.Context, req Request) (*order.Order, error) {
	// Step 1: validate the request
	if err := req.Shipping.validate(); err != nil {
		return nil, err
	}
	if req.Proof == nil {
		return nil, ErrMissingProof
	}

	// Step 2: load the cart; an empty cart cannot check out
	userCart, err := w.cartSvc.Load(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(userCart.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	// Step 3: upload the payment proof. A failed upload aborts the checkout
	// before any order event exists.
	proofURL, err := w.uploadProof(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to upload payment proof: %w", err)
	}

	// Step 4: place the order with item snapshots from the cart
	items, lineIDs := snapshotLines(userCart)

	placed, err := w.orderSvc.Place(ctx, order.PlaceDetails{
		UserID:       req.UserID,
		CustomerName: req.Shipping.Name,
		Email:        req.Email,
		Phone:        req.Shipping.Phone,
		Address:      req.Shipping.FullAddress(),
		Items:        items,
		ProofURL:     proofURL,
	})
	if err != nil {
		return nil, err
	}

	// Step 5: clear exactly the ordered lines. Lines added mid-checkout
	// survive.
	w.cartSvc.ClearOrdered(ctx, req.UserID, lineIDs)

	// Step 6: notify the operators. Failure is logged, never surfaced.
	w.notifyOperators(placed)

	return placed, nil
}

func (w *Workflow) uploadProof(ctx context.Context, req Request) (string, error) {
	ext := extensionFor(req.ProofContentType)
	key := fmt.Sprintf("proofs/%s/%s%s", req.UserID, uuid.New().String(), ext)
	return w.uploads.Upload(ctx, key, req.ProofContentType, req.Proof)
}

func snapshotLines(c *cart.Cart) ([]order.ItemSnapshot, []string) {
	items := make([]order.ItemSnapshot, 0, len(c.Lines))
	lineIDs := make([]string, 0, len(c.Lines))
	for _, line := range c.Lines {
		unitPrice := line.UnitPrice
		if line.DiscountedPrice > 0 {
			unitPrice = line.DiscountedPrice
		}
		items = append(items, order.ItemSnapshot{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: unitPrice,
			ImageURL:  line.ImageURL,
			Size:      line.Size,
		})
		lineIDs = append(lineIDs, line.LineID)
	}
	return items, lineIDs
}

func (w *Workflow) notifyOperators(placed *order.Order) {
	if w.emails == nil || len(w.operatorAddr) == 0 {
		return
	}

	items := make([]email.OrderItem, 0, len(placed.Items))
	for _, item := range placed.Items {
		items = append(items, email.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Size:      item.Size,
		})
	}

	if err := w.emails.SendOrderNotification(w.operatorAddr, placed.ID, placed.CustomerName, placed.Total, items, placed.ProofURL); err != nil {
		log.Printf("[Checkout] Failed to send order notification for %s: %v", placed.ID, err)
	}
}

func extensionFor(contentType string) string {
	switch {
	case strings.Contains(contentType, "png"):
		return ".png"
	case strings.Contains(contentType, "jpeg"), strings.Contains(contentType, "jpg"):
		return ".jpg"
	case strings.Contains(contentType, "pdf"):
		return ".pdf"
	default:
		return ""
	}
}

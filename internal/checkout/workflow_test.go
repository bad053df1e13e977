package checkout

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/email"
	"github.com/example/storefront/internal/infrastructure/store/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	uploads  []string
	onUpload func()
	err      error
}

func (f *fakeUploader) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.onUpload != nil {
		f.onUpload()
	}
	f.uploads = append(f.uploads, key)
	return "https://cdn.example.com/" + key, nil
}

func (f *fakeUploader) Delete(ctx context.Context, key string) error { return nil }

type fakeSender struct {
	orderNotifications int
	lastProofURL       string
	err                error
}

func (f *fakeSender) SendOrderNotification(to []string, orderID, customerName string, total int, items []email.OrderItem, proofURL string) error {
	f.orderNotifications++
	f.lastProofURL = proofURL
	return f.err
}

func (f *fakeSender) SendStatusUpdate(to, customerName, orderID, status string) error {
	return f.err
}

func (f *fakeSender) SendContactNotification(to []string, name, fromEmail, body string) error {
	return f.err
}

type fixture struct {
	workflow   *Workflow
	cartSvc    *cart.Service
	orderSvc   *order.Service
	eventStore *mocks.MockEventStore
	uploader   *fakeUploader
	sender     *fakeSender
}

func newFixture() *fixture {
	eventStore := mocks.NewMockEventStore()
	cartSvc := cart.NewService(eventStore)
	orderSvc := order.NewService(eventStore)
	uploader := &fakeUploader{}
	sender := &fakeSender{}

	workflow := NewWorkflow(cartSvc, orderSvc, uploader, sender,
		[]string{"orders@example.com"})

	return &fixture{
		workflow:   workflow,
		cartSvc:    cartSvc,
		orderSvc:   orderSvc,
		eventStore: eventStore,
		uploader:   uploader,
		sender:     sender,
	}
}

func validRequest() Request {
	return Request{
		UserID: "user-1",
		Email:  "ada@example.com",
		Shipping: ShippingDetails{
			Name:    "Ada Obi",
			Phone:   "08012345678",
			Address: "12 Marina Rd",
			City:    "Lagos",
			State:   "Lagos",
			Zip:     "100001",
		},
		Proof:            strings.NewReader("proof-bytes"),
		ProofContentType: "image/jpeg",
	}
}

func addCartLine(t *testing.T, f *fixture, productID string, price, qty int) {
	t.Helper()
	require.NoError(t, f.cartSvc.AddLine(context.Background(), "user-1", cart.Line{
		ProductID: productID,
		Name:      "Item " + productID,
		UnitPrice: price,
		Quantity:  qty,
	}))
}

func TestShippingDetails_FullAddress(t *testing.T) {
	d := ShippingDetails{Address: "12 Marina Rd", City: "Lagos", State: "Lagos", Zip: "100001"}
	assert.Equal(t, "12 Marina Rd, Lagos, Lagos 100001", d.FullAddress())
}

func TestWorkflow_Run_Success(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	addCartLine(t, f, "prod-1", 12000, 2)

	placed, err := f.workflow.Run(ctx, validRequest())

	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, placed.Status)
	assert.Equal(t, 24000, placed.Total)
	assert.Equal(t, "12 Marina Rd, Lagos, Lagos 100001", placed.Address)
	assert.Contains(t, placed.ProofURL, "proofs/user-1/")
	assert.Contains(t, placed.ProofURL, ".jpg")

	// Cart was cleared
	c, err := f.cartSvc.Load(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, c.Lines)

	// Operators were notified once, with the proof link
	assert.Equal(t, 1, f.sender.orderNotifications)
	assert.Equal(t, placed.ProofURL, f.sender.lastProofURL)
}

func TestWorkflow_Run_EmptyCart(t *testing.T) {
	f := newFixture()

	placed, err := f.workflow.Run(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Nil(t, placed)
	assert.Empty(t, f.uploader.uploads, "nothing uploaded for an empty cart")
}

func TestWorkflow_Run_MissingProof(t *testing.T) {
	f := newFixture()
	addCartLine(t, f, "prod-1", 12000, 1)

	req := validRequest()
	req.Proof = nil

	_, err := f.workflow.Run(context.Background(), req)

	assert.ErrorIs(t, err, ErrMissingProof)
}

func TestWorkflow_Run_IncompleteShipping(t *testing.T) {
	f := newFixture()
	addCartLine(t, f, "prod-1", 12000, 1)

	req := validRequest()
	req.Shipping.City = ""

	_, err := f.workflow.Run(context.Background(), req)

	assert.ErrorIs(t, err, ErrIncompleteShipping)
}

func TestWorkflow_Run_UploadFailureAbortsBeforeOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	addCartLine(t, f, "prod-1", 12000, 1)

	f.uploader.err = errors.New("bucket unavailable")

	_, err := f.workflow.Run(ctx, validRequest())

	require.Error(t, err)

	// No order event was appended and the cart is intact
	for _, call := range f.eventStore.AppendCalls {
		assert.NotEqual(t, order.EventOrderPlaced, call.EventType)
	}
	c, err := f.cartSvc.Load(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, c.Lines, 1)
}

func TestWorkflow_Run_EmailFailureDoesNotFailCheckout(t *testing.T) {
	f := newFixture()
	addCartLine(t, f, "prod-1", 12000, 1)

	f.sender.err = errors.New("smtp down")

	placed, err := f.workflow.Run(context.Background(), validRequest())

	require.NoError(t, err)
	assert.NotNil(t, placed)
}

func TestWorkflow_Run_LineAddedMidCheckoutSurvives(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	addCartLine(t, f, "prod-1", 12000, 2)

	// A line lands in the cart while the proof is uploading, after the
	// checkout snapshot was taken
	f.uploader.onUpload = func() {
		addCartLine(t, f, "prod-late", 5000, 1)
	}

	placed, err := f.workflow.Run(ctx, validRequest())

	require.NoError(t, err)
	require.Len(t, placed.Items, 1)
	assert.Equal(t, "prod-1", placed.Items[0].ProductID)
	assert.Equal(t, 24000, placed.Total)

	// Only the snapshotted line was cleared; the late one survives
	c, err := f.cartSvc.Load(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)
	assert.Contains(t, c.Lines, "prod-late")
}

func TestWorkflow_Run_UsesDiscountedPriceInSnapshot(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.cartSvc.AddLine(ctx, "user-1", cart.Line{
		ProductID:       "prod-1",
		Name:            "Ceramic Vase",
		UnitPrice:       20000,
		DiscountedPrice: 15000,
		Quantity:        1,
	}))

	placed, err := f.workflow.Run(ctx, validRequest())

	require.NoError(t, err)
	require.Len(t, placed.Items, 1)
	assert.Equal(t, 15000, placed.Items[0].UnitPrice)
	assert.Equal(t, 15000, placed.Total)
}

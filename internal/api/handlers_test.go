package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/storefront/internal/auth"
	"github.com/example/storefront/internal/checkout"
	"github.com/example/storefront/internal/command"
	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/message"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/product"
	"github.com/example/storefront/internal/domain/review"
	"github.com/example/storefront/internal/domain/user"
	"github.com/example/storefront/internal/email"
	"github.com/example/storefront/internal/infrastructure/store"
	"github.com/example/storefront/internal/infrastructure/store/mocks"
	"github.com/example/storefront/internal/projection"
	"github.com/example/storefront/internal/query"
	"github.com/example/storefront/internal/readmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// projectingEventStore applies every appended event to the projector
// immediately, standing in for the Kafka round trip.
type projectingEventStore struct {
	*mocks.MockEventStore
	projector *projection.Projector
}

func (s *projectingEventStore) Append(ctx context.Context, aggregateID, aggregateType, eventType string, data any) (*store.Event, error) {
	event, err := s.MockEventStore.Append(ctx, aggregateID, aggregateType, eventType, data)
	if err != nil {
		return nil, err
	}
	if projErr := s.projector.Project(*event); projErr != nil {
		return nil, projErr
	}
	return event, nil
}

type stubUploader struct {
	err error
}

func (u *stubUploader) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	return "https://cdn.example.com/" + key, nil
}

func (u *stubUploader) Delete(ctx context.Context, key string) error { return nil }

type stubSender struct {
	orderEmails   int
	statusEmails  int
	contactEmails int
	lastProofURL  string
	err           error
}

func (s *stubSender) SendOrderNotification(to []string, orderID, customerName string, total int, items []email.OrderItem, proofURL string) error {
	if s.err != nil {
		return s.err
	}
	s.orderEmails++
	s.lastProofURL = proofURL
	return nil
}

func (s *stubSender) SendStatusUpdate(to, customerName, orderID, status string) error {
	if s.err != nil {
		return s.err
	}
	s.statusEmails++
	return nil
}

func (s *stubSender) SendContactNotification(to []string, name, fromEmail, body string) error {
	if s.err != nil {
		return s.err
	}
	s.contactEmails++
	return nil
}

type apiFixture struct {
	server    http.Handler
	readStore *mocks.MockReadStore
	userSvc   *user.Service
	jwt       *auth.JWTService
	sender    *stubSender
	uploader  *stubUploader
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	readStore := mocks.NewMockReadStore()
	projector := projection.NewProjector(readStore)
	eventStore := &projectingEventStore{
		MockEventStore: mocks.NewMockEventStore(),
		projector:      projector,
	}

	productSvc := product.NewService(eventStore)
	cartSvc := cart.NewService(eventStore)
	orderSvc := order.NewService(eventStore)
	reviewSvc := review.NewService(eventStore)
	messageSvc := message.NewService(eventStore)
	userSvc := user.NewService(eventStore)

	cmdHandler := command.NewHandler(productSvc, cartSvc, orderSvc, reviewSvc, messageSvc, readStore)
	queryHandler := query.NewHandler(readStore)

	uploader := &stubUploader{}
	sender := &stubSender{}
	workflow := checkout.NewWorkflow(cartSvc, orderSvc, uploader, sender, []string{"ops@example.com"})

	jwtService := auth.NewJWTService("test-secret-key-for-api-tests", 15*time.Minute, 7*24*time.Hour)

	router := NewRouter(RouterConfig{
		Handlers:      NewHandlers(cmdHandler, queryHandler, workflow),
		AuthHandlers:  NewAuthHandlers(userSvc, jwtService, queryHandler, readStore),
		AdminHandlers: NewAdminHandlers(cmdHandler, queryHandler, uploader),
		EmailHandlers: NewEmailHandlers(sender, []string{"ops@example.com"}),
		JWTService:    jwtService,
	})

	return &apiFixture{
		server:    router,
		readStore: readStore,
		userSvc:   userSvc,
		jwt:       jwtService,
		sender:    sender,
		uploader:  uploader,
	}
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

// customerToken registers a customer through the domain service and mints a token
func (f *apiFixture) customerToken(t *testing.T, emailAddr string) (string, string) {
	t.Helper()
	u, err := f.userSvc.Register(context.Background(), emailAddr, "password123", "Ada Obi")
	require.NoError(t, err)
	token, _, err := f.jwt.GenerateAccessToken(u.ID, u.Email, u.Role)
	require.NoError(t, err)
	return token, u.ID
}

func (f *apiFixture) adminToken(t *testing.T) string {
	t.Helper()
	u, err := f.userSvc.RegisterAdmin(context.Background(), "admin@example.com", "password123", "Admin")
	require.NoError(t, err)
	token, _, err := f.jwt.GenerateAccessToken(u.ID, u.Email, u.Role)
	require.NoError(t, err)
	return token
}

func (f *apiFixture) createProduct(t *testing.T, adminToken string, body map[string]any) string {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/admin/products", adminToken, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp["id"]
}

func validProductBody() map[string]any {
	return map[string]any{
		"name":           "Linen Shirt",
		"category":       "clothing",
		"description":    "A lightweight linen shirt",
		"main_image_url": "https://cdn.example.com/shirt.jpg",
		"price":          12000,
		"availability":   product.AvailabilityInStock,
		"quantity":       10,
	}
}

func TestRegisterLoginMe(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "ada@example.com",
		"password": "password123",
		"name":     "Ada Obi",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var registered AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &registered))
	assert.Equal(t, "ada@example.com", registered.User.Email)
	assert.Equal(t, user.RoleCustomer, registered.User.Role)

	// Registering the same email again conflicts
	rec = f.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "ada@example.com",
		"password": "password123",
		"name":     "Ada Obi",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Login with the right password
	rec = f.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "ada@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// Wrong password is rejected
	rec = f.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "ada@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Me with a minted token
	token, _, err := f.jwt.GenerateAccessToken(registered.User.ID, registered.User.Email, registered.User.Role)
	require.NoError(t, err)
	rec = f.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var me UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "Ada Obi", me.Name)
}

func TestRegister_ShortPassword(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "ada@example.com",
		"password": "short",
		"name":     "Ada",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "at least 8 characters")
}

func TestProductLifecycle(t *testing.T) {
	f := newAPIFixture(t)
	adminToken := f.adminToken(t)

	// Customers cannot create products
	customerToken, _ := f.customerToken(t, "ada@example.com")
	rec := f.do(t, http.MethodPost, "/api/admin/products", customerToken, validProductBody())
	assert.Equal(t, http.StatusForbidden, rec.Code)

	productID := f.createProduct(t, adminToken, validProductBody())

	// Public listing includes it
	rec = f.do(t, http.MethodGet, "/api/products", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page query.ProductPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Products, 1)
	assert.Equal(t, "Linen Shirt", page.Products[0].Name)

	// Category filter
	rec = f.do(t, http.MethodGet, "/api/products?category=decor", "", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Empty(t, page.Products)

	// Single product fetch
	rec = f.do(t, http.MethodGet, "/api/products/"+productID, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Update and delete
	body := validProductBody()
	body["price"] = 14000
	rec = f.do(t, http.MethodPut, "/api/admin/products/"+productID, adminToken, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodDelete, "/api/admin/products/"+productID, adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/products/"+productID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartFlow(t *testing.T) {
	f := newAPIFixture(t)
	adminToken := f.adminToken(t)
	token, _ := f.customerToken(t, "ada@example.com")

	productID := f.createProduct(t, adminToken, validProductBody())

	// Cart requires auth
	rec := f.do(t, http.MethodGet, "/api/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Empty cart comes back, never a 404
	rec = f.do(t, http.MethodGet, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var emptyCart readmodel.CartReadModel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &emptyCart))
	assert.Empty(t, emptyCart.Lines)

	// Add a sized line
	rec = f.do(t, http.MethodPost, "/api/cart/items", token, map[string]any{
		"product_id": productID,
		"size":       "M",
		"quantity":   2,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var added map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &added))
	lineID := added["line_id"]
	assert.Equal(t, productID+"-M", lineID)

	rec = f.do(t, http.MethodGet, "/api/cart", token, nil)
	var c readmodel.CartReadModel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 24000, c.Total)

	// Set quantity
	rec = f.do(t, http.MethodPatch, "/api/cart/items/"+lineID, token, map[string]int{"quantity": 1})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Remove
	rec = f.do(t, http.MethodDelete, "/api/cart/items/"+lineID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/cart/items/"+lineID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddToCart_OutOfStock(t *testing.T) {
	f := newAPIFixture(t)
	adminToken := f.adminToken(t)
	token, _ := f.customerToken(t, "ada@example.com")

	body := validProductBody()
	body["availability"] = product.AvailabilityOutOfStock
	productID := f.createProduct(t, adminToken, body)

	rec := f.do(t, http.MethodPost, "/api/cart/items", token, map[string]any{
		"product_id": productID,
		"quantity":   1,
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func checkoutRequest(t *testing.T, token string, withProof bool) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := map[string]string{
		"name":    "Ada Obi",
		"phone":   "08012345678",
		"address": "12 Marina Rd",
		"city":    "Lagos",
		"state":   "Lagos",
		"zip":     "100001",
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if withProof {
		part, err := mw.CreateFormFile("payment_proof", "proof.jpg")
		require.NoError(t, err)
		_, err = part.Write([]byte("proof-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/checkout", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestCheckoutAndOrderLifecycle(t *testing.T) {
	f := newAPIFixture(t)
	adminToken := f.adminToken(t)
	token, _ := f.customerToken(t, "ada@example.com")

	productID := f.createProduct(t, adminToken, validProductBody())

	rec := f.do(t, http.MethodPost, "/api/cart/items", token, map[string]any{
		"product_id": productID,
		"quantity":   2,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// Checkout
	rec = httptest.NewRecorder()
	f.server.ServeHTTP(rec, checkoutRequest(t, token, true))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var placed order.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &placed))
	assert.Equal(t, order.StatusPending, placed.Status)
	assert.Equal(t, 24000, placed.Total)
	assert.Equal(t, 1, f.sender.orderEmails)
	assert.Equal(t, placed.ProofURL, f.sender.lastProofURL, "operator email carries the proof link")

	// Cart is cleared
	rec = f.do(t, http.MethodGet, "/api/cart", token, nil)
	var c readmodel.CartReadModel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	assert.Empty(t, c.Lines)

	// Customer sees the order; another user does not
	rec = f.do(t, http.MethodGet, "/api/orders/"+placed.ID, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	otherToken, _ := f.customerToken(t, "other@example.com")
	rec = f.do(t, http.MethodGet, "/api/orders/"+placed.ID, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// The admin console lists it and fulfills it
	rec = f.do(t, http.MethodGet, "/api/admin/orders", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var all []*readmodel.OrderReadModel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	require.Len(t, all, 1)

	rec = f.do(t, http.MethodPost, "/api/admin/orders/"+placed.ID+"/fulfill", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Fulfilled orders are terminal
	rec = f.do(t, http.MethodPost, "/api/admin/orders/"+placed.ID+"/reject", adminToken, map[string]string{"reason": "late"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/orders/"+placed.ID, token, nil)
	var fetched readmodel.OrderReadModel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, string(order.StatusFulfilled), fetched.Status)
}

func TestCheckout_MissingProof(t *testing.T) {
	f := newAPIFixture(t)
	adminToken := f.adminToken(t)
	token, _ := f.customerToken(t, "ada@example.com")

	productID := f.createProduct(t, adminToken, validProductBody())
	rec := f.do(t, http.MethodPost, "/api/cart/items", token, map[string]any{
		"product_id": productID,
		"quantity":   1,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	f.server.ServeHTTP(rec, checkoutRequest(t, token, false))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "proof")
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := newAPIFixture(t)
	token, _ := f.customerToken(t, "ada@example.com")

	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, checkoutRequest(t, token, true))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReviewsAndTestimonials(t *testing.T) {
	f := newAPIFixture(t)
	adminToken := f.adminToken(t)
	token, _ := f.customerToken(t, "ada@example.com")

	productID := f.createProduct(t, adminToken, validProductBody())

	// Product review
	rec := f.do(t, http.MethodPost, "/api/reviews", token, map[string]any{
		"product_id":   productID,
		"display_name": "Ada",
		"body":         "Great shirt",
		"rating":       5,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Testimonial (no product)
	rec = f.do(t, http.MethodPost, "/api/reviews", token, map[string]any{
		"display_name": "Ada",
		"body":         "Love this store",
		"rating":       5,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/products/"+productID+"/reviews", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var reviews []*readmodel.ReviewReadModel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reviews))
	require.Len(t, reviews, 1)
	assert.Equal(t, "Great shirt", reviews[0].Body)

	rec = f.do(t, http.MethodGet, "/api/testimonials", "", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reviews))
	require.Len(t, reviews, 1)
	assert.Equal(t, "Love this store", reviews[0].Body)

	// Resubmitting revises in place rather than duplicating
	rec = f.do(t, http.MethodPost, "/api/reviews", token, map[string]any{
		"product_id":   productID,
		"display_name": "Ada",
		"body":         "Even better after a wash",
		"rating":       4,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/products/"+productID+"/reviews", "", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reviews))
	require.Len(t, reviews, 1)
	assert.Equal(t, "Even better after a wash", reviews[0].Body)
}

func TestContactInbox(t *testing.T) {
	f := newAPIFixture(t)
	adminToken := f.adminToken(t)

	rec := f.do(t, http.MethodPost, "/api/contact", "", map[string]string{
		"name":    "Ada",
		"email":   "ada@example.com",
		"message": "Do you ship to Abuja?",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/api/admin/messages", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var messages []*readmodel.MessageReadModel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &messages))
	require.Len(t, messages, 1)

	rec = f.do(t, http.MethodDelete, "/api/admin/messages/"+messages[0].ID, adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/admin/messages", adminToken, nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &messages))
	assert.Empty(t, messages)
}

func TestAdminUsersList(t *testing.T) {
	f := newAPIFixture(t)
	adminToken := f.adminToken(t)
	customerToken, _ := f.customerToken(t, "ada@example.com")
	f.customerToken(t, "obi@example.com")

	// Customers cannot list accounts
	rec := f.do(t, http.MethodGet, "/api/admin/users", customerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/admin/users", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var users []*readmodel.UserReadModel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	require.Len(t, users, 3)

	emails := make([]string, 0, len(users))
	for _, u := range users {
		emails = append(emails, u.Email)
	}
	assert.ElementsMatch(t, []string{"admin@example.com", "ada@example.com", "obi@example.com"}, emails)

	// Password hashes never leave the server
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestEmailEndpoints(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/send-contact-email", "", map[string]string{
		"name":    "Ada",
		"email":   "ada@example.com",
		"message": "Hello",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	assert.Equal(t, 1, f.sender.contactEmails)

	rec = f.do(t, http.MethodPost, "/api/send-order-email", "", map[string]any{
		"orderId":      "order-12345678",
		"customerName": "Ada",
		"email":        "ada@example.com",
		"total":        24000,
		"items": []map[string]any{
			{"name": "Linen Shirt", "qty": 2, "price": 12000},
		},
		"proofURL": "https://cdn.example.com/proofs/user-1/proof.jpg",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, f.sender.orderEmails)
	assert.Equal(t, "https://cdn.example.com/proofs/user-1/proof.jpg", f.sender.lastProofURL)

	rec = f.do(t, http.MethodPost, "/api/send-status-email", "", map[string]string{
		"orderId":       "order-12345678",
		"status":        "fulfilled",
		"customerEmail": "ada@example.com",
		"customerName":  "Ada",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, f.sender.statusEmails)
}

func TestEmailEndpoints_SendFailure(t *testing.T) {
	f := newAPIFixture(t)
	f.sender.err = fmt.Errorf("smtp down")

	rec := f.do(t, http.MethodPost, "/api/send-contact-email", "", map[string]string{
		"name":    "Ada",
		"email":   "ada@example.com",
		"message": "Hello",
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestMethodNotAllowed(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodDelete, "/api/products", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/send-order-email", strings.NewReader(""))
	rec = httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/example/storefront/internal/api/middleware"
	"github.com/example/storefront/internal/checkout"
	"github.com/example/storefront/internal/command"
	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/product"
	"github.com/example/storefront/internal/query"
)

// maxProofSize caps the multipart payment proof upload
const maxProofSize = 10 << 20 // 10 MB

type Handlers struct {
	cmdHandler   *command.Handler
	queryHandler *query.Handler
	checkout     *checkout.Workflow
}

func NewHandlers(cmdHandler *command.Handler, queryHandler *query.Handler, checkoutWorkflow *checkout.Workflow) *Handlers {
	return &Handlers{
		cmdHandler:   cmdHandler,
		queryHandler: queryHandler,
		checkout:     checkoutWorkflow,
	}
}

// Product Handlers

// GetProducts returns a catalog page, optionally filtered by category
func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := query.ProductFilter{Category: q.Get("category")}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		filter.Page = page
	}
	if perPage, err := strconv.Atoi(q.Get("per_page")); err == nil {
		filter.PerPage = perPage
	}

	respondJSON(w, http.StatusOK, h.queryHandler.ListProducts(filter))
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/api/products/")
	prod, ok := h.queryHandler.GetProduct(id)
	if !ok {
		respondJSONError(w, "Product not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, prod)
}

// GetProductReviews returns the reviews for a product
func (h *Handlers) GetProductReviews(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/api/products/")
	id = strings.TrimSuffix(id, "/reviews")
	respondJSON(w, http.StatusOK, h.queryHandler.ListReviewsByProduct(id))
}

// GetTestimonials returns site-wide testimonials (reviews without a product)
func (h *Handlers) GetTestimonials(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.queryHandler.ListReviewsByProduct(""))
}

// Cart Handlers

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	respondJSON(w, http.StatusOK, h.queryHandler.GetCart(userID))
}

func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req struct {
		ProductID string `json:"product_id"`
		Size      string `json:"size,omitempty"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	cmd := command.AddToCart{
		UserID:    userID,
		ProductID: req.ProductID,
		Size:      req.Size,
		Quantity:  req.Quantity,
	}
	if err := h.cmdHandler.AddToCart(r.Context(), cmd); err != nil {
		switch {
		case errors.Is(err, product.ErrProductNotFound):
			respondJSONError(w, "Product not found", http.StatusNotFound)
		case errors.Is(err, command.ErrProductUnavailable):
			respondJSONError(w, "Product is out of stock", http.StatusConflict)
		case errors.Is(err, cart.ErrInvalidQuantity):
			respondJSONError(w, "Quantity must be at least 1", http.StatusBadRequest)
		default:
			respondJSONError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"line_id": cart.LineID(req.ProductID, req.Size)})
}

// UpdateCartItem replaces the quantity of a cart line
func (h *Handlers) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	lineID := extractPathParam(r.URL.Path, "/api/cart/items/")

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	cmd := command.SetCartQuantity{UserID: userID, LineID: lineID, Quantity: req.Quantity}
	if err := h.cmdHandler.SetCartQuantity(r.Context(), cmd); err != nil {
		switch {
		case errors.Is(err, cart.ErrLineNotFound):
			respondJSONError(w, "Cart item not found", http.StatusNotFound)
		case errors.Is(err, cart.ErrInvalidQuantity):
			respondJSONError(w, "Quantity must be at least 1", http.StatusBadRequest)
		default:
			respondJSONError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	lineID := extractPathParam(r.URL.Path, "/api/cart/items/")

	cmd := command.RemoveFromCart{UserID: userID, LineID: lineID}
	if err := h.cmdHandler.RemoveFromCart(r.Context(), cmd); err != nil {
		if errors.Is(err, cart.ErrLineNotFound) {
			respondJSONError(w, "Cart item not found", http.StatusNotFound)
			return
		}
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Checkout Handler

// Checkout places an order from the cart. The request is multipart: shipping
// fields plus the payment proof file.
func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respondJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxProofSize); err != nil {
		respondJSONError(w, "Invalid multipart request", http.StatusBadRequest)
		return
	}

	req := checkout.Request{
		UserID: claims.UserID,
		Email:  claims.Email,
		Shipping: checkout.ShippingDetails{
			Name:    r.FormValue("name"),
			Phone:   r.FormValue("phone"),
			Address: r.FormValue("address"),
			City:    r.FormValue("city"),
			State:   r.FormValue("state"),
			Zip:     r.FormValue("zip"),
		},
	}

	file, header, err := r.FormFile("payment_proof")
	if err == nil {
		defer file.Close()
		req.Proof = file
		req.ProofContentType = header.Header.Get("Content-Type")
	}

	placed, err := h.checkout.Run(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrEmptyCart),
			errors.Is(err, checkout.ErrMissingProof),
			errors.Is(err, checkout.ErrIncompleteShipping):
			respondJSONError(w, err.Error(), http.StatusBadRequest)
		default:
			respondJSONError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	respondJSON(w, http.StatusCreated, placed)
}

// Order Handlers

func (h *Handlers) GetOrders(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	respondJSON(w, http.StatusOK, h.queryHandler.ListOrdersByUser(userID))
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/api/orders/")

	o, ok := h.queryHandler.GetOrder(id)
	if !ok {
		respondJSONError(w, "Order not found", http.StatusNotFound)
		return
	}

	// Users can only access their own orders; admins can access all
	userID := middleware.GetUserID(r.Context())
	if o.UserID != userID && !isAdmin(r) {
		respondJSONError(w, "Forbidden", http.StatusForbidden)
		return
	}

	respondJSON(w, http.StatusOK, o)
}

// Review Handlers

// SubmitReview creates or revises the caller's review. An empty product_id
// submits a site testimonial.
func (h *Handlers) SubmitReview(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respondJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		ProductID   string `json:"product_id,omitempty"`
		DisplayName string `json:"display_name"`
		Body        string `json:"body"`
		Rating      int    `json:"rating"`
		PhotoURL    string `json:"photo_url,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	cmd := command.SubmitReview{
		UserID:      claims.UserID,
		ProductID:   req.ProductID,
		DisplayName: req.DisplayName,
		Body:        req.Body,
		Rating:      req.Rating,
		PhotoURL:    req.PhotoURL,
	}
	reviewID, err := h.cmdHandler.SubmitReview(r.Context(), cmd)
	if err != nil {
		respondJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"id": reviewID})
}

// Contact Handler

// SubmitContact records a contact form submission. The notifier emails the
// operators when the event lands.
func (h *Handlers) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	cmd := command.SubmitMessage{Name: req.Name, Email: req.Email, Body: req.Message}
	messageID, err := h.cmdHandler.SubmitMessage(r.Context(), cmd)
	if err != nil {
		respondJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"id": messageID})
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondJSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func extractPathParam(path, prefix string) string {
	return strings.TrimPrefix(path, prefix)
}

// isAdmin checks if the current user has admin role
func isAdmin(r *http.Request) bool {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		return false
	}
	return claims.Role == "admin"
}

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/example/storefront/internal/command"
	"github.com/example/storefront/internal/domain/message"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/product"
	"github.com/example/storefront/internal/infrastructure/objectstore"
	"github.com/example/storefront/internal/query"
	"github.com/google/uuid"
)

// maxImageSize caps catalog image uploads
const maxImageSize = 20 << 20 // 20 MB

// AdminHandlers serves the admin console: catalog management, order
// verification, and the contact inbox. All routes require the admin role.
type AdminHandlers struct {
	cmdHandler   *command.Handler
	queryHandler *query.Handler
	uploads      objectstore.Uploader
}

func NewAdminHandlers(cmdHandler *command.Handler, queryHandler *query.Handler, uploads objectstore.Uploader) *AdminHandlers {
	return &AdminHandlers{
		cmdHandler:   cmdHandler,
		queryHandler: queryHandler,
		uploads:      uploads,
	}
}

// Catalog

func (h *AdminHandlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var cmd command.CreateProduct
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	productID, err := h.cmdHandler.CreateProduct(r.Context(), cmd)
	if err != nil {
		respondJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"id": productID})
}

func (h *AdminHandlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/api/admin/products/")

	var cmd command.UpdateProduct
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	cmd.ProductID = id

	if err := h.cmdHandler.UpdateProduct(r.Context(), cmd); err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			respondJSONError(w, "Product not found", http.StatusNotFound)
			return
		}
		respondJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Product updated"})
}

func (h *AdminHandlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/api/admin/products/")

	if err := h.cmdHandler.DeleteProduct(r.Context(), command.DeleteProduct{ProductID: id}); err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			respondJSONError(w, "Product not found", http.StatusNotFound)
			return
		}
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}

// UploadImage stores a catalog image and returns its public URL
func (h *AdminHandlers) UploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		respondJSONError(w, "Invalid multipart request", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondJSONError(w, "Image file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	key := fmt.Sprintf("products/%s%s", uuid.New().String(), ext)

	url, err := h.uploads.Upload(r.Context(), key, header.Header.Get("Content-Type"), file)
	if err != nil {
		respondJSONError(w, "Failed to store image", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"url": url})
}

// Orders

func (h *AdminHandlers) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.queryHandler.ListAllOrders())
}

func (h *AdminHandlers) FulfillOrder(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSuffix(extractPathParam(r.URL.Path, "/api/admin/orders/"), "/fulfill")

	if err := h.cmdHandler.FulfillOrder(r.Context(), command.FulfillOrder{OrderID: id}); err != nil {
		respondOrderError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Order fulfilled"})
}

func (h *AdminHandlers) RejectOrder(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSuffix(extractPathParam(r.URL.Path, "/api/admin/orders/"), "/reject")

	var req struct {
		Reason string `json:"reason"`
	}
	// The reason is optional; an empty body is fine
	_ = json.NewDecoder(r.Body).Decode(&req)

	if err := h.cmdHandler.RejectOrder(r.Context(), command.RejectOrder{OrderID: id, Reason: req.Reason}); err != nil {
		respondOrderError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Order rejected"})
}

func respondOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		respondJSONError(w, "Order not found", http.StatusNotFound)
	case errors.Is(err, order.ErrOrderFinal):
		respondJSONError(w, "Order is already finalized", http.StatusConflict)
	default:
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
	}
}

// Users

// GetUsers lists every registered account for the admin console
func (h *AdminHandlers) GetUsers(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.queryHandler.ListUsers())
}

// Messages

func (h *AdminHandlers) GetMessages(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.queryHandler.ListMessages())
}

func (h *AdminHandlers) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/api/admin/messages/")

	if err := h.cmdHandler.DeleteMessage(r.Context(), command.DeleteMessage{MessageID: id}); err != nil {
		if errors.Is(err, message.ErrMessageNotFound) {
			respondJSONError(w, "Message not found", http.StatusNotFound)
			return
		}
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Message deleted"})
}

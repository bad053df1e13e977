package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/example/storefront/internal/email"
)

// EmailHandlers exposes the stateless mail endpoints. They format and
// forward; callers are trusted and no auth is applied at this layer.
type EmailHandlers struct {
	emails       email.Sender
	operatorAddr []string
}

func NewEmailHandlers(emails email.Sender, operatorAddr []string) *EmailHandlers {
	return &EmailHandlers{
		emails:       emails,
		operatorAddr: operatorAddr,
	}
}

// SendContactEmail forwards a contact form submission to the operators
func (h *EmailHandlers) SendContactEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.emails.SendContactNotification(h.operatorAddr, req.Name, req.Email, req.Message); err != nil {
		log.Printf("[API] Failed to send contact email: %v", err)
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// SendOrderEmail notifies the operators of a new order
func (h *EmailHandlers) SendOrderEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID      string `json:"orderId"`
		CustomerName string `json:"customerName"`
		Email        string `json:"email"`
		Phone        string `json:"phone"`
		Address      string `json:"address"`
		Total        int    `json:"total"`
		Items        []struct {
			Name  string `json:"name"`
			Qty   int    `json:"qty"`
			Price int    `json:"price"`
		} `json:"items"`
		ProofURL string `json:"proofURL"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	items := make([]email.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, email.OrderItem{
			Name:      item.Name,
			Quantity:  item.Qty,
			UnitPrice: item.Price,
		})
	}

	if err := h.emails.SendOrderNotification(h.operatorAddr, req.OrderID, req.CustomerName, req.Total, items, req.ProofURL); err != nil {
		log.Printf("[API] Failed to send order email for %s: %v", req.OrderID, err)
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// SendStatusEmail tells a customer their order was fulfilled or rejected
func (h *EmailHandlers) SendStatusEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID       string `json:"orderId"`
		Status        string `json:"status"`
		CustomerEmail string `json:"customerEmail"`
		CustomerName  string `json:"customerName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.emails.SendStatusUpdate(req.CustomerEmail, req.CustomerName, req.OrderID, req.Status); err != nil {
		log.Printf("[API] Failed to send status email for %s: %v", req.OrderID, err)
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

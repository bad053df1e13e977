package query

import (
	"log"
	"sort"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/infrastructure/store"
	"github.com/example/storefront/internal/readmodel"
)

// Handler serves reads from the projected models
type Handler struct {
	readStore store.ReadStoreInterface
}

func NewHandler(readStore store.ReadStoreInterface) *Handler {
	return &Handler{readStore: readStore}
}

// ProductFilter narrows and pages the catalog listing
type ProductFilter struct {
	Category string
	Page     int
	PerPage  int
}

// ProductPage is one page of the catalog
type ProductPage struct {
	Products   []*readmodel.ProductReadModel `json:"products"`
	Page       int                           `json:"page"`
	PerPage    int                           `json:"per_page"`
	TotalItems int                           `json:"total_items"`
	TotalPages int                           `json:"total_pages"`
}

const defaultPerPage = 20

// Products

func (h *Handler) GetProduct(id string) (*readmodel.ProductReadModel, bool) {
	data, ok, err := h.readStore.Get("products", id)
	if err != nil {
		log.Printf("[Query] Error getting product %s: %v", id, err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return data.(*readmodel.ProductReadModel), true
}

// ListProducts returns a filtered, paginated catalog page sorted newest first
func (h *Handler) ListProducts(filter ProductFilter) *ProductPage {
	items, err := h.readStore.GetAll("products")
	if err != nil {
		log.Printf("[Query] Error listing products: %v", err)
		return &ProductPage{Products: []*readmodel.ProductReadModel{}, Page: 1, PerPage: defaultPerPage}
	}

	products := make([]*readmodel.ProductReadModel, 0, len(items))
	for _, item := range items {
		p := item.(*readmodel.ProductReadModel)
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		products = append(products, p)
	}

	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})

	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 {
		perPage = defaultPerPage
	}

	total := len(products)
	totalPages := (total + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}

	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	return &ProductPage{
		Products:   products[start:end],
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	}
}

// Cart

// GetCart returns the user's cart, or an empty cart if none exists yet
func (h *Handler) GetCart(userID string) *readmodel.CartReadModel {
	cartID := cart.GetCartID(userID)
	data, ok, err := h.readStore.Get("carts", cartID)
	if err != nil {
		log.Printf("[Query] Error getting cart %s: %v", cartID, err)
	}
	if err != nil || !ok {
		return &readmodel.CartReadModel{
			ID:     cartID,
			UserID: userID,
			Lines:  []readmodel.CartLineReadModel{},
		}
	}
	return data.(*readmodel.CartReadModel)
}

// Orders

func (h *Handler) GetOrder(id string) (*readmodel.OrderReadModel, bool) {
	data, ok, err := h.readStore.Get("orders", id)
	if err != nil {
		log.Printf("[Query] Error getting order %s: %v", id, err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return data.(*readmodel.OrderReadModel), true
}

// ListOrdersByUser returns a user's orders, newest first
func (h *Handler) ListOrdersByUser(userID string) []*readmodel.OrderReadModel {
	items, err := h.readStore.GetAll("orders")
	if err != nil {
		log.Printf("[Query] Error listing orders: %v", err)
		return nil
	}
	orders := make([]*readmodel.OrderReadModel, 0)
	for _, item := range items {
		o := item.(*readmodel.OrderReadModel)
		if o.UserID == userID {
			orders = append(orders, o)
		}
	}
	sortOrders(orders)
	return orders
}

// ListAllOrders returns every order for the admin console, newest first
func (h *Handler) ListAllOrders() []*readmodel.OrderReadModel {
	items, err := h.readStore.GetAll("orders")
	if err != nil {
		log.Printf("[Query] Error listing all orders: %v", err)
		return nil
	}
	orders := make([]*readmodel.OrderReadModel, 0, len(items))
	for _, item := range items {
		orders = append(orders, item.(*readmodel.OrderReadModel))
	}
	sortOrders(orders)
	return orders
}

func sortOrders(orders []*readmodel.OrderReadModel) {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}

// Reviews

func (h *Handler) GetReview(id string) (*readmodel.ReviewReadModel, bool) {
	data, ok, err := h.readStore.Get("reviews", id)
	if err != nil {
		log.Printf("[Query] Error getting review %s: %v", id, err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return data.(*readmodel.ReviewReadModel), true
}

// ListReviewsByProduct returns all reviews for a product. An empty productID
// returns site testimonials.
func (h *Handler) ListReviewsByProduct(productID string) []*readmodel.ReviewReadModel {
	items, err := h.readStore.GetAll("reviews")
	if err != nil {
		log.Printf("[Query] Error listing reviews: %v", err)
		return nil
	}
	reviews := make([]*readmodel.ReviewReadModel, 0)
	for _, item := range items {
		r := item.(*readmodel.ReviewReadModel)
		if r.ProductID == productID {
			reviews = append(reviews, r)
		}
	}
	sort.Slice(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})
	return reviews
}

// Messages

// ListMessages returns the admin contact inbox, newest first
func (h *Handler) ListMessages() []*readmodel.MessageReadModel {
	items, err := h.readStore.GetAll("messages")
	if err != nil {
		log.Printf("[Query] Error listing messages: %v", err)
		return nil
	}
	messages := make([]*readmodel.MessageReadModel, 0, len(items))
	for _, item := range items {
		messages = append(messages, item.(*readmodel.MessageReadModel))
	}
	sort.Slice(messages, func(i, j int) bool {
		return messages[i].CreatedAt.After(messages[j].CreatedAt)
	})
	return messages
}

// Users

// ListUsers returns every registered user for the admin console, newest first
func (h *Handler) ListUsers() []*readmodel.UserReadModel {
	items, err := h.readStore.GetAll("users")
	if err != nil {
		log.Printf("[Query] Error listing users: %v", err)
		return nil
	}
	users := make([]*readmodel.UserReadModel, 0, len(items))
	for _, item := range items {
		users = append(users, item.(*readmodel.UserReadModel))
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users
}

func (h *Handler) GetUser(id string) (*readmodel.UserReadModel, bool) {
	data, ok, err := h.readStore.Get("users", id)
	if err != nil {
		log.Printf("[Query] Error getting user %s: %v", id, err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return data.(*readmodel.UserReadModel), true
}

// GetUserByEmail scans for a user by email. The Postgres store serves this
// with an indexed lookup instead.
func (h *Handler) GetUserByEmail(email string) (*readmodel.UserReadModel, bool) {
	type emailLookup interface {
		GetUserByEmail(email string) (*readmodel.UserReadModel, bool)
	}
	if pg, ok := h.readStore.(emailLookup); ok {
		return pg.GetUserByEmail(email)
	}

	items, err := h.readStore.GetAll("users")
	if err != nil {
		log.Printf("[Query] Error listing users: %v", err)
		return nil, false
	}
	for _, item := range items {
		u := item.(*readmodel.UserReadModel)
		if u.Email == email {
			return u, true
		}
	}
	return nil, false
}

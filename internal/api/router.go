package api

import (
	"log"
	"net/http"
	"strings"

	"github.com/example/storefront/internal/api/middleware"
	"github.com/example/storefront/internal/auth"
	"github.com/example/storefront/internal/domain/user"
)

// RouterConfig carries everything the router needs
type RouterConfig struct {
	Handlers      *Handlers
	AuthHandlers  *AuthHandlers
	AdminHandlers *AdminHandlers
	EmailHandlers *EmailHandlers
	JWTService    *auth.JWTService
	WebDir        string
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	requireAuth := middleware.AuthMiddleware(cfg.JWTService)
	optionalAuth := middleware.OptionalAuthMiddleware(cfg.JWTService)
	requireAdmin := func(next http.Handler) http.Handler {
		return requireAuth(middleware.RequireRole(user.RoleAdmin)(next))
	}

	// Static files (web UI)
	if cfg.WebDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(cfg.WebDir)))
	}

	// Auth
	mux.HandleFunc("/api/auth/register", methodHandler(http.MethodPost, cfg.AuthHandlers.Register))
	mux.HandleFunc("/api/auth/login", methodHandler(http.MethodPost, cfg.AuthHandlers.Login))
	mux.HandleFunc("/api/auth/refresh", methodHandler(http.MethodPost, cfg.AuthHandlers.Refresh))
	mux.Handle("/api/auth/logout", optionalAuth(methodHandler(http.MethodPost, cfg.AuthHandlers.Logout)))
	mux.Handle("/api/auth/change-password", requireAuth(methodHandler(http.MethodPost, cfg.AuthHandlers.ChangePassword)))
	mux.Handle("/api/auth/me", requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			cfg.AuthHandlers.Me(w, r)
		case http.MethodPut:
			cfg.AuthHandlers.UpdateProfile(w, r)
		case http.MethodDelete:
			cfg.AuthHandlers.DeleteAccount(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	// Catalog
	mux.HandleFunc("/api/products", methodHandler(http.MethodGet, cfg.Handlers.GetProducts))
	mux.HandleFunc("/api/products/", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/reviews"):
			cfg.Handlers.GetProductReviews(w, r)
		case r.Method == http.MethodGet:
			cfg.Handlers.GetProduct(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Reviews and testimonials
	mux.HandleFunc("/api/testimonials", methodHandler(http.MethodGet, cfg.Handlers.GetTestimonials))
	mux.Handle("/api/reviews", requireAuth(methodHandler(http.MethodPost, cfg.Handlers.SubmitReview)))

	// Contact
	mux.HandleFunc("/api/contact", methodHandler(http.MethodPost, cfg.Handlers.SubmitContact))

	// Cart
	mux.Handle("/api/cart", requireAuth(methodHandler(http.MethodGet, cfg.Handlers.GetCart)))
	mux.Handle("/api/cart/items", requireAuth(methodHandler(http.MethodPost, cfg.Handlers.AddToCart)))
	mux.Handle("/api/cart/items/", requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPatch:
			cfg.Handlers.UpdateCartItem(w, r)
		case http.MethodDelete:
			cfg.Handlers.RemoveFromCart(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	// Checkout and orders
	mux.Handle("/api/checkout", requireAuth(methodHandler(http.MethodPost, cfg.Handlers.Checkout)))
	mux.Handle("/api/orders", requireAuth(methodHandler(http.MethodGet, cfg.Handlers.GetOrders)))
	mux.Handle("/api/orders/", requireAuth(methodHandler(http.MethodGet, cfg.Handlers.GetOrder)))

	// Admin console
	mux.Handle("/api/admin/products", requireAdmin(methodHandler(http.MethodPost, cfg.AdminHandlers.CreateProduct)))
	mux.Handle("/api/admin/products/", requireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			cfg.AdminHandlers.UpdateProduct(w, r)
		case http.MethodDelete:
			cfg.AdminHandlers.DeleteProduct(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))
	mux.Handle("/api/admin/uploads", requireAdmin(methodHandler(http.MethodPost, cfg.AdminHandlers.UploadImage)))
	mux.Handle("/api/admin/orders", requireAdmin(methodHandler(http.MethodGet, cfg.AdminHandlers.GetAllOrders)))
	mux.Handle("/api/admin/orders/", requireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(path, "/fulfill"):
			cfg.AdminHandlers.FulfillOrder(w, r)
		case r.Method == http.MethodPost && strings.HasSuffix(path, "/reject"):
			cfg.AdminHandlers.RejectOrder(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))
	mux.Handle("/api/admin/users", requireAdmin(methodHandler(http.MethodGet, cfg.AdminHandlers.GetUsers)))
	mux.Handle("/api/admin/messages", requireAdmin(methodHandler(http.MethodGet, cfg.AdminHandlers.GetMessages)))
	mux.Handle("/api/admin/messages/", requireAdmin(methodHandler(http.MethodDelete, cfg.AdminHandlers.DeleteMessage)))

	// Stateless mail endpoints
	mux.HandleFunc("/api/send-contact-email", methodHandler(http.MethodPost, cfg.EmailHandlers.SendContactEmail))
	mux.HandleFunc("/api/send-order-email", methodHandler(http.MethodPost, cfg.EmailHandlers.SendOrderEmail))
	mux.HandleFunc("/api/send-status-email", methodHandler(http.MethodPost, cfg.EmailHandlers.SendStatusEmail))

	return withLogging(mux)
}

func methodHandler(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("[API] %s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

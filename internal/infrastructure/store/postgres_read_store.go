package store

import (
	"database/sql"
	"encoding/json"
	"log"
	"sync"

	"github.com/example/storefront/internal/readmodel"
)

// PostgresReadStore implements ReadStoreInterface using PostgreSQL.
// Each collection maps to a read_* table kept up to date by the projector.
type PostgresReadStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewPostgresReadStore creates a new PostgreSQL-based read store
func NewPostgresReadStore(db *sql.DB) *PostgresReadStore {
	return &PostgresReadStore{db: db}
}

// Set stores a read model
func (rs *PostgresReadStore) Set(collection, id string, data any) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	switch collection {
	case "products":
		return rs.setProduct(id, data.(*readmodel.ProductReadModel))
	case "carts":
		return rs.setCart(id, data.(*readmodel.CartReadModel))
	case "orders":
		return rs.setOrder(id, data.(*readmodel.OrderReadModel))
	case "reviews":
		return rs.setReview(id, data.(*readmodel.ReviewReadModel))
	case "messages":
		return rs.setMessage(id, data.(*readmodel.MessageReadModel))
	case "users":
		return rs.setUser(id, data.(*readmodel.UserReadModel))
	case "sessions":
		return rs.setSession(id, data.(*readmodel.SessionReadModel))
	}
	return nil
}

// Get retrieves a read model by id
func (rs *PostgresReadStore) Get(collection, id string) (any, bool, error) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.getUnsafe(collection, id)
}

func (rs *PostgresReadStore) getUnsafe(collection, id string) (any, bool, error) {
	switch collection {
	case "products":
		return rs.getProduct(id)
	case "carts":
		return rs.getCart(id)
	case "orders":
		return rs.getOrder(id)
	case "reviews":
		return rs.getReview(id)
	case "messages":
		return rs.getMessage(id)
	case "users":
		return rs.getUser(id)
	case "sessions":
		return rs.getSession(id)
	}
	return nil, false, nil
}

// GetAll retrieves all items in a collection
func (rs *PostgresReadStore) GetAll(collection string) ([]any, error) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	switch collection {
	case "products":
		return rs.getAllProducts()
	case "carts":
		return rs.getAllCarts()
	case "orders":
		return rs.getAllOrders()
	case "reviews":
		return rs.getAllReviews()
	case "messages":
		return rs.getAllMessages()
	case "users":
		return rs.getAllUsers()
	case "sessions":
		return rs.getAllSessions()
	}
	return nil, nil
}

// Delete removes a read model
func (rs *PostgresReadStore) Delete(collection, id string) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	table, ok := readTables[collection]
	if !ok {
		return nil
	}

	_, err := rs.db.Exec("DELETE FROM "+table+" WHERE id = $1", id)
	if err != nil {
		log.Printf("[PostgresReadStore] Error deleting from %s: %v", collection, err)
	}
	return err
}

var readTables = map[string]string{
	"products": "read_products",
	"carts":    "read_carts",
	"orders":   "read_orders",
	"reviews":  "read_reviews",
	"messages": "read_messages",
	"users":    "read_users",
	"sessions": "user_sessions",
}

// Update modifies a read model using an update function
func (rs *PostgresReadStore) Update(collection, id string, updateFn func(current any) any) (bool, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	current, found, err := rs.getUnsafe(collection, id)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}

	updated := updateFn(current)

	switch collection {
	case "products":
		err = rs.setProduct(id, updated.(*readmodel.ProductReadModel))
	case "carts":
		err = rs.setCart(id, updated.(*readmodel.CartReadModel))
	case "orders":
		err = rs.setOrder(id, updated.(*readmodel.OrderReadModel))
	case "reviews":
		err = rs.setReview(id, updated.(*readmodel.ReviewReadModel))
	case "messages":
		err = rs.setMessage(id, updated.(*readmodel.MessageReadModel))
	case "users":
		err = rs.setUser(id, updated.(*readmodel.UserReadModel))
	case "sessions":
		err = rs.setSession(id, updated.(*readmodel.SessionReadModel))
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Products

func (rs *PostgresReadStore) setProduct(id string, p *readmodel.ProductReadModel) error {
	gallery, err := json.Marshal(p.GalleryImageURLs)
	if err != nil {
		return err
	}
	_, err = rs.db.Exec(
		`INSERT INTO read_products
		 (id, name, category, description, specifications, main_image_url, gallery_image_urls,
		  price, original_price, discounted_price, availability, quantity, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 ON CONFLICT (id) DO UPDATE SET
		   name = EXCLUDED.name, category = EXCLUDED.category, description = EXCLUDED.description,
		   specifications = EXCLUDED.specifications, main_image_url = EXCLUDED.main_image_url,
		   gallery_image_urls = EXCLUDED.gallery_image_urls, price = EXCLUDED.price,
		   original_price = EXCLUDED.original_price, discounted_price = EXCLUDED.discounted_price,
		   availability = EXCLUDED.availability, quantity = EXCLUDED.quantity,
		   updated_at = EXCLUDED.updated_at`,
		id, p.Name, p.Category, p.Description, p.Specifications, p.MainImageURL, gallery,
		p.Price, p.OriginalPrice, p.DiscountedPrice, p.Availability, p.Quantity, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (rs *PostgresReadStore) scanProduct(row interface{ Scan(...any) error }) (*readmodel.ProductReadModel, error) {
	var p readmodel.ProductReadModel
	var gallery []byte
	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Description, &p.Specifications,
		&p.MainImageURL, &gallery, &p.Price, &p.OriginalPrice, &p.DiscountedPrice,
		&p.Availability, &p.Quantity, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(gallery) > 0 {
		if err := json.Unmarshal(gallery, &p.GalleryImageURLs); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

const productColumns = `id, name, category, description, specifications, main_image_url,
	gallery_image_urls, price, original_price, discounted_price, availability, quantity,
	created_at, updated_at`

func (rs *PostgresReadStore) getProduct(id string) (any, bool, error) {
	row := rs.db.QueryRow("SELECT "+productColumns+" FROM read_products WHERE id = $1", id)
	p, err := rs.scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}

func (rs *PostgresReadStore) getAllProducts() ([]any, error) {
	rows, err := rs.db.Query("SELECT " + productColumns + " FROM read_products ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []any
	for rows.Next() {
		p, err := rs.scanProduct(rows)
		if err != nil {
			continue
		}
		items = append(items, p)
	}
	return items, nil
}

// Carts

func (rs *PostgresReadStore) setCart(id string, c *readmodel.CartReadModel) error {
	lines, err := json.Marshal(c.Lines)
	if err != nil {
		return err
	}
	_, err = rs.db.Exec(
		`INSERT INTO read_carts (id, user_id, lines, total)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET
		   user_id = EXCLUDED.user_id, lines = EXCLUDED.lines, total = EXCLUDED.total`,
		id, c.UserID, lines, c.Total,
	)
	return err
}

func (rs *PostgresReadStore) getCart(id string) (any, bool, error) {
	var c readmodel.CartReadModel
	var lines []byte
	err := rs.db.QueryRow("SELECT id, user_id, lines, total FROM read_carts WHERE id = $1", id).
		Scan(&c.ID, &c.UserID, &lines, &c.Total)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if err := json.Unmarshal(lines, &c.Lines); err != nil {
		return nil, false, err
	}
	return &c, true, nil
}

func (rs *PostgresReadStore) getAllCarts() ([]any, error) {
	rows, err := rs.db.Query("SELECT id, user_id, lines, total FROM read_carts")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []any
	for rows.Next() {
		var c readmodel.CartReadModel
		var lines []byte
		if err := rows.Scan(&c.ID, &c.UserID, &lines, &c.Total); err != nil {
			continue
		}
		if err := json.Unmarshal(lines, &c.Lines); err != nil {
			continue
		}
		items = append(items, &c)
	}
	return items, nil
}

// Orders

func (rs *PostgresReadStore) setOrder(id string, o *readmodel.OrderReadModel) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}
	_, err = rs.db.Exec(
		`INSERT INTO read_orders
		 (id, user_id, customer_name, email, phone, address, items, total, proof_url, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (id) DO UPDATE SET
		   customer_name = EXCLUDED.customer_name, email = EXCLUDED.email, phone = EXCLUDED.phone,
		   address = EXCLUDED.address, items = EXCLUDED.items, total = EXCLUDED.total,
		   proof_url = EXCLUDED.proof_url, status = EXCLUDED.status, updated_at = EXCLUDED.updated_at`,
		id, o.UserID, o.CustomerName, o.Email, o.Phone, o.Address, items, o.Total,
		o.ProofURL, o.Status, o.CreatedAt, o.UpdatedAt,
	)
	return err
}

const orderColumns = `id, user_id, customer_name, email, phone, address, items, total,
	proof_url, status, created_at, updated_at`

func (rs *PostgresReadStore) scanOrder(row interface{ Scan(...any) error }) (*readmodel.OrderReadModel, error) {
	var o readmodel.OrderReadModel
	var items []byte
	err := row.Scan(&o.ID, &o.UserID, &o.CustomerName, &o.Email, &o.Phone, &o.Address,
		&items, &o.Total, &o.ProofURL, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, err
	}
	return &o, nil
}

func (rs *PostgresReadStore) getOrder(id string) (any, bool, error) {
	row := rs.db.QueryRow("SELECT "+orderColumns+" FROM read_orders WHERE id = $1", id)
	o, err := rs.scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return o, true, nil
}

func (rs *PostgresReadStore) getAllOrders() ([]any, error) {
	rows, err := rs.db.Query("SELECT " + orderColumns + " FROM read_orders ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []any
	for rows.Next() {
		o, err := rs.scanOrder(rows)
		if err != nil {
			continue
		}
		items = append(items, o)
	}
	return items, nil
}

// Reviews

func (rs *PostgresReadStore) setReview(id string, r *readmodel.ReviewReadModel) error {
	_, err := rs.db.Exec(
		`INSERT INTO read_reviews
		 (id, user_id, product_id, display_name, body, rating, photo_url, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET
		   display_name = EXCLUDED.display_name, body = EXCLUDED.body, rating = EXCLUDED.rating,
		   photo_url = EXCLUDED.photo_url, updated_at = EXCLUDED.updated_at`,
		id, r.UserID, r.ProductID, r.DisplayName, r.Body, r.Rating, r.PhotoURL, r.CreatedAt, r.UpdatedAt,
	)
	return err
}

func (rs *PostgresReadStore) getReview(id string) (any, bool, error) {
	var r readmodel.ReviewReadModel
	err := rs.db.QueryRow(
		`SELECT id, user_id, product_id, display_name, body, rating, photo_url, created_at, updated_at
		 FROM read_reviews WHERE id = $1`, id).
		Scan(&r.ID, &r.UserID, &r.ProductID, &r.DisplayName, &r.Body, &r.Rating, &r.PhotoURL,
			&r.CreatedAt, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &r, true, nil
}

func (rs *PostgresReadStore) getAllReviews() ([]any, error) {
	rows, err := rs.db.Query(
		`SELECT id, user_id, product_id, display_name, body, rating, photo_url, created_at, updated_at
		 FROM read_reviews ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []any
	for rows.Next() {
		var r readmodel.ReviewReadModel
		if err := rows.Scan(&r.ID, &r.UserID, &r.ProductID, &r.DisplayName, &r.Body, &r.Rating,
			&r.PhotoURL, &r.CreatedAt, &r.UpdatedAt); err != nil {
			continue
		}
		items = append(items, &r)
	}
	return items, nil
}

// Messages

func (rs *PostgresReadStore) setMessage(id string, m *readmodel.MessageReadModel) error {
	_, err := rs.db.Exec(
		`INSERT INTO read_messages (id, name, email, body, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO NOTHING`,
		id, m.Name, m.Email, m.Body, m.CreatedAt,
	)
	return err
}

func (rs *PostgresReadStore) getMessage(id string) (any, bool, error) {
	var m readmodel.MessageReadModel
	err := rs.db.QueryRow(
		"SELECT id, name, email, body, created_at FROM read_messages WHERE id = $1", id).
		Scan(&m.ID, &m.Name, &m.Email, &m.Body, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &m, true, nil
}

func (rs *PostgresReadStore) getAllMessages() ([]any, error) {
	rows, err := rs.db.Query(
		"SELECT id, name, email, body, created_at FROM read_messages ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []any
	for rows.Next() {
		var m readmodel.MessageReadModel
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Body, &m.CreatedAt); err != nil {
			continue
		}
		items = append(items, &m)
	}
	return items, nil
}

// Users

func (rs *PostgresReadStore) setUser(id string, u *readmodel.UserReadModel) error {
	_, err := rs.db.Exec(
		`INSERT INTO read_users (id, email, password_hash, name, phone, photo_url, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET
		   email = EXCLUDED.email, password_hash = EXCLUDED.password_hash, name = EXCLUDED.name,
		   phone = EXCLUDED.phone, photo_url = EXCLUDED.photo_url, role = EXCLUDED.role,
		   updated_at = EXCLUDED.updated_at`,
		id, u.Email, u.PasswordHash, u.Name, u.Phone, u.PhotoURL, u.Role, u.CreatedAt, u.UpdatedAt,
	)
	return err
}

func (rs *PostgresReadStore) getUser(id string) (any, bool, error) {
	var u readmodel.UserReadModel
	err := rs.db.QueryRow(
		`SELECT id, email, password_hash, name, phone, photo_url, role, created_at, updated_at
		 FROM read_users WHERE id = $1`, id).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Phone, &u.PhotoURL, &u.Role,
			&u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &u, true, nil
}

func (rs *PostgresReadStore) getAllUsers() ([]any, error) {
	rows, err := rs.db.Query(
		`SELECT id, email, password_hash, name, phone, photo_url, role, created_at, updated_at
		 FROM read_users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []any
	for rows.Next() {
		var u readmodel.UserReadModel
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Phone, &u.PhotoURL,
			&u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			continue
		}
		items = append(items, &u)
	}
	return items, nil
}

// GetUserByEmail looks up a user read model by email address
func (rs *PostgresReadStore) GetUserByEmail(email string) (*readmodel.UserReadModel, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	var u readmodel.UserReadModel
	err := rs.db.QueryRow(
		`SELECT id, email, password_hash, name, phone, photo_url, role, created_at, updated_at
		 FROM read_users WHERE email = $1`, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Phone, &u.PhotoURL, &u.Role,
			&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, false
	}
	return &u, true
}

// Sessions

func (rs *PostgresReadStore) setSession(id string, s *readmodel.SessionReadModel) error {
	_, err := rs.db.Exec(
		`INSERT INTO user_sessions (id, user_id, refresh_token_hash, expires_at, created_at, ip_address, user_agent)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE SET
		   refresh_token_hash = EXCLUDED.refresh_token_hash, expires_at = EXCLUDED.expires_at`,
		id, s.UserID, s.RefreshTokenHash, s.ExpiresAt, s.CreatedAt, s.IPAddress, s.UserAgent,
	)
	return err
}

func (rs *PostgresReadStore) getSession(id string) (any, bool, error) {
	var s readmodel.SessionReadModel
	err := rs.db.QueryRow(
		`SELECT id, user_id, refresh_token_hash, expires_at, created_at, ip_address, user_agent
		 FROM user_sessions WHERE id = $1`, id).
		Scan(&s.ID, &s.UserID, &s.RefreshTokenHash, &s.ExpiresAt, &s.CreatedAt, &s.IPAddress, &s.UserAgent)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &s, true, nil
}

func (rs *PostgresReadStore) getAllSessions() ([]any, error) {
	rows, err := rs.db.Query(
		`SELECT id, user_id, refresh_token_hash, expires_at, created_at, ip_address, user_agent
		 FROM user_sessions`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []any
	for rows.Next() {
		var s readmodel.SessionReadModel
		if err := rows.Scan(&s.ID, &s.UserID, &s.RefreshTokenHash, &s.ExpiresAt, &s.CreatedAt,
			&s.IPAddress, &s.UserAgent); err != nil {
			continue
		}
		items = append(items, &s)
	}
	return items, nil
}

// DeleteSessionsByUserID removes all sessions belonging to a user
func (rs *PostgresReadStore) DeleteSessionsByUserID(userID string) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	_, err := rs.db.Exec("DELETE FROM user_sessions WHERE user_id = $1", userID)
	return err
}

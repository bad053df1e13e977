package store

import "database/sql"

// EnsureSchema creates the event store and read model tables if they do not
// exist. Intended for local development; production deployments run
// migrations out of band.
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id UUID PRIMARY KEY,
			aggregate_id TEXT NOT NULL,
			aggregate_type TEXT NOT NULL,
			event_type TEXT NOT NULL,
			data JSONB NOT NULL,
			version INT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			UNIQUE (aggregate_id, version)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_aggregate ON events (aggregate_id, version)`,
		`CREATE TABLE IF NOT EXISTS snapshots (
			aggregate_id TEXT PRIMARY KEY,
			aggregate_type TEXT NOT NULL,
			version INT NOT NULL,
			state JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS read_products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			description TEXT NOT NULL,
			specifications TEXT NOT NULL DEFAULT '',
			main_image_url TEXT NOT NULL,
			gallery_image_urls JSONB,
			price BIGINT NOT NULL DEFAULT 0,
			original_price BIGINT NOT NULL DEFAULT 0,
			discounted_price BIGINT NOT NULL DEFAULT 0,
			availability TEXT NOT NULL,
			quantity INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_read_products_category ON read_products (category)`,
		`CREATE TABLE IF NOT EXISTS read_carts (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			lines JSONB NOT NULL,
			total BIGINT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS read_orders (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			customer_name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL,
			items JSONB NOT NULL,
			total BIGINT NOT NULL,
			proof_url TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_read_orders_user ON read_orders (user_id)`,
		`CREATE TABLE IF NOT EXISTS read_reviews (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			product_id TEXT NOT NULL DEFAULT '',
			display_name TEXT NOT NULL,
			body TEXT NOT NULL,
			rating INT NOT NULL,
			photo_url TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_read_reviews_product ON read_reviews (product_id)`,
		`CREATE TABLE IF NOT EXISTS read_messages (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			body TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS read_users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			name TEXT NOT NULL,
			phone TEXT NOT NULL DEFAULT '',
			photo_url TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS user_sessions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			refresh_token_hash TEXT NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			ip_address TEXT NOT NULL DEFAULT '',
			user_agent TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_user_sessions_user ON user_sessions (user_id)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
)

// Open returns a pooled handle and checks that the server answers.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("mysql open: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mysql ping: %w", err)
	}
	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
        id BIGINT AUTO_INCREMENT PRIMARY KEY,
        department VARCHAR(64) NOT NULL DEFAULT '',
        name VARCHAR(128) NOT NULL,
        slug VARCHAR(160) NOT NULL,
        description TEXT,
        is_active TINYINT(1) NOT NULL DEFAULT 1,
        UNIQUE KEY uniq_categories_slug (slug)
    )`,
	`CREATE TABLE IF NOT EXISTS products (
        id BIGINT AUTO_INCREMENT PRIMARY KEY,
        title VARCHAR(255) NOT NULL,
        slug VARCHAR(280) NOT NULL,
        sku VARCHAR(64) NOT NULL,
        description TEXT,
        brand VARCHAR(128) NOT NULL DEFAULT '',
        base_price DECIMAL(12,2) NOT NULL,
        currency CHAR(3) NOT NULL DEFAULT 'USD',
        stock BIGINT NOT NULL DEFAULT 0,
        category_id BIGINT NOT NULL,
        vendor_id BIGINT NOT NULL DEFAULT 0,
        state VARCHAR(16) NOT NULL DEFAULT 'active',
        UNIQUE KEY uniq_products_slug (slug),
        UNIQUE KEY uniq_products_sku (sku),
        KEY idx_products_category (category_id),
        KEY idx_products_vendor (vendor_id)
    )`,
	`CREATE TABLE IF NOT EXISTS departments (
        id BIGINT AUTO_INCREMENT PRIMARY KEY,
        name VARCHAR(128) NOT NULL,
        slug VARCHAR(160) NOT NULL,
        description TEXT,
        banner_url VARCHAR(512) NOT NULL DEFAULT '',
        UNIQUE KEY uniq_departments_slug (slug)
    )`,
	`CREATE TABLE IF NOT EXISTS subcategories (
        id BIGINT AUTO_INCREMENT PRIMARY KEY,
        category_id BIGINT NOT NULL,
        name VARCHAR(70) NOT NULL,
        slug VARCHAR(90) NOT NULL,
        UNIQUE KEY uniq_subcategories_name (name),
        UNIQUE KEY uniq_subcategories_slug (slug),
        KEY idx_subcategories_category (category_id)
    )`,
	`CREATE TABLE IF NOT EXISTS brands (
        id BIGINT AUTO_INCREMENT PRIMARY KEY,
        name VARCHAR(70) NOT NULL,
        slug VARCHAR(90) NOT NULL,
        logo_url VARCHAR(512) NOT NULL DEFAULT '',
        UNIQUE KEY uniq_brands_name (name),
        UNIQUE KEY uniq_brands_slug (slug)
    )`,
	`CREATE TABLE IF NOT EXISTS vendors (
        id BIGINT AUTO_INCREMENT PRIMARY KEY,
        name VARCHAR(128) NOT NULL,
        slug VARCHAR(160) NOT NULL,
        description TEXT,
        website VARCHAR(255) NOT NULL DEFAULT '',
        contact_person VARCHAR(128) NOT NULL DEFAULT '',
        contact_email VARCHAR(255) NOT NULL DEFAULT '',
        contact_phone VARCHAR(32) NOT NULL DEFAULT '',
        country VARCHAR(64) NOT NULL DEFAULT '',
        state VARCHAR(64) NOT NULL DEFAULT '',
        address VARCHAR(255) NOT NULL DEFAULT '',
        postal_code VARCHAR(16) NOT NULL DEFAULT '',
        UNIQUE KEY uniq_vendors_slug (slug)
    )`,
	`CREATE TABLE IF NOT EXISTS orders (
        id BIGINT AUTO_INCREMENT PRIMARY KEY,
        user_id CHAR(24) NOT NULL,
        status VARCHAR(16) NOT NULL,
        payment_method VARCHAR(16) NOT NULL,
        payment_session_id VARCHAR(64) NOT NULL DEFAULT '',
        currency CHAR(3) NOT NULL,
        total_amount DECIMAL(14,2) NOT NULL,
        created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        KEY idx_orders_user (user_id)
    )`,
	`CREATE TABLE IF NOT EXISTS order_items (
        id BIGINT AUTO_INCREMENT PRIMARY KEY,
        order_id BIGINT NOT NULL,
        product_id BIGINT NOT NULL,
        product_name VARCHAR(255) NOT NULL,
        unit_price DECIMAL(12,2) NOT NULL,
        quantity BIGINT NOT NULL,
        KEY idx_order_items_order (order_id)
    )`,
}

// Migrate creates the catalog and order tables when they are missing.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("mysql migrate: %w", err)
		}
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern matches term anywhere in a column, with LIKE wildcards in
// term taken literally.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// isDuplicate reports a unique key violation.
func isDuplicate(err error) bool {
	var myErr *mysqldriver.MySQLError
	return errors.As(err, &myErr) && myErr.Number == 1062
}

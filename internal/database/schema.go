package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema lists the DDL statements in dependency order.  Each statement is
// idempotent so Migrate can run on every deploy.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS locations (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		city_name VARCHAR(100) NOT NULL UNIQUE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS restaurants (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		location_id BIGINT UNSIGNED NOT NULL,
		name VARCHAR(150) NOT NULL UNIQUE,
		cuisine_type VARCHAR(100) NOT NULL DEFAULT '',
		is_veg_only BOOLEAN NOT NULL DEFAULT FALSE,
		description TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_restaurants_location FOREIGN KEY (location_id) REFERENCES locations(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		email VARCHAR(190) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role ENUM('CUSTOMER','STAFF') NOT NULL DEFAULT 'CUSTOMER',
		restaurant_id BIGINT UNSIGNED NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		CONSTRAINT fk_users_restaurant FOREIGN KEY (restaurant_id) REFERENCES restaurants(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS restaurant_tables (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		restaurant_id BIGINT UNSIGNED NOT NULL,
		table_number VARCHAR(20) NOT NULL,
		capacity INT UNSIGNED NOT NULL,
		status ENUM('AVAILABLE','RESERVED') NOT NULL DEFAULT 'AVAILABLE',
		deleted_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_tables_restaurant_status (restaurant_id, status),
		CONSTRAINT chk_tables_capacity CHECK (capacity > 0),
		CONSTRAINT fk_tables_restaurant FOREIGN KEY (restaurant_id) REFERENCES restaurants(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT UNSIGNED NOT NULL,
		restaurant_id BIGINT UNSIGNED NOT NULL,
		table_id BIGINT UNSIGNED NOT NULL,
		booking_date DATE NOT NULL,
		booking_time TIME NOT NULL,
		party_size INT UNSIGNED NOT NULL,
		status ENUM('confirmed','cancelled','completed') NOT NULL DEFAULT 'confirmed',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_bookings_restaurant_date (restaurant_id, booking_date, booking_time),
		KEY idx_bookings_user (user_id),
		KEY idx_bookings_status_date (status, booking_date),
		CONSTRAINT fk_bookings_user FOREIGN KEY (user_id) REFERENCES users(id),
		CONSTRAINT fk_bookings_restaurant FOREIGN KEY (restaurant_id) REFERENCES restaurants(id),
		CONSTRAINT fk_bookings_table FOREIGN KEY (table_id) REFERENCES restaurant_tables(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS menu_items (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		restaurant_id BIGINT UNSIGNED NOT NULL,
		item_name VARCHAR(150) NOT NULL,
		description TEXT NOT NULL,
		price DECIMAL(10,2) NOT NULL,
		category VARCHAR(60) NOT NULL DEFAULT '',
		is_veg BOOLEAN NOT NULL DEFAULT TRUE,
		UNIQUE KEY uq_menu_item (restaurant_id, item_name),
		CONSTRAINT fk_menu_restaurant FOREIGN KEY (restaurant_id) REFERENCES restaurants(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS reviews (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT UNSIGNED NOT NULL,
		restaurant_id BIGINT UNSIGNED NOT NULL,
		customer_service TINYINT UNSIGNED NOT NULL,
		food_quality TINYINT UNSIGNED NOT NULL,
		respect TINYINT UNSIGNED NOT NULL,
		overall_rating DOUBLE NOT NULL,
		review_text TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_reviews_restaurant (restaurant_id),
		CONSTRAINT chk_reviews_scores CHECK (customer_service BETWEEN 1 AND 5 AND food_quality BETWEEN 1 AND 5 AND respect BETWEEN 1 AND 5),
		CONSTRAINT fk_reviews_user FOREIGN KEY (user_id) REFERENCES users(id),
		CONSTRAINT fk_reviews_restaurant FOREIGN KEY (restaurant_id) REFERENCES restaurants(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS offers (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		restaurant_id BIGINT UNSIGNED NOT NULL,
		title VARCHAR(150) NOT NULL,
		description TEXT NOT NULL,
		discount_percentage DECIMAL(5,2) NOT NULL,
		valid_from DATE NOT NULL,
		valid_to DATE NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_offers_restaurant (restaurant_id),
		CONSTRAINT fk_offers_restaurant FOREIGN KEY (restaurant_id) REFERENCES restaurants(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates every table that does not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}

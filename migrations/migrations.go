package migrations

import (
	"database/sql"
	"time"
)

var tables = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		email VARCHAR(100) NOT NULL UNIQUE,
		phone VARCHAR(20) NOT NULL DEFAULT '',
		password VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'active',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	);`,
	`CREATE TABLE IF NOT EXISTS shops (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		owner_id BIGINT NOT NULL,
		name VARCHAR(100) NOT NULL,
		address VARCHAR(255) NOT NULL DEFAULT '',
		phone VARCHAR(20) NOT NULL DEFAULT '',
		email VARCHAR(100) NOT NULL DEFAULT '',
		gst_number VARCHAR(30) NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX owner_idx (owner_id)
	);`,
	`CREATE TABLE IF NOT EXISTS shop_salesmen (
		shop_id BIGINT NOT NULL,
		salesman_id BIGINT NOT NULL,
		PRIMARY KEY (shop_id, salesman_id)
	);`,
	`CREATE TABLE IF NOT EXISTS products (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		shop_id BIGINT NOT NULL,
		name VARCHAR(100) NOT NULL,
		description TEXT,
		base_price DECIMAL(18,2) NOT NULL,
		selling_price DECIMAL(18,2) NOT NULL,
		stock INT NOT NULL DEFAULT 0,
		status VARCHAR(20) NOT NULL DEFAULT 'active',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX shop_idx (shop_id)
	);`,
	`CREATE TABLE IF NOT EXISTS sales (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		shop_id BIGINT NOT NULL,
		salesman_id BIGINT NOT NULL,
		total_amount DECIMAL(18,2) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		rejection_reason VARCHAR(255),
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX shop_idx (shop_id),
		INDEX salesman_idx (salesman_id)
	);`,
	`CREATE TABLE IF NOT EXISTS sale_items (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		sale_id BIGINT NOT NULL,
		product_id BIGINT NOT NULL,
		quantity INT NOT NULL,
		price DECIMAL(18,2) NOT NULL,
		INDEX sale_idx (sale_id)
	);`,
	`CREATE TABLE IF NOT EXISTS commission_rules (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		shop_id BIGINT NOT NULL,
		name VARCHAR(100) NOT NULL,
		description TEXT,
		type VARCHAR(20) NOT NULL,
		value DECIMAL(18,2) NOT NULL,
		product_id BIGINT,
		min_amount DECIMAL(18,2),
		max_amount DECIMAL(18,2),
		status VARCHAR(20) NOT NULL DEFAULT 'active',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX shop_idx (shop_id)
	);`,
	`CREATE TABLE IF NOT EXISTS commissions (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		sale_id BIGINT NOT NULL UNIQUE,
		salesman_id BIGINT NOT NULL,
		rule_id BIGINT NOT NULL,
		amount DECIMAL(18,2) NOT NULL,
		rate DECIMAL(18,2) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX salesman_idx (salesman_id)
	);`,
}

// AutoMigrate creates all tables if they do not exist.
func AutoMigrate(retries int, db *sql.DB) error {
	for _, query := range tables {
		_, err := db.Exec(query)
		if err != nil {
			// Retry creating the table
			for i := 0; i < retries; i++ {
				time.Sleep(1 * time.Second)
				_, err = db.Exec(query)
				if err == nil {
					break
				}
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

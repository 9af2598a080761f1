package db

import (
	"payments_admin/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus"

	"gorm.io/driver/postgres" // Postgres driver for GORM
	"gorm.io/gorm"            // GORM ORM library
)

// Connect opens a Postgres connection for the given DSN
func Connect(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

// Migrate performs automatic migration for the database schema
func Migrate(dsn string) {
	conn, err := Connect(dsn) // Open a connection to the database
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err) // Log fatal error if connection fails
	}
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	err = AutoMigrate(conn)
	if err != nil {
		logrus.Fatalf("migration failed: %v", err) // Log fatal error if migration fails
	}
	logrus.Info("Migration completed.") // Log successful migration
}

// AutoMigrate migrates every table the admin backend serves
func AutoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&domain.User{},
		&domain.Wallet{},
		&domain.Transaction{},
		&domain.NfcTag{},
		&domain.Module{},
		&domain.Page{},
		&domain.PageTemplate{},
		&domain.Pot{},
		&domain.OAuthClient{},
		&domain.PaymentSettings{},
		&domain.SMTPSettings{},
		&domain.SSOSettings{},
		&domain.SiteSettings{},
	)
}

package database

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/Plantrich-blimp/plantrich-app/pkg/config"
)

func TestNew_NotConfigured(t *testing.T) {
	cfg := &config.Config{}

	db, err := New(context.Background(), cfg)
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("Expected ErrNotConfigured, got %v", err)
	}
	if db != nil {
		t.Error("Expected nil DB")
	}

	// Close on a nil DB must not panic
	db.Close()
}

func TestNewAndMigrate(t *testing.T) {
	// Skip if TEST_DATABASE_URL is not set
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	cfg := &config.Config{Database: config.DatabaseConfig{URL: url, MaxConns: 2, MinConns: 1}}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := New(ctx, cfg)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}

	// Migration is idempotent
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate failed: %v", err)
	}

	if status := db.HealthCheck(ctx); !status.Healthy {
		t.Errorf("Expected healthy database, got %+v", status)
	}
}

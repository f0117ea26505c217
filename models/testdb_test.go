package models_test

import (
	"context"
	"fmt"
	"testing"

	"bitbucket.org/mmdatafocus/insurance_backend/config"
	"bitbucket.org/mmdatafocus/insurance_backend/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// useTestDB points the global DB at a fresh in-memory sqlite database.
func useTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := config.OpenDatabase(sqlite.Open(dsn))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := models.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	prev := config.GetDB()
	config.SetDB(conn)
	t.Cleanup(func() {
		config.SetDB(prev)
		_ = sqlDB.Close()
	})
	return conn
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func mustDate(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func newPolicyInput(t *testing.T, number string) *models.NewPolicy {
	t.Helper()
	return &models.NewPolicy{
		PolicyNumber:   number,
		PolicyType:     "auto",
		CustomerId:     "CUST-1",
		PremiumAmount:  dec("100"),
		CoverageAmount: dec("1000"),
		StartDate:      mustDate(t, "2024-01-01"),
		EndDate:        mustDate(t, "2024-12-31"),
	}
}

func mustCreatePolicy(t *testing.T, ctx context.Context, number string) *models.Policy {
	t.Helper()
	policy, err := models.CreatePolicy(ctx, newPolicyInput(t, number))
	if err != nil {
		t.Fatalf("CreatePolicy(%s): %v", number, err)
	}
	return policy
}

package models_test

import (
	"context"
	"testing"

	"bitbucket.org/mmdatafocus/insurance_backend/models"
)

func TestExportPolicies(t *testing.T) {
	useTestDB(t)
	ctx := context.Background()
	first := mustCreatePolicy(t, ctx, "X-1")
	mustCreatePolicy(t, ctx, "X-2")

	f, err := models.ExportPolicies(ctx, models.PolicyFilter{})
	if err != nil {
		t.Fatalf("ExportPolicies: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "PolicyId" || rows[0][1] != "PolicyNumber" {
		t.Fatalf("unexpected header %v", rows[0])
	}
	if rows[1][0] != first.ID || rows[1][1] != "X-1" || rows[1][6] != "2024-01-01" {
		t.Fatalf("unexpected first row %v", rows[1])
	}
}

func TestExportProducts(t *testing.T) {
	useTestDB(t)
	ctx := context.Background()
	if _, err := models.CreateProduct(ctx, newProductInput("Export Me", models.ProductTypeAuto)); err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	f, err := models.ExportProducts(ctx, models.ProductFilter{})
	if err != nil {
		t.Fatalf("ExportProducts: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 || rows[1][1] != "Export Me" || rows[1][2] != "auto" {
		t.Fatalf("unexpected rows %v", rows)
	}
}

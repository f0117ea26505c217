package models

import (
	"context"

	"bitbucket.org/mmdatafocus/insurance_backend/config"
	"bitbucket.org/mmdatafocus/insurance_backend/utils"
	"github.com/shopspring/decimal"
)

// CatalogueProducts is the starter product catalogue.
func CatalogueProducts() []NewProduct {
	return []NewProduct{
		{
			Name:            "Comprehensive Life Insurance",
			Description:     "Complete life insurance coverage with flexible premium options",
			ProductType:     ProductTypeLife,
			BasePremium:     decimal.NewFromInt(150),
			CoverageAmount:  decimal.NewFromInt(100000),
			Deductible:      decimal.Zero,
			TermsConditions: "Standard terms apply with 30-day grace period",
		},
		{
			Name:            "Premium Health Insurance",
			Description:     "Comprehensive health coverage including dental and vision",
			ProductType:     ProductTypeHealth,
			BasePremium:     decimal.NewFromInt(300),
			CoverageAmount:  decimal.NewFromInt(50000),
			Deductible:      decimal.NewFromInt(500),
			TermsConditions: "Network providers required for full coverage",
		},
		{
			Name:            "Auto Protection Plus",
			Description:     "Full coverage auto insurance with roadside assistance",
			ProductType:     ProductTypeAuto,
			BasePremium:     decimal.NewFromInt(120),
			CoverageAmount:  decimal.NewFromInt(25000),
			Deductible:      decimal.NewFromInt(250),
			TermsConditions: "Valid driver's license required",
		},
	}
}

// SeedProducts creates each catalogue product whose name is not taken yet.
// It returns the names it created.
func SeedProducts(ctx context.Context, catalogue []NewProduct) ([]string, error) {
	created := make([]string, 0, len(catalogue))
	for i := range catalogue {
		input := catalogue[i]
		count, err := utils.ResourceCountWhere[Product](ctx, config.GetDB(), "name = ?", input.Name)
		if err != nil {
			return created, err
		}
		if count > 0 {
			continue
		}
		if _, err := CreateProduct(ctx, &input); err != nil {
			return created, err
		}
		created = append(created, input.Name)
	}
	return created, nil
}

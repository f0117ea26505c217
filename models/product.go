package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/insurance_backend/config"
	"bitbucket.org/mmdatafocus/insurance_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID              int             `gorm:"primaryKey" json:"id"`
	Name            string          `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description     string          `gorm:"size:500;not null" json:"description"`
	ProductType     ProductType     `gorm:"size:20;not null;index" json:"product_type"`
	BasePremium     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"base_premium"`
	CoverageAmount  decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"coverage_amount"`
	Deductible      decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"deductible"`
	TermsConditions string          `gorm:"type:text" json:"terms_conditions"`
	Status          ProductStatus   `gorm:"size:20;not null;default:'active';index" json:"status"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProduct struct {
	Name            string          `json:"name" binding:"required,min=1,max=100"`
	Description     string          `json:"description" binding:"required,min=10,max=500"`
	ProductType     ProductType     `json:"product_type" binding:"required"`
	BasePremium     decimal.Decimal `json:"base_premium" binding:"gt=0"`
	CoverageAmount  decimal.Decimal `json:"coverage_amount" binding:"gt=0"`
	Deductible      decimal.Decimal `json:"deductible" binding:"gte=0"`
	TermsConditions string          `json:"terms_conditions" binding:"required"`
	Status          *ProductStatus  `json:"status"`
}

type UpdateProductInput struct {
	Name            *string          `json:"name" binding:"omitempty,min=1,max=100"`
	Description     *string          `json:"description" binding:"omitempty,min=10,max=500"`
	ProductType     *ProductType     `json:"product_type"`
	BasePremium     *decimal.Decimal `json:"base_premium" binding:"omitempty,gt=0"`
	CoverageAmount  *decimal.Decimal `json:"coverage_amount" binding:"omitempty,gt=0"`
	Deductible      *decimal.Decimal `json:"deductible" binding:"omitempty,gte=0"`
	TermsConditions *string          `json:"terms_conditions"`
	Status          *ProductStatus   `json:"status"`
}

type ProductFilter struct {
	ProductType ProductType   `form:"product_type" binding:"omitempty,oneof=life health auto home business"`
	Status      ProductStatus `form:"status" binding:"omitempty,oneof=active inactive discontinued"`
}

func productNotFound(id int) error {
	return utils.NotFound("product with ID %d not found", id)
}

func duplicateProductName(name string) error {
	return utils.InvalidInput("product with name '%s' already exists", name)
}

func (input *NewProduct) validate() error {
	if !input.ProductType.IsValid() {
		return utils.InvalidInput("invalid product type %q", input.ProductType)
	}
	if input.Status != nil && !input.Status.IsValid() {
		return utils.InvalidInput("invalid product status %q", *input.Status)
	}
	if input.BasePremium.LessThanOrEqual(decimal.Zero) || input.CoverageAmount.LessThanOrEqual(decimal.Zero) {
		return utils.InvalidInput("base premium and coverage amount must be greater than 0")
	}
	if input.Deductible.IsNegative() {
		return utils.InvalidInput("deductible cannot be negative")
	}
	return nil
}

// name uniqueness is the unique index, not a lookup
func CreateProduct(ctx context.Context, input *NewProduct) (*Product, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	product := Product{
		Name:            input.Name,
		Description:     input.Description,
		ProductType:     input.ProductType,
		BasePremium:     input.BasePremium,
		CoverageAmount:  input.CoverageAmount,
		Deductible:      input.Deductible,
		TermsConditions: input.TermsConditions,
		Status:          utils.DereferencePtr(input.Status, ProductStatusActive),
	}
	err := config.WithTransaction(ctx, "CreateProduct", func(tx *gorm.DB) error {
		return tx.Create(&product).Error
	})
	if isDuplicateKey(err) {
		return nil, duplicateProductName(input.Name)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func GetProduct(ctx context.Context, id int) (*Product, error) {
	product, err := utils.FetchModel[Product](ctx, config.GetDB(), id)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, productNotFound(id)
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

func ListProducts(ctx context.Context, filter ProductFilter, page PageQuery) ([]*Product, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx)
	if filter.ProductType != "" {
		dbCtx = dbCtx.Where("product_type = ?", filter.ProductType)
	}
	if filter.Status != "" {
		dbCtx = dbCtx.Where("status = ?", filter.Status)
	}
	dbCtx = page.apply(dbCtx.Order("id"))

	products := make([]*Product, 0)
	if err := dbCtx.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// SearchProducts matches term case-insensitively inside name or description.
func SearchProducts(ctx context.Context, term string) ([]*Product, error) {
	pattern := utils.LikePattern(term)
	db := config.GetDB()
	products := make([]*Product, 0)
	if err := db.WithContext(ctx).
		Where("LOWER(name) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!'", pattern, pattern).
		Order("id").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// UpdateProduct applies a partial update. The name is not checked up front;
// a collision still fails on the unique index.
func UpdateProduct(ctx context.Context, id int, input *UpdateProductInput) (*Product, error) {
	updates := map[string]interface{}{
		"updated_at": time.Now().UTC(),
	}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.ProductType != nil {
		if !input.ProductType.IsValid() {
			return nil, utils.InvalidInput("invalid product type %q", *input.ProductType)
		}
		updates["product_type"] = *input.ProductType
	}
	if input.BasePremium != nil {
		if input.BasePremium.LessThanOrEqual(decimal.Zero) {
			return nil, utils.InvalidInput("base premium must be greater than 0")
		}
		updates["base_premium"] = *input.BasePremium
	}
	if input.CoverageAmount != nil {
		if input.CoverageAmount.LessThanOrEqual(decimal.Zero) {
			return nil, utils.InvalidInput("coverage amount must be greater than 0")
		}
		updates["coverage_amount"] = *input.CoverageAmount
	}
	if input.Deductible != nil {
		if input.Deductible.IsNegative() {
			return nil, utils.InvalidInput("deductible cannot be negative")
		}
		updates["deductible"] = *input.Deductible
	}
	if input.TermsConditions != nil {
		updates["terms_conditions"] = *input.TermsConditions
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, utils.InvalidInput("invalid product status %q", *input.Status)
		}
		updates["status"] = *input.Status
	}

	product, err := updateProductColumns(ctx, "UpdateProduct", id, updates)
	if isDuplicateKey(err) {
		return nil, duplicateProductName(utils.DereferencePtr(input.Name))
	}
	return product, err
}

func UpdateProductStatus(ctx context.Context, id int, status ProductStatus) (*Product, error) {
	if !status.IsValid() {
		return nil, utils.InvalidInput("invalid product status %q", status)
	}
	return updateProductColumns(ctx, "UpdateProductStatus", id, map[string]interface{}{
		"status":     status,
		"updated_at": time.Now().UTC(),
	})
}

func updateProductColumns(ctx context.Context, name string, id int, updates map[string]interface{}) (*Product, error) {
	var result Product
	err := config.WithTransaction(ctx, name, func(tx *gorm.DB) error {
		if _, err := utils.FetchModelForUpdate[Product](ctx, tx, id); err != nil {
			if errors.Is(err, utils.ErrNotFound) {
				return productNotFound(id)
			}
			return err
		}
		if err := tx.Model(&Product{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Take(&result).Error
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteProduct removes the row for good.
func DeleteProduct(ctx context.Context, id int) error {
	return config.WithTransaction(ctx, "DeleteProduct", func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&Product{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return productNotFound(id)
		}
		return nil
	})
}

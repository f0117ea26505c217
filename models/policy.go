package models

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"bitbucket.org/mmdatafocus/insurance_backend/config"
	"bitbucket.org/mmdatafocus/insurance_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	MinRenewalMonths = 1
	MaxRenewalMonths = 60
)

type Policy struct {
	ID             string          `gorm:"primaryKey;size:20" json:"id"`
	PolicyNumber   string          `gorm:"size:50;not null;uniqueIndex" json:"policy_number"`
	PolicyType     string          `gorm:"size:50;not null;index" json:"policy_type"`
	CustomerId     string          `gorm:"size:64;not null;index" json:"customer_id"`
	PremiumAmount  decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"premium_amount"`
	CoverageAmount decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"coverage_amount"`
	StartDate      Date            `gorm:"not null" json:"start_date"`
	EndDate        Date            `gorm:"not null;index" json:"end_date"`
	Status         PolicyStatus    `gorm:"size:20;not null;default:'active';index" json:"status"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewPolicy struct {
	PolicyNumber   string          `json:"policy_number" binding:"required,max=50"`
	PolicyType     string          `json:"policy_type" binding:"required,max=50"`
	CustomerId     string          `json:"customer_id" binding:"required,max=64"`
	PremiumAmount  decimal.Decimal `json:"premium_amount" binding:"gt=0"`
	CoverageAmount decimal.Decimal `json:"coverage_amount" binding:"gt=0"`
	StartDate      Date            `json:"start_date" binding:"required"`
	EndDate        Date            `json:"end_date" binding:"required"`
}

// UpdatePolicyInput holds the fields a caller may change; nil means untouched.
type UpdatePolicyInput struct {
	PolicyType     *string          `json:"policy_type" binding:"omitempty,min=1,max=50"`
	PremiumAmount  *decimal.Decimal `json:"premium_amount" binding:"omitempty,gt=0"`
	CoverageAmount *decimal.Decimal `json:"coverage_amount" binding:"omitempty,gt=0"`
	EndDate        *Date            `json:"end_date"`
	Status         *PolicyStatus    `json:"status"`
}

type PolicyFilter struct {
	CustomerId string       `form:"customer_id"`
	PolicyType string       `form:"policy_type"`
	Status     PolicyStatus `form:"status" binding:"omitempty,oneof=active cancelled expired"`
}

func (f PolicyFilter) apply(dbCtx *gorm.DB) *gorm.DB {
	if f.CustomerId != "" {
		dbCtx = dbCtx.Where("customer_id = ?", f.CustomerId)
	}
	if f.PolicyType != "" {
		dbCtx = dbCtx.Where("policy_type = ?", f.PolicyType)
	}
	if f.Status != "" {
		dbCtx = dbCtx.Where("status = ?", f.Status)
	}
	return dbCtx
}

func policyNotFound(id string) error {
	return utils.NotFound("policy with ID %s not found", id)
}

func (input *NewPolicy) validate() error {
	if input.PremiumAmount.LessThanOrEqual(decimal.Zero) {
		return utils.InvalidInput("premium amount must be greater than 0")
	}
	if input.CoverageAmount.LessThanOrEqual(decimal.Zero) {
		return utils.InvalidInput("coverage amount must be greater than 0")
	}
	if !input.EndDate.After(input.StartDate) {
		return utils.InvalidInput("policy end date must be after start date")
	}
	return nil
}

// CreatePolicy persists a new active policy.
// A clash on policy_number is a Conflict; a clash on the generated id is retried.
func CreatePolicy(ctx context.Context, input *NewPolicy) (*Policy, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		policy := Policy{
			ID:             generateShortId("POL"),
			PolicyNumber:   input.PolicyNumber,
			PolicyType:     input.PolicyType,
			CustomerId:     input.CustomerId,
			PremiumAmount:  input.PremiumAmount,
			CoverageAmount: input.CoverageAmount,
			StartDate:      input.StartDate,
			EndDate:        input.EndDate,
			Status:         PolicyStatusActive,
		}
		err := config.WithTransaction(ctx, "CreatePolicy", func(tx *gorm.DB) error {
			return tx.Create(&policy).Error
		})
		if err == nil {
			return &policy, nil
		}
		if !isDuplicateKey(err) {
			return nil, err
		}

		count, countErr := utils.ResourceCountWhere[Policy](ctx, config.GetDB(), "policy_number = ?", input.PolicyNumber)
		if countErr != nil {
			return nil, countErr
		}
		if count > 0 {
			return nil, utils.Conflict("policy number %s already exists", input.PolicyNumber)
		}
		if attempt >= maxIdAttempts {
			return nil, fmt.Errorf("create policy: could not allocate a unique id after %d attempts: %w", attempt, err)
		}
		config.GetLogger().WithField("attempt", attempt).Warn("policy id collision, retrying")
	}
}

func GetPolicy(ctx context.Context, id string) (*Policy, error) {
	policy, err := utils.FetchModel[Policy](ctx, config.GetDB(), id)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, policyNotFound(id)
	}
	if err != nil {
		return nil, err
	}
	return policy, nil
}

// IteratePolicies streams matching policies in store order.
// Each range over the sequence runs the query again.
func IteratePolicies(ctx context.Context, filter PolicyFilter, page PageQuery) iter.Seq2[*Policy, error] {
	return func(yield func(*Policy, error) bool) {
		db := config.GetDB()
		dbCtx := db.WithContext(ctx).Model(&Policy{})
		dbCtx = filter.apply(dbCtx)
		dbCtx = page.apply(dbCtx.Order("created_at, id"))

		rows, err := dbCtx.Rows()
		if err != nil {
			yield(nil, err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			var policy Policy
			if err := db.ScanRows(rows, &policy); err != nil {
				yield(nil, err)
				return
			}
			if !yield(&policy, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, err)
		}
	}
}

func ListPolicies(ctx context.Context, filter PolicyFilter, page PageQuery) ([]*Policy, error) {
	policies := make([]*Policy, 0)
	for policy, err := range IteratePolicies(ctx, filter, page) {
		if err != nil {
			return nil, err
		}
		policies = append(policies, policy)
	}
	return policies, nil
}

func UpdatePolicy(ctx context.Context, id string, input *UpdatePolicyInput) (*Policy, error) {
	var result Policy
	err := config.WithTransaction(ctx, "UpdatePolicy", func(tx *gorm.DB) error {
		policy, err := utils.FetchModelForUpdate[Policy](ctx, tx, id)
		if errors.Is(err, utils.ErrNotFound) {
			return policyNotFound(id)
		}
		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"updated_at": time.Now().UTC(),
		}
		if input.PolicyType != nil {
			updates["policy_type"] = *input.PolicyType
		}
		if input.PremiumAmount != nil {
			if input.PremiumAmount.LessThanOrEqual(decimal.Zero) {
				return utils.InvalidInput("premium amount must be greater than 0")
			}
			updates["premium_amount"] = *input.PremiumAmount
		}
		if input.CoverageAmount != nil {
			if input.CoverageAmount.LessThanOrEqual(decimal.Zero) {
				return utils.InvalidInput("coverage amount must be greater than 0")
			}
			updates["coverage_amount"] = *input.CoverageAmount
		}
		if input.EndDate != nil {
			// checked against the stored start date, not anything in the request
			if !input.EndDate.After(policy.StartDate) {
				return utils.InvalidInput("policy end date must be after start date")
			}
			updates["end_date"] = *input.EndDate
		}
		if input.Status != nil {
			if !input.Status.IsValid() {
				return utils.InvalidInput("invalid policy status %q", *input.Status)
			}
			if err := checkStatusChange(policy.Status, *input.Status); err != nil {
				return err
			}
			updates["status"] = *input.Status
		}

		if err := tx.Model(&Policy{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Take(&result).Error
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// cancelled is terminal; moving into it is the same write CancelPolicy does.
func checkStatusChange(from, to PolicyStatus) error {
	if from == PolicyStatusCancelled && to != PolicyStatusCancelled {
		return utils.InvalidInput("cancelled policies cannot change status")
	}
	return nil
}

// CancelPolicy is the soft delete. Cancelling twice is not an error.
func CancelPolicy(ctx context.Context, id string) (*Policy, error) {
	var result Policy
	err := config.WithTransaction(ctx, "CancelPolicy", func(tx *gorm.DB) error {
		policy, err := utils.FetchModelForUpdate[Policy](ctx, tx, id)
		if errors.Is(err, utils.ErrNotFound) {
			return policyNotFound(id)
		}
		if err != nil {
			return err
		}
		if policy.Status == PolicyStatusCancelled {
			result = *policy
			return nil
		}
		if err := tx.Model(&Policy{}).Where("id = ?", id).Updates(map[string]interface{}{
			"status":     PolicyStatusCancelled,
			"updated_at": time.Now().UTC(),
		}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Take(&result).Error
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// RenewPolicy extends an active policy's end date by whole calendar months.
func RenewPolicy(ctx context.Context, id string, months int) (*Policy, error) {
	if months < MinRenewalMonths || months > MaxRenewalMonths {
		return nil, utils.InvalidInput("renewal months must be between %d and %d", MinRenewalMonths, MaxRenewalMonths)
	}

	var result Policy
	err := config.WithTransaction(ctx, "RenewPolicy", func(tx *gorm.DB) error {
		policy, err := utils.FetchModelForUpdate[Policy](ctx, tx, id)
		if errors.Is(err, utils.ErrNotFound) {
			return policyNotFound(id)
		}
		if err != nil {
			return err
		}
		if policy.Status != PolicyStatusActive {
			return utils.InvalidInput("only active policies can be renewed")
		}

		newEndDate := AddCalendarMonths(policy.EndDate, months)
		if err := tx.Model(&Policy{}).Where("id = ?", id).Updates(map[string]interface{}{
			"end_date":   newEndDate,
			"updated_at": time.Now().UTC(),
		}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Take(&result).Error
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ExpirePolicies marks active policies that ended before asOf as expired.
func ExpirePolicies(ctx context.Context, asOf Date) (int64, error) {
	var affected int64
	err := config.WithTransaction(ctx, "ExpirePolicies", func(tx *gorm.DB) error {
		res := tx.Model(&Policy{}).
			Where("status = ? AND end_date < ?", PolicyStatusActive, asOf).
			Updates(map[string]interface{}{
				"status":     PolicyStatusExpired,
				"updated_at": time.Now().UTC(),
			})
		affected = res.RowsAffected
		return res.Error
	})
	return affected, err
}

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

type Commission struct {
	ID        int              `gorm:"primaryKey" json:"id"`
	AgentId   string           `gorm:"size:64;not null;index" json:"agent_id"`
	PolicyId  string           `gorm:"size:20;not null;index" json:"policy_id"`
	Policy    *Policy          `gorm:"foreignKey:PolicyId;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Amount    decimal.Decimal  `gorm:"type:decimal(20,4);not null" json:"amount"`
	Rate      *decimal.Decimal `gorm:"type:decimal(5,2)" json:"rate"`
	Status    CommissionStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	PaidAt    *time.Time       `json:"paid_at"`
	CreatedAt time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCommission struct {
	AgentId  string           `json:"agent_id" binding:"required,max=64"`
	PolicyId string           `json:"policy_id" binding:"required"`
	Amount   decimal.Decimal  `json:"amount" binding:"gt=0"`
	Rate     *decimal.Decimal `json:"rate" binding:"omitempty,gte=0,lte=100"`
}

type UpdateCommissionInput struct {
	AgentId *string           `json:"agent_id" binding:"omitempty,min=1,max=64"`
	Amount  *decimal.Decimal  `json:"amount" binding:"omitempty,gt=0"`
	Rate    *decimal.Decimal  `json:"rate" binding:"omitempty,gte=0,lte=100"`
	Status  *CommissionStatus `json:"status"`
}

type CommissionFilter struct {
	AgentId  string           `form:"agent_id"`
	PolicyId string           `form:"policy_id"`
	Status   CommissionStatus `form:"status" binding:"omitempty,oneof=pending paid cancelled"`
}

var hundred = decimal.NewFromInt(100)

func commissionNotFound(id int) error {
	return utils.NotFound("commission with ID %d not found", id)
}

func validateRate(rate *decimal.Decimal) error {
	if rate != nil && (rate.IsNegative() || rate.GreaterThan(hundred)) {
		return utils.InvalidInput("rate must be between 0 and 100")
	}
	return nil
}

func CreateCommission(ctx context.Context, input *NewCommission) (*Commission, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, utils.InvalidInput("amount must be greater than 0")
	}
	if err := validateRate(input.Rate); err != nil {
		return nil, err
	}

	commission := Commission{
		AgentId:  input.AgentId,
		PolicyId: input.PolicyId,
		Amount:   input.Amount,
		Rate:     input.Rate,
		Status:   CommissionStatusPending,
	}
	err := config.WithTransaction(ctx, "CreateCommission", func(tx *gorm.DB) error {
		if err := utils.ValidateResourceId[Policy](ctx, tx, input.PolicyId); err != nil {
			if errors.Is(err, utils.ErrNotFound) {
				return policyNotFound(input.PolicyId)
			}
			return err
		}
		return tx.Create(&commission).Error
	})
	if err != nil {
		return nil, err
	}
	return &commission, nil
}

func GetCommission(ctx context.Context, id int) (*Commission, error) {
	commission, err := utils.FetchModel[Commission](ctx, config.GetDB(), id)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, commissionNotFound(id)
	}
	if err != nil {
		return nil, err
	}
	return commission, nil
}

func ListCommissions(ctx context.Context, filter CommissionFilter, page PageQuery) ([]*Commission, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx)
	if filter.AgentId != "" {
		dbCtx = dbCtx.Where("agent_id = ?", filter.AgentId)
	}
	if filter.PolicyId != "" {
		dbCtx = dbCtx.Where("policy_id = ?", filter.PolicyId)
	}
	if filter.Status != "" {
		dbCtx = dbCtx.Where("status = ?", filter.Status)
	}
	dbCtx = page.apply(dbCtx.Order("id"))

	commissions := make([]*Commission, 0)
	if err := dbCtx.Find(&commissions).Error; err != nil {
		return nil, err
	}
	return commissions, nil
}

// UpdateCommission applies a partial update. Moving to paid stamps paid_at;
// moving away from paid clears it.
func UpdateCommission(ctx context.Context, id int, input *UpdateCommissionInput) (*Commission, error) {
	if input.Amount != nil && input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, utils.InvalidInput("amount must be greater than 0")
	}
	if err := validateRate(input.Rate); err != nil {
		return nil, err
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, utils.InvalidInput("invalid commission status %q", *input.Status)
	}

	var result Commission
	err := config.WithTransaction(ctx, "UpdateCommission", func(tx *gorm.DB) error {
		commission, err := utils.FetchModelForUpdate[Commission](ctx, tx, id)
		if errors.Is(err, utils.ErrNotFound) {
			return commissionNotFound(id)
		}
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		updates := map[string]interface{}{
			"updated_at": now,
		}
		if input.AgentId != nil {
			updates["agent_id"] = *input.AgentId
		}
		if input.Amount != nil {
			updates["amount"] = *input.Amount
		}
		if input.Rate != nil {
			updates["rate"] = *input.Rate
		}
		if input.Status != nil && *input.Status != commission.Status {
			updates["status"] = *input.Status
			if *input.Status == CommissionStatusPaid {
				updates["paid_at"] = now
			} else if commission.Status == CommissionStatusPaid {
				updates["paid_at"] = gorm.Expr("NULL")
			}
		}

		if err := tx.Model(&Commission{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Take(&result).Error
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func DeleteCommission(ctx context.Context, id int) error {
	return config.WithTransaction(ctx, "DeleteCommission", func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&Commission{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return commissionNotFound(id)
		}
		return nil
	})
}

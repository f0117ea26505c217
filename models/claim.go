package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/insurance_backend/config"
	"bitbucket.org/mmdatafocus/insurance_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Claim struct {
	ID           string          `gorm:"primaryKey;size:20" json:"claim_id"`
	PolicyId     string          `gorm:"size:20;not null;index" json:"policy_id"`
	Policy       *Policy         `gorm:"foreignKey:PolicyId;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	ClaimAmount  decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"claim_amount"`
	ClaimType    string          `gorm:"size:50;not null" json:"claim_type"`
	Status       ClaimStatus     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	IncidentDate Date            `gorm:"not null" json:"incident_date"`
	Description  string          `gorm:"type:text" json:"description"`
	DecisionNote string          `gorm:"type:text" json:"decision_note,omitempty"`
	DecidedAt    *time.Time      `json:"decided_at,omitempty"`
	SubmittedAt  time.Time       `gorm:"autoCreateTime" json:"submitted_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewClaim struct {
	// PolicyId in the body is accepted for compatibility; the path wins.
	PolicyId     string          `json:"policy_id"`
	ClaimAmount  decimal.Decimal `json:"claim_amount" binding:"gt=0"`
	IncidentDate Date            `json:"incident_date" binding:"required"`
	Description  string          `json:"description" binding:"required"`
	ClaimType    string          `json:"claim_type" binding:"required,max=50"`
}

type ClaimDecision struct {
	Status ClaimStatus `json:"status" binding:"required,oneof=approved rejected"`
	Note   string      `json:"note"`
}

type ClaimFilter struct {
	PolicyId string      `form:"policy_id"`
	Status   ClaimStatus `form:"status" binding:"omitempty,oneof=pending approved rejected"`
}

type ClaimsSummary struct {
	TotalClaims        int64           `json:"total_claims"`
	TotalClaimedAmount decimal.Decimal `json:"total_claimed_amount"`
	PendingClaims      int64           `json:"pending_claims"`
	ApprovedClaims     int64           `json:"approved_claims"`
}

type PolicySummary struct {
	Policy          *Policy         `json:"policy"`
	ClaimsSummary   ClaimsSummary   `json:"claims_summary"`
	UtilizationRate decimal.Decimal `json:"utilization_rate"`
}

func claimNotFound(id string) error {
	return utils.NotFound("claim with ID %s not found", id)
}

// CreateClaim files a pending claim against an active policy.
// The policy row stays locked until commit so a concurrent cancel waits.
func CreateClaim(ctx context.Context, policyId string, input *NewClaim) (*Claim, error) {
	if input.ClaimAmount.LessThanOrEqual(decimal.Zero) {
		return nil, utils.InvalidInput("claim amount must be greater than 0")
	}

	for attempt := 1; ; attempt++ {
		claim := Claim{
			ID:           generateShortId("CLM"),
			PolicyId:     policyId,
			ClaimAmount:  input.ClaimAmount,
			ClaimType:    input.ClaimType,
			Status:       ClaimStatusPending,
			IncidentDate: input.IncidentDate,
			Description:  input.Description,
		}
		err := config.WithTransaction(ctx, "CreateClaim", func(tx *gorm.DB) error {
			policy, err := utils.FetchModelForUpdate[Policy](ctx, tx, policyId)
			if errors.Is(err, utils.ErrNotFound) {
				return policyNotFound(policyId)
			}
			if err != nil {
				return err
			}
			if policy.Status != PolicyStatusActive {
				return utils.InvalidInput("claims can only be created for active policies")
			}
			if input.ClaimAmount.GreaterThan(policy.CoverageAmount) {
				return utils.InvalidInput("claim amount exceeds policy coverage limit of %s", policy.CoverageAmount.String())
			}
			return tx.Create(&claim).Error
		})
		if err == nil {
			return &claim, nil
		}
		if !isDuplicateKey(err) {
			return nil, err
		}
		if attempt >= maxIdAttempts {
			return nil, fmt.Errorf("create claim: could not allocate a unique id after %d attempts: %w", attempt, err)
		}
		config.GetLogger().WithField("attempt", attempt).Warn("claim id collision, retrying")
	}
}

func GetClaim(ctx context.Context, id string) (*Claim, error) {
	claim, err := utils.FetchModel[Claim](ctx, config.GetDB(), id)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, claimNotFound(id)
	}
	if err != nil {
		return nil, err
	}
	return claim, nil
}

func ListClaimsByPolicy(ctx context.Context, policyId string) ([]*Claim, error) {
	db := config.GetDB()
	if err := utils.ValidateResourceId[Policy](ctx, db, policyId); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, policyNotFound(policyId)
		}
		return nil, err
	}

	claims := make([]*Claim, 0)
	if err := db.WithContext(ctx).
		Where("policy_id = ?", policyId).
		Order("submitted_at, id").
		Find(&claims).Error; err != nil {
		return nil, err
	}
	return claims, nil
}

func ListClaims(ctx context.Context, filter ClaimFilter, page PageQuery) ([]*Claim, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx)
	if filter.PolicyId != "" {
		dbCtx = dbCtx.Where("policy_id = ?", filter.PolicyId)
	}
	if filter.Status != "" {
		dbCtx = dbCtx.Where("status = ?", filter.Status)
	}
	dbCtx = page.apply(dbCtx.Order("submitted_at, id"))

	claims := make([]*Claim, 0)
	if err := dbCtx.Find(&claims).Error; err != nil {
		return nil, err
	}
	return claims, nil
}

// GetPolicySummary aggregates a policy's claims and its coverage utilization (percent).
func GetPolicySummary(ctx context.Context, policyId string) (*PolicySummary, error) {
	policy, err := GetPolicy(ctx, policyId)
	if err != nil {
		return nil, err
	}

	var summary ClaimsSummary
	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&Claim{}).
		Select(`COUNT(*) AS total_claims,
			COALESCE(SUM(claim_amount), 0) AS total_claimed_amount,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS pending_claims,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS approved_claims`,
			ClaimStatusPending, ClaimStatusApproved).
		Where("policy_id = ?", policyId).
		Scan(&summary).Error; err != nil {
		return nil, err
	}

	return &PolicySummary{
		Policy:          policy,
		ClaimsSummary:   summary,
		UtilizationRate: UtilizationRate(summary.TotalClaimedAmount, policy.CoverageAmount),
	}, nil
}

// UtilizationRate is claimed / coverage * 100, rounded to 2 places; zero coverage yields zero.
func UtilizationRate(claimed, coverage decimal.Decimal) decimal.Decimal {
	if coverage.IsZero() {
		return decimal.Zero
	}
	return claimed.Div(coverage).Mul(decimal.NewFromInt(100)).Round(2)
}

// AdjudicateClaim records the outcome for a pending claim. Decided claims are final.
func AdjudicateClaim(ctx context.Context, id string, decision *ClaimDecision) (*Claim, error) {
	if decision.Status != ClaimStatusApproved && decision.Status != ClaimStatusRejected {
		return nil, utils.InvalidInput("decision must be approved or rejected")
	}

	var result Claim
	err := config.WithTransaction(ctx, "AdjudicateClaim", func(tx *gorm.DB) error {
		claim, err := utils.FetchModelForUpdate[Claim](ctx, tx, id)
		if errors.Is(err, utils.ErrNotFound) {
			return claimNotFound(id)
		}
		if err != nil {
			return err
		}
		if claim.Status != ClaimStatusPending {
			return utils.InvalidInput("claim %s has already been %s", id, claim.Status)
		}

		now := time.Now().UTC()
		if err := tx.Model(&Claim{}).Where("id = ?", id).Updates(map[string]interface{}{
			"status":        decision.Status,
			"decision_note": decision.Note,
			"decided_at":    now,
			"updated_at":    now,
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

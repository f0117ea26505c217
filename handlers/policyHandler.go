package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"bitbucket.org/mmdatafocus/insurance_backend/config"
	"bitbucket.org/mmdatafocus/insurance_backend/models"
	"github.com/bsm/redislock"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	renewLockTTL    = 10 * time.Second
)

type policyListQuery struct {
	models.PolicyFilter
	models.PageQuery
}

type renewQuery struct {
	RenewalMonths int `form:"renewal_months,default=12" binding:"min=1,max=60"`
}

func createPolicyHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewPolicy
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		policy, err := models.CreatePolicy(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, policy)
	}
}

func listPoliciesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var q policyListQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			respondBindError(c, err)
			return
		}
		policies, err := models.ListPolicies(c.Request.Context(), q.PolicyFilter, q.PageQuery)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, policies)
	}
}

func exportPoliciesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.PolicyFilter
		if err := c.ShouldBindQuery(&filter); err != nil {
			respondBindError(c, err)
			return
		}
		f, err := models.ExportPolicies(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		defer f.Close()

		c.Header("Content-Type", xlsxContentType)
		c.Header("Content-Disposition", "attachment; filename=policies.xlsx")
		c.Status(http.StatusOK)
		if err := f.Write(c.Writer); err != nil {
			_ = c.Error(err)
		}
	}
}

func getPolicyHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		policy, err := models.GetPolicy(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, policy)
	}
}

func updatePolicyHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.UpdatePolicyInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		policy, err := models.UpdatePolicy(c.Request.Context(), c.Param("id"), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, policy)
	}
}

func cancelPolicyHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := models.CancelPolicy(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func renewPolicyHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var q renewQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			respondBindError(c, err)
			return
		}
		ctx := c.Request.Context()
		id := c.Param("id")

		var policy *models.Policy
		err := withPolicyLock(ctx, id, func() error {
			var err error
			policy, err = models.RenewPolicy(ctx, id, q.RenewalMonths)
			return err
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, policy)
	}
}

// withPolicyLock serializes fn per policy across instances when Redis is available.
// The row lock inside the transaction is what guarantees correctness; a missing
// or busy Redis lock only logs and carries on.
func withPolicyLock(ctx context.Context, policyId string, fn func() error) error {
	locker := config.GetRedisLock()
	if locker == nil {
		return fn()
	}

	lock, err := locker.Obtain(ctx, "lock:policy:"+policyId, renewLockTTL, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 20),
	})
	if err != nil {
		fields := logrus.Fields{"module": "handlers", "funcName": "withPolicyLock", "policyId": policyId}
		if errors.Is(err, redislock.ErrNotObtained) {
			config.GetLogger().WithFields(fields).Warn("policy lock busy; relying on row lock")
		} else {
			config.GetLogger().WithFields(fields).Warn("policy lock unavailable: " + err.Error())
		}
		return fn()
	}
	defer func() {
		_ = lock.Release(context.WithoutCancel(ctx))
	}()
	return fn()
}

func createClaimHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewClaim
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		claim, err := models.CreateClaim(c.Request.Context(), c.Param("id"), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, claim)
	}
}

func listPolicyClaimsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := models.ListClaimsByPolicy(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, claims)
	}
}

func policySummaryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := models.GetPolicySummary(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

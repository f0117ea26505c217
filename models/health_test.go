package models_test

import (
	"context"
	"testing"

	"bitbucket.org/mmdatafocus/insurance_backend/models"
)

func TestCheckHealth_Counts(t *testing.T) {
	useTestDB(t)
	ctx := context.Background()
	policy := mustCreatePolicy(t, ctx, "H-1")
	if _, err := models.CreateClaim(ctx, policy.ID, newClaimInput(t, "10")); err != nil {
		t.Fatalf("CreateClaim: %v", err)
	}
	if _, err := models.CreateClient(ctx, newClientInput(t, "Hal", "hal@example.com")); err != nil {
		t.Fatalf("CreateClient: %v", err)
	}

	report, err := models.CheckHealth(ctx)
	if err != nil {
		t.Fatalf("CheckHealth: %v", err)
	}
	if report.Status != "healthy" || report.Policies != 1 || report.Claims != 1 || report.Clients != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
}

package models_test

import (
	"context"
	"errors"
	"testing"

	"bitbucket.org/mmdatafocus/insurance_backend/models"
	"bitbucket.org/mmdatafocus/insurance_backend/utils"
)

func newClientInput(t *testing.T, first, email string) *models.NewClient {
	t.Helper()
	return &models.NewClient{
		FirstName:   first,
		LastName:    "Doe",
		Email:       email,
		Phone:       "+15551234567",
		DateOfBirth: mustDate(t, "1985-05-15"),
		Address:     "123 Main Street",
		City:        "Springfield",
		State:       "IL",
		ZipCode:     "62701",
	}
}

func TestCreateClient_EmailUnique(t *testing.T) {
	useTestDB(t)
	ctx := context.Background()

	client, err := models.CreateClient(ctx, newClientInput(t, "John", "john@example.com"))
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	if client.ID == "" || client.IsActive == nil || !*client.IsActive {
		t.Fatalf("expected an active client with an id, got %+v", client)
	}

	_, err = models.CreateClient(ctx, newClientInput(t, "Jane", "john@example.com"))
	if !errors.Is(err, utils.ErrInvalidInput) {
		t.Fatalf("expected InvalidInput, got %v", err)
	}
	if err.Error() != "email already registered" {
		t.Fatalf("unexpected message %q", err.Error())
	}

	// soft-deleted clients still hold their email
	if err := models.DeleteClient(ctx, client.ID); err != nil {
		t.Fatalf("DeleteClient: %v", err)
	}
	if _, err := models.CreateClient(ctx, newClientInput(t, "Jane", "john@example.com")); !errors.Is(err, utils.ErrInvalidInput) {
		t.Fatalf("expected InvalidInput after soft delete, got %v", err)
	}
}

func TestClientEmail_UniqueIgnoresCase(t *testing.T) {
	useTestDB(t)
	ctx := context.Background()

	client, err := models.CreateClient(ctx, newClientInput(t, "Ann", " Ann.Lee@Example.com "))
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	if client.Email != "ann.lee@example.com" {
		t.Fatalf("email stored as %q, want lower-cased", client.Email)
	}

	if _, err := models.CreateClient(ctx, newClientInput(t, "Imposter", "ANN.LEE@example.COM")); !errors.Is(err, utils.ErrInvalidInput) {
		t.Fatalf("expected InvalidInput for a case variant, got %v", err)
	}

	other, err := models.CreateClient(ctx, newClientInput(t, "Bob", "bob@example.com"))
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	variant := "Ann.Lee@EXAMPLE.com"
	if _, err := models.UpdateClient(ctx, other.ID, &models.UpdateClientInput{Email: &variant}); !errors.Is(err, utils.ErrInvalidInput) {
		t.Fatalf("expected InvalidInput when updating to a case variant, got %v", err)
	}

	mixed := "Bob.Smith@Example.com"
	updated, err := models.UpdateClient(ctx, other.ID, &models.UpdateClientInput{Email: &mixed})
	if err != nil {
		t.Fatalf("UpdateClient: %v", err)
	}
	if updated.Email != "bob.smith@example.com" {
		t.Fatalf("email updated to %q, want lower-cased", updated.Email)
	}
}

func TestCreateClient_PatternChecks(t *testing.T) {
	useTestDB(t)
	ctx := context.Background()

	badPhone := newClientInput(t, "A", "a@example.com")
	badPhone.Phone = "12345"
	if _, err := models.CreateClient(ctx, badPhone); !errors.Is(err, utils.ErrInvalidInput) {
		t.Fatalf("bad phone: expected InvalidInput, got %v", err)
	}

	badZip := newClientInput(t, "B", "b@example.com")
	badZip.ZipCode = "6270"
	if _, err := models.CreateClient(ctx, badZip); !errors.Is(err, utils.ErrInvalidInput) {
		t.Fatalf("bad zip: expected InvalidInput, got %v", err)
	}

	okZip := newClientInput(t, "C", "c@example.com")
	okZip.ZipCode = "62701-1234"
	if _, err := models.CreateClient(ctx, okZip); err != nil {
		t.Fatalf("zip+4 should be accepted: %v", err)
	}
}

func TestUpdateClient(t *testing.T) {
	useTestDB(t)
	ctx := context.Background()

	a, err := models.CreateClient(ctx, newClientInput(t, "Ann", "ann@example.com"))
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	if _, err := models.CreateClient(ctx, newClientInput(t, "Bob", "bob@example.com")); err != nil {
		t.Fatalf("CreateClient: %v", err)
	}

	city := "Chicago"
	sameEmail := "ann@example.com"
	updated, err := models.UpdateClient(ctx, a.ID, &models.UpdateClientInput{City: &city, Email: &sameEmail})
	if err != nil {
		t.Fatalf("UpdateClient with unchanged email: %v", err)
	}
	if updated.City != "Chicago" || updated.FirstName != "Ann" {
		t.Fatalf("unexpected client %+v", updated)
	}

	taken := "bob@example.com"
	if _, err := models.UpdateClient(ctx, a.ID, &models.UpdateClientInput{Email: &taken}); !errors.Is(err, utils.ErrInvalidInput) {
		t.Fatalf("expected InvalidInput for a taken email, got %v", err)
	}

	if _, err := models.UpdateClient(ctx, "missing", &models.UpdateClientInput{City: &city}); !errors.Is(err, utils.ErrNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestToggleAndDeleteClient(t *testing.T) {
	useTestDB(t)
	ctx := context.Background()
	c, err := models.CreateClient(ctx, newClientInput(t, "Tog", "tog@example.com"))
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}

	toggled, err := models.ToggleClientStatus(ctx, c.ID)
	if err != nil {
		t.Fatalf("ToggleClientStatus: %v", err)
	}
	if *toggled.IsActive {
		t.Fatalf("expected inactive after first toggle")
	}
	toggled, err = models.ToggleClientStatus(ctx, c.ID)
	if err != nil {
		t.Fatalf("ToggleClientStatus: %v", err)
	}
	if !*toggled.IsActive {
		t.Fatalf("expected active after second toggle")
	}

	if err := models.DeleteClient(ctx, c.ID); err != nil {
		t.Fatalf("DeleteClient: %v", err)
	}
	got, err := models.GetClient(ctx, c.ID)
	if err != nil {
		t.Fatalf("soft-deleted client must still be readable: %v", err)
	}
	if *got.IsActive {
		t.Fatalf("expected inactive after delete")
	}

	if err := models.DeleteClient(ctx, "missing"); !errors.Is(err, utils.ErrNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	if _, err := models.ToggleClientStatus(ctx, "missing"); !errors.Is(err, utils.ErrNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestListClients_SearchAndActiveFilter(t *testing.T) {
	useTestDB(t)
	ctx := context.Background()

	john, err := models.CreateClient(ctx, newClientInput(t, "John", "jsmith@example.com"))
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	if _, err := models.CreateClient(ctx, newClientInput(t, "Mary", "mary@sample.org")); err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	if err := models.DeleteClient(ctx, john.ID); err != nil {
		t.Fatalf("DeleteClient: %v", err)
	}

	found, err := models.ListClients(ctx, models.ClientFilter{Search: "JOHN"}, models.DefaultPage())
	if err != nil {
		t.Fatalf("ListClients: %v", err)
	}
	if len(found) != 1 || found[0].ID != john.ID {
		t.Fatalf("expected search by first name to find John")
	}

	found, err = models.ListClients(ctx, models.ClientFilter{Search: "sample.org"}, models.DefaultPage())
	if err != nil {
		t.Fatalf("ListClients: %v", err)
	}
	if len(found) != 1 || found[0].FirstName != "Mary" {
		t.Fatalf("expected search by email to find Mary")
	}

	active, err := models.ListClients(ctx, models.ClientFilter{IsActive: utils.NewTrue()}, models.DefaultPage())
	if err != nil {
		t.Fatalf("ListClients: %v", err)
	}
	if len(active) != 1 || active[0].FirstName != "Mary" {
		t.Fatalf("expected only Mary to be active")
	}

	all, err := models.ListClients(ctx, models.ClientFilter{}, models.DefaultPage())
	if err != nil {
		t.Fatalf("ListClients: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 clients, got %d", len(all))
	}
}

func TestListClientPolicies(t *testing.T) {
	useTestDB(t)
	ctx := context.Background()
	c, err := models.CreateClient(ctx, newClientInput(t, "Holder", "holder@example.com"))
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}

	input := newPolicyInput(t, "CP-1")
	input.CustomerId = c.ID
	if _, err := models.CreatePolicy(ctx, input); err != nil {
		t.Fatalf("CreatePolicy: %v", err)
	}
	mustCreatePolicy(t, ctx, "CP-OTHER")

	policies, err := models.ListClientPolicies(ctx, c.ID)
	if err != nil {
		t.Fatalf("ListClientPolicies: %v", err)
	}
	if len(policies) != 1 || policies[0].PolicyNumber != "CP-1" {
		t.Fatalf("expected only the client's policy")
	}

	withPolicies, err := models.GetClientWithPolicies(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetClientWithPolicies: %v", err)
	}
	if withPolicies.Email != "holder@example.com" || len(withPolicies.Policies) != 1 {
		t.Fatalf("unexpected result %+v", withPolicies)
	}

	if _, err := models.ListClientPolicies(ctx, "missing"); !errors.Is(err, utils.ErrNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/insurance_backend/config"
	"bitbucket.org/mmdatafocus/insurance_backend/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Client struct {
	ID          string    `gorm:"primaryKey;size:36" json:"client_id"`
	FirstName   string    `gorm:"size:50;not null" json:"first_name"`
	LastName    string    `gorm:"size:50;not null" json:"last_name"`
	Email       string    `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Phone       string    `gorm:"size:20;not null" json:"phone"`
	DateOfBirth Date      `gorm:"not null" json:"date_of_birth"`
	Address     string    `gorm:"size:200;not null" json:"address"`
	City        string    `gorm:"size:50;not null" json:"city"`
	State       string    `gorm:"size:50;not null" json:"state"`
	ZipCode     string    `gorm:"size:10;not null" json:"zip_code"`
	IsActive    *bool     `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewClient struct {
	FirstName   string `json:"first_name" binding:"required,min=1,max=50"`
	LastName    string `json:"last_name" binding:"required,min=1,max=50"`
	Email       string `json:"email" binding:"required,email,max=100"`
	Phone       string `json:"phone" binding:"required,phone"`
	DateOfBirth Date   `json:"date_of_birth" binding:"required"`
	Address     string `json:"address" binding:"required,min=10,max=200"`
	City        string `json:"city" binding:"required,min=2,max=50"`
	State       string `json:"state" binding:"required,min=2,max=50"`
	ZipCode     string `json:"zip_code" binding:"required,zipcode"`
}

type UpdateClientInput struct {
	FirstName   *string `json:"first_name" binding:"omitempty,min=1,max=50"`
	LastName    *string `json:"last_name" binding:"omitempty,min=1,max=50"`
	Email       *string `json:"email" binding:"omitempty,email,max=100"`
	Phone       *string `json:"phone" binding:"omitempty,phone"`
	DateOfBirth *Date   `json:"date_of_birth"`
	Address     *string `json:"address" binding:"omitempty,min=10,max=200"`
	City        *string `json:"city" binding:"omitempty,min=2,max=50"`
	State       *string `json:"state" binding:"omitempty,min=2,max=50"`
	ZipCode     *string `json:"zip_code" binding:"omitempty,zipcode"`
}

type ClientFilter struct {
	IsActive *bool  `form:"is_active"`
	Search   string `form:"search"`
}

type ClientWithPolicies struct {
	*Client
	Policies []*Policy `json:"policies"`
}

func clientNotFound(id string) error {
	return utils.NotFound("client with ID %s not found", id)
}

func emailAlreadyRegistered() error {
	return utils.InvalidInput("email already registered")
}

// emails are stored lower-cased so the unique index is case-insensitive on every dialect
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// patterns are enforced again here for callers that skip request binding
func (input *NewClient) validate() error {
	if !utils.IsValidEmail(normalizeEmail(input.Email)) {
		return utils.InvalidInput("invalid email address")
	}
	if !utils.IsValidPhone(input.Phone) {
		return utils.InvalidInput("invalid phone number")
	}
	if !utils.IsValidZipCode(input.ZipCode) {
		return utils.InvalidInput("invalid zip code")
	}
	return nil
}

func CreateClient(ctx context.Context, input *NewClient) (*Client, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	client := Client{
		ID:          uuid.NewString(),
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Email:       normalizeEmail(input.Email),
		Phone:       input.Phone,
		DateOfBirth: input.DateOfBirth,
		Address:     input.Address,
		City:        input.City,
		State:       input.State,
		ZipCode:     input.ZipCode,
		IsActive:    utils.NewTrue(),
	}
	err := config.WithTransaction(ctx, "CreateClient", func(tx *gorm.DB) error {
		return tx.Create(&client).Error
	})
	if isDuplicateKey(err) {
		return nil, emailAlreadyRegistered()
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func GetClient(ctx context.Context, id string) (*Client, error) {
	client, err := utils.FetchModel[Client](ctx, config.GetDB(), id)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, clientNotFound(id)
	}
	if err != nil {
		return nil, err
	}
	return client, nil
}

func ListClients(ctx context.Context, filter ClientFilter, page PageQuery) ([]*Client, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx)
	if filter.IsActive != nil {
		dbCtx = dbCtx.Where("is_active = ?", *filter.IsActive)
	}
	if strings.TrimSpace(filter.Search) != "" {
		pattern := utils.LikePattern(filter.Search)
		dbCtx = dbCtx.Where(
			"LOWER(first_name) LIKE ? ESCAPE '!' OR LOWER(last_name) LIKE ? ESCAPE '!' OR LOWER(email) LIKE ? ESCAPE '!'",
			pattern, pattern, pattern,
		)
	}
	dbCtx = page.apply(dbCtx.Order("created_at, id"))

	clients := make([]*Client, 0)
	if err := dbCtx.Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// UpdateClient applies a partial update; a changed email must still be unique.
func UpdateClient(ctx context.Context, id string, input *UpdateClientInput) (*Client, error) {
	updates := map[string]interface{}{
		"updated_at": time.Now().UTC(),
	}
	if input.FirstName != nil {
		updates["first_name"] = *input.FirstName
	}
	if input.LastName != nil {
		updates["last_name"] = *input.LastName
	}
	if input.Email != nil {
		if !utils.IsValidEmail(normalizeEmail(*input.Email)) {
			return nil, utils.InvalidInput("invalid email address")
		}
		updates["email"] = normalizeEmail(*input.Email)
	}
	if input.Phone != nil {
		if !utils.IsValidPhone(*input.Phone) {
			return nil, utils.InvalidInput("invalid phone number")
		}
		updates["phone"] = *input.Phone
	}
	if input.DateOfBirth != nil {
		updates["date_of_birth"] = *input.DateOfBirth
	}
	if input.Address != nil {
		updates["address"] = *input.Address
	}
	if input.City != nil {
		updates["city"] = *input.City
	}
	if input.State != nil {
		updates["state"] = *input.State
	}
	if input.ZipCode != nil {
		if !utils.IsValidZipCode(*input.ZipCode) {
			return nil, utils.InvalidInput("invalid zip code")
		}
		updates["zip_code"] = *input.ZipCode
	}

	var result Client
	err := config.WithTransaction(ctx, "UpdateClient", func(tx *gorm.DB) error {
		if _, err := utils.FetchModelForUpdate[Client](ctx, tx, id); err != nil {
			if errors.Is(err, utils.ErrNotFound) {
				return clientNotFound(id)
			}
			return err
		}
		if err := tx.Model(&Client{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Take(&result).Error
	})
	if isDuplicateKey(err) {
		return nil, emailAlreadyRegistered()
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteClient is a soft delete; the row stays with is_active=false.
func DeleteClient(ctx context.Context, id string) error {
	_, err := setClientActive(ctx, "DeleteClient", id, func(bool) bool { return false })
	return err
}

func ToggleClientStatus(ctx context.Context, id string) (*Client, error) {
	return setClientActive(ctx, "ToggleClientStatus", id, func(current bool) bool { return !current })
}

func setClientActive(ctx context.Context, name string, id string, next func(current bool) bool) (*Client, error) {
	var result Client
	err := config.WithTransaction(ctx, name, func(tx *gorm.DB) error {
		client, err := utils.FetchModelForUpdate[Client](ctx, tx, id)
		if errors.Is(err, utils.ErrNotFound) {
			return clientNotFound(id)
		}
		if err != nil {
			return err
		}
		if err := tx.Model(&Client{}).Where("id = ?", id).Updates(map[string]interface{}{
			"is_active":  next(utils.DereferencePtr(client.IsActive, true)),
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

// ListClientPolicies returns the policies held by a client (customer_id = client id).
func ListClientPolicies(ctx context.Context, clientId string) ([]*Policy, error) {
	db := config.GetDB()
	if err := utils.ValidateResourceId[Client](ctx, db, clientId); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, clientNotFound(clientId)
		}
		return nil, err
	}

	policies := make([]*Policy, 0)
	if err := db.WithContext(ctx).
		Where("customer_id = ?", clientId).
		Order("created_at, id").
		Find(&policies).Error; err != nil {
		return nil, err
	}
	return policies, nil
}

func GetClientWithPolicies(ctx context.Context, clientId string) (*ClientWithPolicies, error) {
	client, err := GetClient(ctx, clientId)
	if err != nil {
		return nil, err
	}
	policies, err := ListClientPolicies(ctx, clientId)
	if err != nil {
		return nil, err
	}
	return &ClientWithPolicies{Client: client, Policies: policies}, nil
}

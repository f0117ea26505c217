package models

import (
	"encoding/json"
	"errors"
)

type PolicyStatus string

const (
	PolicyStatusActive    PolicyStatus = "active"
	PolicyStatusCancelled PolicyStatus = "cancelled"
	PolicyStatusExpired   PolicyStatus = "expired"
)

func (s PolicyStatus) IsValid() bool {
	switch s {
	case PolicyStatusActive, PolicyStatusCancelled, PolicyStatusExpired:
		return true
	}
	return false
}

// convert input to enum type
func (s *PolicyStatus) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, s, "invalid policy status")
}

type ClaimStatus string

const (
	ClaimStatusPending  ClaimStatus = "pending"
	ClaimStatusApproved ClaimStatus = "approved"
	ClaimStatusRejected ClaimStatus = "rejected"
)

func (s ClaimStatus) IsValid() bool {
	switch s {
	case ClaimStatusPending, ClaimStatusApproved, ClaimStatusRejected:
		return true
	}
	return false
}

func (s *ClaimStatus) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, s, "invalid claim status")
}

type ProductType string

const (
	ProductTypeLife     ProductType = "life"
	ProductTypeHealth   ProductType = "health"
	ProductTypeAuto     ProductType = "auto"
	ProductTypeHome     ProductType = "home"
	ProductTypeBusiness ProductType = "business"
)

func (t ProductType) IsValid() bool {
	switch t {
	case ProductTypeLife, ProductTypeHealth, ProductTypeAuto, ProductTypeHome, ProductTypeBusiness:
		return true
	}
	return false
}

func (t *ProductType) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, t, "invalid product type")
}

type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusInactive     ProductStatus = "inactive"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusActive, ProductStatusInactive, ProductStatusDiscontinued:
		return true
	}
	return false
}

func (s *ProductStatus) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, s, "invalid product status")
}

type CommissionStatus string

const (
	CommissionStatusPending   CommissionStatus = "pending"
	CommissionStatusPaid      CommissionStatus = "paid"
	CommissionStatusCancelled CommissionStatus = "cancelled"
)

func (s CommissionStatus) IsValid() bool {
	switch s {
	case CommissionStatusPending, CommissionStatusPaid, CommissionStatusCancelled:
		return true
	}
	return false
}

func (s *CommissionStatus) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, s, "invalid commission status")
}

type enum interface {
	~string
	IsValid() bool
}

func unmarshalEnum[E enum](b []byte, target *E, invalidMsg string) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return errors.New(invalidMsg)
	}
	value := E(str)
	if !value.IsValid() {
		return errors.New(invalidMsg)
	}
	*target = value
	return nil
}

package models

import (
	"context"
	"fmt"

	"bitbucket.org/mmdatafocus/insurance_backend/config"
)

type HealthReport struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Policies int64  `json:"policies"`
	Claims   int64  `json:"claims"`
	Clients  int64  `json:"clients"`
}

// CheckHealth pings the database and reports record counts.
func CheckHealth(ctx context.Context) (*HealthReport, error) {
	db := config.GetDB()
	if db == nil {
		return nil, fmt.Errorf("database not connected")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("database ping: %w", err)
	}

	report := HealthReport{Status: "healthy", Database: "connected"}
	counts := []struct {
		model  interface{}
		target *int64
	}{
		{&Policy{}, &report.Policies},
		{&Claim{}, &report.Claims},
		{&Client{}, &report.Clients},
	}
	for _, c := range counts {
		if err := db.WithContext(ctx).Model(c.model).Count(c.target).Error; err != nil {
			return nil, err
		}
	}
	return &report, nil
}
